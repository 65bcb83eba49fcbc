// internal/store/postgres.go

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/dacionxo/leadharvest/internal/utils"
)

// NewPostgresStore connects to PostgreSQL and prepares the listings table.
func NewPostgresStore(connectionString, table string, logger utils.Logger) (*SQLStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("postgres connection string is required")
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, table, postgresDialect(), logger)
}

func postgresDialect() dialect {
	return dialect{
		name:  "postgres",
		quote: quoteANSI,
		placeholder: func(i int) string {
			return fmt.Sprintf("$%d", i)
		},
		upsertTail: func(key string, updateCols []string) string {
			if len(updateCols) == 0 {
				return fmt.Sprintf("ON CONFLICT (%q) DO NOTHING", key)
			}
			sets := make([]string, len(updateCols))
			for i, col := range updateCols {
				sets[i] = fmt.Sprintf("%q = EXCLUDED.%q", col, col)
			}
			return fmt.Sprintf("ON CONFLICT (%q) DO UPDATE SET %s", key, strings.Join(sets, ", "))
		},
		columnType: func(col string) string {
			if col == "other" || col == "photos_json" {
				return "JSONB"
			}
			return baseColumnType(col, "BIGINT", "DOUBLE PRECISION", "BOOLEAN", "TEXT")
		},
	}
}
