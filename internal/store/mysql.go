// internal/store/mysql.go

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/dacionxo/leadharvest/internal/utils"
)

// NewMySQLStore connects to MySQL and prepares the listings table.
func NewMySQLStore(dsn, table string, logger utils.Logger) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, table, mysqlDialect(), logger)
}

func mysqlDialect() dialect {
	return dialect{
		name:  "mysql",
		quote: quoteBacktick,
		placeholder: func(int) string {
			return "?"
		},
		upsertTail: func(key string, updateCols []string) string {
			if len(updateCols) == 0 {
				return fmt.Sprintf("ON DUPLICATE KEY UPDATE `%s` = `%s`", key, key)
			}
			sets := make([]string, len(updateCols))
			for i, col := range updateCols {
				sets[i] = fmt.Sprintf("`%s` = VALUES(`%s`)", col, col)
			}
			return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
		},
		columnType: func(col string) string {
			switch col {
			case "property_url":
				// MySQL needs a bounded key length.
				return "VARCHAR(512)"
			case "other", "photos_json":
				return "JSON"
			}
			return baseColumnType(col, "BIGINT", "DOUBLE", "BOOLEAN", "TEXT")
		},
	}
}
