// internal/store/sqlite.go

package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/dacionxo/leadharvest/internal/utils"
)

// NewSQLiteStore opens (or creates) a SQLite database file. Suited to
// local runs with no database server.
func NewSQLiteStore(path, table string, logger utils.Logger) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)

	return newSQLStore(db, table, sqliteDialect(), logger)
}

func sqliteDialect() dialect {
	return dialect{
		name:  "sqlite",
		quote: quoteANSI,
		placeholder: func(int) string {
			return "?"
		},
		upsertTail: func(key string, updateCols []string) string {
			if len(updateCols) == 0 {
				return fmt.Sprintf("ON CONFLICT(%q) DO NOTHING", key)
			}
			sets := make([]string, len(updateCols))
			for i, col := range updateCols {
				sets[i] = fmt.Sprintf("%q = excluded.%q", col, col)
			}
			return fmt.Sprintf("ON CONFLICT(%q) DO UPDATE SET %s", key, strings.Join(sets, ", "))
		},
		columnType: func(col string) string {
			return baseColumnType(col, "INTEGER", "REAL", "INTEGER", "TEXT")
		},
	}
}
