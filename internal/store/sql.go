// internal/store/sql.go

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// dialect captures the SQL differences between the supported engines.
type dialect struct {
	name        string
	quote       func(ident string) string
	placeholder func(i int) string // 1-based
	upsertTail  func(conflictKey string, updateCols []string) string
	columnType  func(col string) string
}

func quoteANSI(ident string) string {
	return `"` + ident + `"`
}

func quoteBacktick(ident string) string {
	return "`" + ident + "`"
}

// SQLStore implements Store on database/sql for any supported dialect.
type SQLStore struct {
	db      *sql.DB
	table   string
	dialect dialect
	logger  utils.Logger
}

func newSQLStore(db *sql.DB, table string, d dialect, logger utils.Logger) (*SQLStore, error) {
	if table == "" {
		table = "listings"
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	s := &SQLStore{db: db, table: table, dialect: d, logger: logger}
	if err := s.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create %s table: %w", table, err)
	}
	return s, nil
}

// ensureTable creates the listings table with the canonical columns.
func (s *SQLStore) ensureTable() error {
	q := s.dialect.quote
	cols := []string{fmt.Sprintf("%s %s PRIMARY KEY", q("property_url"), s.dialect.columnType("property_url"))}
	for _, col := range allColumns() {
		if col == "property_url" {
			continue
		}
		cols = append(cols, fmt.Sprintf("%s %s", q(col), s.dialect.columnType(col)))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", q(s.table), strings.Join(cols, ", "))
	_, err := s.db.Exec(query)
	return err
}

// Upsert writes the record, updating only the columns it carries.
func (s *SQLStore) Upsert(ctx context.Context, record lead.LeadRecord) (bool, error) {
	columns, values, err := recordRow(record)
	if err != nil {
		return false, err
	}

	query := buildUpsert(s.dialect, s.table, columns)
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return false, fmt.Errorf("upsert failed for %s: %w", record.PropertyURL(), err)
	}
	return true, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// buildUpsert renders the dialect-specific insert-or-update statement.
func buildUpsert(d dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	var updateCols []string
	for i, col := range columns {
		quoted[i] = d.quote(col)
		placeholders[i] = d.placeholder(i + 1)
		if col != "property_url" {
			updateCols = append(updateCols, col)
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s",
		d.quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
		d.upsertTail("property_url", updateCols))
}

// allColumns is the full schema: canonical columns plus bookkeeping.
func allColumns() []string {
	return append(lead.Columns(),
		"scrape_date", "last_scraped_at", "active", "photos_json", "other")
}

// sqlColumnType assigns a portable type per column, specialized by the
// dialect for booleans and numerics.
func baseColumnType(col string, integer, float, boolean, text string) string {
	switch col {
	case "list_price", "list_price_min", "list_price_max", "estimated_value",
		"Estimated_Equity", "Last_Sale_Amount", "year_built", "half_baths":
		return integer
	case "price_per_sqft", "ai_investment_score":
		return float
	case "active":
		return boolean
	default:
		return text
	}
}
