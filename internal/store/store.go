// internal/store/store.go

// Package store persists lead records with idempotent upserts keyed by the
// listing URL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// ErrNoPropertyURL means the record has no natural key and cannot be saved.
var ErrNoPropertyURL = errors.New("record has no property_url")

// Store is a durable sink for lead records.
type Store interface {
	// Upsert inserts or updates the record keyed by property_url. The
	// bool reports whether anything was saved. Only columns present on
	// the record are written, so a partial update never blanks existing
	// data.
	Upsert(ctx context.Context, record lead.LeadRecord) (bool, error)
	Close() error
}

// recordRow flattens a record into column names and driver-ready values,
// in canonical column order.
func recordRow(record lead.LeadRecord) ([]string, []interface{}, error) {
	if record.PropertyURL() == "" {
		return nil, nil, ErrNoPropertyURL
	}

	var columns []string
	var values []interface{}
	for _, col := range append(lead.Columns(), "scrape_date", "last_scraped_at", "active", "photos_json") {
		v, ok := record.Columns[col]
		if !ok || v == nil {
			continue
		}
		converted, err := convertValue(v)
		if err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", col, err)
		}
		columns = append(columns, col)
		values = append(values, converted)
	}

	if len(record.Other) > 0 {
		blob, err := json.Marshal(record.Other)
		if err != nil {
			return nil, nil, fmt.Errorf("other bag: %w", err)
		}
		columns = append(columns, "other")
		values = append(values, string(blob))
	}

	return columns, values, nil
}

// convertValue renders composite values as JSON strings so every driver
// can bind them.
func convertValue(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case string, bool, int, int64, float64, nil:
		return val, nil
	case []string, []interface{}, map[string]interface{}:
		blob, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(blob), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}
