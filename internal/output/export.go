// internal/output/export.go

// Package output writes enriched lead records to tabular export artifacts.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// exportHeader lays out columns for an export: canonical columns that
// appear in at least one record, in schema order, then the union of
// other-bag keys sorted for stability.
func exportHeader(records []lead.LeadRecord) []string {
	present := make(map[string]bool)
	extra := make(map[string]bool)
	for _, r := range records {
		for col := range r.Columns {
			present[col] = true
		}
		for k := range r.Other {
			extra[k] = true
		}
	}

	var header []string
	for _, col := range append(lead.Columns(), "scrape_date", "last_scraped_at", "active", "photos_json") {
		if present[col] {
			header = append(header, col)
		}
	}

	var extras []string
	for k := range extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(header, extras...)
}

// cellValue renders one column of one record as text.
func cellValue(r lead.LeadRecord, col string) string {
	if v, ok := r.Columns[col]; ok {
		return stringify(v)
	}
	if v, ok := r.Other[col]; ok {
		return stringify(v)
	}
	return ""
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case map[string]interface{}, []interface{}:
		blob, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(blob)
	default:
		return fmt.Sprintf("%v", val)
	}
}
