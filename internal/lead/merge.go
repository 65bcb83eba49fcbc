// internal/lead/merge.go

package lead

import (
	"strings"
	"time"
)

var (
	priceColumns = map[string]bool{
		"list_price": true, "list_price_min": true, "list_price_max": true,
		"estimated_value": true, "Estimated_Equity": true, "Last_Sale_Amount": true,
	}
	intColumns       = map[string]bool{"year_built": true, "half_baths": true}
	floatColumns     = map[string]bool{"price_per_sqft": true, "ai_investment_score": true}
	timestampColumns = map[string]bool{"time_listed": true, "Last_Sale_Date": true}
)

// now is swapped out by tests.
var now = time.Now

// Merge folds extracted fields into the work item and builds the canonical
// record. Extracted values only land where they carry content, so a failed
// extraction never blanks data the feed already had.
func Merge(item WorkItem, extracted map[string]string) LeadRecord {
	combined := item.Clone()
	for key, value := range extracted {
		if strings.TrimSpace(value) == "" {
			continue
		}
		combined.Set(key, value)
	}
	return buildRecord(combined)
}

// buildRecord maps source keys onto canonical columns, coerces typed
// columns, and sweeps unclaimed keys into the other bag.
func buildRecord(item WorkItem) LeadRecord {
	columns := make(map[string]interface{})

	for _, m := range fieldMappings {
		raw := item.Get(m.Sources...)
		if raw == "" {
			continue
		}

		switch {
		case priceColumns[m.Column]:
			if n, ok := ParsePrice(raw); ok {
				columns[m.Column] = n
			}
		case intColumns[m.Column]:
			if n, ok := ParseInt(raw); ok {
				columns[m.Column] = n
			}
		case floatColumns[m.Column]:
			if f, ok := ParseFloat(raw); ok {
				columns[m.Column] = f
			}
		case timestampColumns[m.Column]:
			if ts, ok := ParseTimestamp(raw); ok {
				columns[m.Column] = ts
			}
		default:
			columns[m.Column] = raw
		}
	}

	ts := now().UTC()
	if _, ok := columns["scrape_date"]; !ok {
		if v := item.Get("scrape_date"); v != "" {
			columns["scrape_date"] = v
		} else {
			columns["scrape_date"] = ts.Format("2006-01-02")
		}
	}
	columns["last_scraped_at"] = ts.Format("2006-01-02T15:04:05")
	columns["active"] = true

	if photos := ParsePhotos(item.Get("photos")); len(photos) > 0 {
		columns["photos_json"] = photos
	}

	return LeadRecord{
		Columns: columns,
		Other:   buildOther(item),
	}
}

// buildOther collects every input key no mapping claims. Values are already
// strings, so the bag serializes as-is.
func buildOther(item WorkItem) map[string]interface{} {
	other := make(map[string]interface{})
	for key, value := range item {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if mappedSourceKeys[lower(key)] || lower(key) == "scrape_date" {
			continue
		}
		other[key] = value
	}
	if len(other) == 0 {
		return nil
	}
	return other
}

func lower(s string) string {
	return strings.ToLower(s)
}
