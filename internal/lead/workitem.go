// internal/lead/workitem.go

// Package lead models work items flowing through the pipeline and merges
// extracted fields into canonical lead records.
package lead

import (
	"strings"

	"github.com/dacionxo/leadharvest/internal/address"
)

// WorkItem is one row of input: a loose bag of string columns from a CSV
// feed or a queued job. Missing cells are empty strings.
type WorkItem map[string]string

// Get returns the first non-empty value among the named keys. Exact matches
// win; a case-insensitive pass follows, since feeds disagree on header
// casing.
func (w WorkItem) Get(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(w[key]); v != "" {
			return v
		}
	}
	for _, key := range keys {
		for k, v := range w {
			if strings.EqualFold(k, key) {
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// Set assigns a value, reusing an existing key that matches case
// insensitively rather than introducing a duplicate column.
func (w WorkItem) Set(key, value string) {
	if _, ok := w[key]; ok {
		w[key] = value
		return
	}
	for k := range w {
		if strings.EqualFold(k, key) {
			w[k] = value
			return
		}
	}
	w[key] = value
}

// Clone copies the item so per-item goroutines never share a map.
func (w WorkItem) Clone() WorkItem {
	out := make(WorkItem, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// PropertyURL returns the item's natural key.
func (w WorkItem) PropertyURL() string {
	return w.Get("property_url")
}

// ResolveAddress assembles the street, city, state, and zip for an item.
// Separate columns win; otherwise the free-form address column is parsed
// and fills whatever is still missing.
func (w WorkItem) ResolveAddress() address.ParsedAddress {
	resolved := address.ParsedAddress{
		City:  w.Get("city"),
		State: w.Get("state"),
		Zip:   w.Get("zip_code", "zip", "zipcode"),
	}

	full := w.Get("address", "street")
	if full == "" {
		return resolved
	}

	if resolved.City != "" && resolved.State != "" {
		// Separate columns exist, so the address column is just the street.
		resolved.Street = full
		return resolved
	}

	parsed := address.Parse(full)
	resolved.Street = parsed.Street
	if resolved.City == "" {
		resolved.City = parsed.City
	}
	if resolved.State == "" {
		resolved.State = parsed.State
	}
	if resolved.Zip == "" {
		resolved.Zip = parsed.Zip
	}
	return resolved
}
