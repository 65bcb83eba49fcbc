// internal/lead/coerce.go

package lead

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	intCharsRe     = regexp.MustCompile(`[^\d-]`)
	leadingNumRe   = regexp.MustCompile(`^[\d.]+`)
	relativeTimeRe = regexp.MustCompile(`(?i)^\d+\s+(minute|hour|day|week|month|year)`)
	yearDigitsRe   = regexp.MustCompile(`\d{4}`)
)

// nonDateKeywords flag values that are property categories, not dates.
// Listing feeds sometimes shift columns and land these in date fields.
var nonDateKeywords = []string{
	"single-family", "family", "condo", "townhouse", "apartment", "commercial",
}

// ParsePrice reads a price string like "$450,000" into whole units.
func ParsePrice(v string) (int64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(v, "$", ""), ",", ""))
	if v == "" {
		return 0, false
	}
	numeric := leadingNumRe.FindString(v)
	if numeric == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

// ParseInt reads an integer out of a formatted string, ignoring a decimal
// tail.
func ParseInt(v string) (int64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	head := strings.SplitN(v, ".", 2)[0]
	cleaned := intCharsRe.ReplaceAllString(head, "")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloat reads a numeric string, tolerating thousands separators.
func ParseFloat(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006/01/02",
}

// ParseTimestamp normalizes a date-like string to ISO-8601. Relative-time
// phrases and category labels that drifted into date columns are rejected.
func ParseTimestamp(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if relativeTimeRe.MatchString(v) {
		return "", false
	}
	if !yearDigitsRe.MatchString(v) {
		lower := strings.ToLower(v)
		for _, kw := range nonDateKeywords {
			if strings.Contains(lower, kw) {
				return "", false
			}
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02T15:04:05"), true
		}
	}
	return "", false
}

// ParsePhotos splits a comma-separated photo list, keeping only URL-shaped
// entries.
func ParsePhotos(v string) []string {
	if v == "" {
		return nil
	}
	var urls []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "http") {
			urls = append(urls, part)
		}
	}
	return urls
}
