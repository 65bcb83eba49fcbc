// internal/address/normalizer.go

// Package address parses free-form US street addresses into their
// street, city, state, and zip components.
package address

import (
	"regexp"
	"strings"
)

// ParsedAddress holds the components recovered from a raw address string.
// A component the parser could not resolve is the empty string.
type ParsedAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip_code"`
}

var (
	// "123 Main St, Springfield, IL 62701" or "123 Main St, Springfield, IL"
	commaStateRe = regexp.MustCompile(`(?i)^(.+?),\s*([^,]+),\s*([A-Za-z]{2})(?:\s+(\d{5}(?:-\d{4})?))?$`)

	// "123 Main St Springfield IL 62701" (no commas, trailing zip)
	bareRe = regexp.MustCompile(`(?i)^(.+?)\s+([A-Za-z][A-Za-z]+(?:\s+[A-Za-z][A-Za-z]+)*)\s+([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)$`)

	// "123 Main St, Springfield, Illinois 62701" (full state name)
	fullStateRe = regexp.MustCompile(`(?i)^(.+?),\s*([^,]+),\s*([A-Za-z][A-Za-z]+(?:\s+[A-Za-z][A-Za-z]+)*)\s+(\d{5}(?:-\d{4})?)$`)

	trailingStateZipRe = regexp.MustCompile(`\b([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)\s*$`)
	trailingZipRe      = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\s*$`)
)

// Parse splits a raw address string into its components. It never fails:
// unrecognized input degrades to partial components, and blank input yields
// an all-empty result.
func Parse(raw string) ParsedAddress {
	var result ParsedAddress

	addr := strings.TrimSpace(raw)
	if addr == "" {
		return result
	}

	if m := commaStateRe.FindStringSubmatch(addr); m != nil {
		result.Street = strings.TrimSpace(m[1])
		result.City = strings.TrimSpace(m[2])
		result.State = strings.ToUpper(m[3])
		result.Zip = m[4]
		return result
	}

	if bareRe.MatchString(addr) {
		if parsed, ok := parseTokens(addr); ok {
			return parsed
		}
	}

	if m := fullStateRe.FindStringSubmatch(addr); m != nil {
		result.Street = strings.TrimSpace(m[1])
		result.City = strings.TrimSpace(m[2])
		name := strings.TrimSpace(m[3])
		if abbr := StateAbbreviation(name); abbr != "" {
			result.State = abbr
		} else {
			result.State = strings.ToUpper(name)
		}
		result.Zip = m[4]
		return result
	}

	return parseResidual(addr)
}

// parseTokens handles comma-free addresses by scanning tokens right to left
// for a two-letter state, treating the single token before it as the city.
func parseTokens(addr string) (ParsedAddress, bool) {
	var result ParsedAddress

	parts := strings.Fields(addr)
	if len(parts) < 4 {
		return result, false
	}

	stateIdx := -1
	for i := len(parts) - 1; i > 0; i-- {
		if len(parts[i]) == 2 && isAlpha(parts[i]) {
			stateIdx = i
			break
		}
	}
	if stateIdx <= 1 {
		return result, false
	}

	result.Street = strings.Join(parts[:stateIdx-1], " ")
	result.City = parts[stateIdx-1]
	result.State = strings.ToUpper(parts[stateIdx])
	if stateIdx+1 < len(parts) {
		result.Zip = parts[stateIdx+1]
	}
	return result, true
}

// parseResidual is the fallback for addresses no pattern recognizes: peel a
// trailing zip (and a two-letter state directly before it), then split the
// remainder on its last comma.
func parseResidual(addr string) ParsedAddress {
	var result ParsedAddress

	if m := trailingStateZipRe.FindStringSubmatch(addr); m != nil {
		result.State = strings.ToUpper(m[1])
		result.Zip = m[2]
		addr = strings.TrimSpace(trailingStateZipRe.ReplaceAllString(addr, ""))
	} else if m := trailingZipRe.FindStringSubmatch(addr); m != nil {
		result.Zip = m[1]
		addr = strings.TrimSpace(trailingZipRe.ReplaceAllString(addr, ""))
	}

	addr = strings.TrimRight(addr, ", ")
	if idx := strings.LastIndex(addr, ","); idx >= 0 {
		result.Street = strings.TrimSpace(addr[:idx])
		result.City = strings.TrimSpace(addr[idx+1:])
	} else {
		result.Street = addr
	}
	return result
}

// Resolved reports whether enough components were recovered to locate the
// property: street, city, and state must all be present.
func (a ParsedAddress) Resolved() bool {
	return a.Street != "" && a.City != "" && a.State != ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
