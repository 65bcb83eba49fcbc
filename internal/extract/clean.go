// internal/extract/clean.go

package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholders = map[string]bool{
	"":              true,
	"n/a":           true,
	"na":            true,
	"not available": true,
	"none":          true,
}

// IsPlaceholder reports whether a raw value is a known no-data sentinel.
func IsPlaceholder(v string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(v))]
}

var (
	nonDigit        = regexp.MustCompile(`\D`)
	nonCurrencyChar = regexp.MustCompile(`[^\d.]`)
	anyDigit        = regexp.MustCompile(`\d`)
	yearRe          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	digitRunRe      = regexp.MustCompile(`\d+`)
	pricePrefixRe   = regexp.MustCompile(`^Price,\s*`)
	priceEstRe      = regexp.MustCompile(`(?:—Est\.?|\s*Est\.?)$`)
	emailRe         = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe         = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// CleanCurrency strips everything except digits and decimal points. Returns
// "" when no digit survives.
func CleanCurrency(v string) string {
	cleaned := nonCurrencyChar.ReplaceAllString(v, "")
	if !anyDigit.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// CleanYear extracts a plausible four-digit year, or "" when none appears.
func CleanYear(v string) string {
	return yearRe.FindString(v)
}

// FormatPhone renders ten digits (or eleven with a leading 1) as
// "(NNN) NNN-NNNN". Anything else comes back trimmed but unchanged.
func FormatPhone(v string) string {
	if v == "" {
		return ""
	}
	digits := nonDigit.ReplaceAllString(v, "")
	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	case len(digits) == 11 && digits[0] == '1':
		return fmt.Sprintf("(%s) %s-%s", digits[1:4], digits[4:7], digits[7:])
	default:
		return strings.TrimSpace(v)
	}
}

// FormatPhoneStrict is FormatPhone without the fallback: input that does
// not carry ten digits (or eleven with a leading 1) yields "".
func FormatPhoneStrict(v string) string {
	digits := nonDigit.ReplaceAllString(v, "")
	if len(digits) == 10 || (len(digits) == 11 && digits[0] == '1') {
		return FormatPhone(v)
	}
	return ""
}

// NormalizeZip reduces ZIP-like input to a 5-digit string: the first digit
// run, truncated to 5 digits or left-padded with zeros.
func NormalizeZip(v string) string {
	if v == "" {
		return ""
	}
	digits := digitRunRe.FindString(v)
	if digits == "" {
		return ""
	}
	if len(digits) >= 5 {
		return digits[:5]
	}
	return strings.Repeat("0", 5-len(digits)) + digits
}

// CleanPriceText drops the label prefix and estimate suffix screen readers
// see around listed prices.
func CleanPriceText(v string) string {
	if v == "" {
		return ""
	}
	s := strings.TrimSpace(v)
	s = pricePrefixRe.ReplaceAllString(s, "")
	s = priceEstRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractEmail returns the first email address appearing in free text.
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone-shaped token in free text, formatted.
func ExtractPhone(text string) string {
	m := phoneRe.FindString(text)
	if m == "" {
		return ""
	}
	return FormatPhone(m)
}

// PhoneBlacklist holds numbers excluded from output, keyed by digit string
// so formatting differences cannot dodge the filter.
type PhoneBlacklist map[string]struct{}

// NewPhoneBlacklist builds a blacklist from numbers in any format.
func NewPhoneBlacklist(numbers []string) PhoneBlacklist {
	b := make(PhoneBlacklist, len(numbers))
	for _, n := range numbers {
		digits := nonDigit.ReplaceAllString(n, "")
		if digits != "" {
			b[digits] = struct{}{}
		}
	}
	return b
}

// Contains reports whether the phone number is blacklisted.
func (b PhoneBlacklist) Contains(phone string) bool {
	if len(b) == 0 {
		return false
	}
	_, ok := b[nonDigit.ReplaceAllString(phone, "")]
	return ok
}
