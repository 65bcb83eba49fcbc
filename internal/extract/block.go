// internal/extract/block.go

package extract

import "strings"

// blockKeywords mark challenge or denial interstitials. A page containing
// any of them yields no fields regardless of what else it holds.
var blockKeywords = []string{
	"captcha",
	"robot",
	"access denied",
	"cloudflare",
	"challenge",
	"checking your browser",
	"blocked",
}

// noResultMarkers mark a genuinely empty result page, which is not a block.
var noResultMarkers = []string{
	"no results found",
	"we found 0",
}

// Blocked reports whether the document is a challenge or denial page.
func (d *Document) Blocked() bool {
	return IsBlockedText(d.lowerText)
}

// IsBlockedText reports whether raw page text carries a challenge or denial
// marker. The text is lowercased before matching.
func IsBlockedText(text string) bool {
	return containsAny(strings.ToLower(text), blockKeywords)
}

// NoResults reports whether the document says the search matched nothing.
func (d *Document) NoResults() bool {
	return containsAny(d.lowerText, noResultMarkers)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
