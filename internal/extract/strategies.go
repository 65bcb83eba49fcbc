// internal/extract/strategies.go

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StrategyKind identifies how a strategy locates a value in the document.
type StrategyKind int

const (
	// JSONPath walks the page's embedded JSON state by key path.
	JSONPath StrategyKind = iota
	// Selector runs a semantic CSS selector.
	Selector
	// PositionalPath runs a structural nth-child selector tied to page
	// layout rather than meaning. Brittle, so it ranks below Selector.
	PositionalPath
	// LabelSearch finds a label text and reads the emphasized value near it.
	LabelSearch
	// RegexFallback scans the document text as a last resort.
	RegexFallback
)

// Strategy is one way of locating a field value. Strategies are tried in
// the order their target lists them; the first non-placeholder hit wins.
type Strategy struct {
	Kind StrategyKind
	Expr string   // selector, label text, or regex depending on Kind
	Keys []string // key path for JSONPath
}

// Apply runs the strategy against the document, scoped to the given
// selection when one is provided. Returns "" on a miss.
func (s Strategy) Apply(doc *Document, scope *goquery.Selection) string {
	switch s.Kind {
	case JSONPath:
		return stringifyJSON(deepGet(doc.EmbeddedJSON(), s.Keys))
	case Selector, PositionalPath:
		sel := doc.Find(s.Expr)
		if scope != nil {
			sel = scope.Find(s.Expr)
		}
		return strings.TrimSpace(sel.First().Text())
	case LabelSearch:
		return labelSearch(doc, scope, s.Expr)
	case RegexFallback:
		return regexFallback(doc, scope, s.Expr)
	default:
		return ""
	}
}

// labelSearch locates a container mentioning the label and returns the text
// of the first <b> inside it. Mirrors the label-then-bold layout of property
// detail cards.
func labelSearch(doc *Document, scope *goquery.Selection, label string) string {
	containers := doc.Find("div, p, span")
	if scope != nil {
		containers = scope.Find("div, p, span")
	}

	// Traversal is document order, so later matches are deeper. Keeping the
	// last one pins the value to the tightest container around the label.
	needle := strings.ToLower(label)
	var value string
	containers.Each(func(_ int, c *goquery.Selection) {
		if !strings.Contains(strings.ToLower(c.Text()), needle) {
			return
		}
		text := strings.TrimSpace(c.Find("b").First().Text())
		if text != "" {
			value = text
		}
	})
	return value
}

// regexFallback scans the text content with the given pattern. The first
// capture group is preferred over the whole match.
func regexFallback(doc *Document, scope *goquery.Selection, pattern string) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ""
	}
	text := doc.Text()
	if scope != nil {
		text = scope.Text()
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if len(m) > 1 && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[0])
}
