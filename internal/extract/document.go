// internal/extract/document.go

// Package extract pulls structured lead fields out of semi-structured HTML
// documents using ordered fallback strategies.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a fetched HTML page with the parsed DOM, the lowercased
// text content, and lazily decoded embedded JSON state.
type Document struct {
	raw       string
	doc       *goquery.Document
	lowerText string

	jsonOnce sync.Once
	jsonData map[string]interface{}
}

// stateJSONPatterns match the client-side state blobs SPAs embed in script
// tags. Ordered from most to least common.
var stateJSONPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\});`),
	regexp.MustCompile(`(?s)window\.__PRELOADED_STATE__\s*=\s*(\{.*?\});`),
	regexp.MustCompile(`(?s)_PRELOADED_STATE_\s*=\s*(\{.*?\});`),
	regexp.MustCompile(`(?s)window\.__reactServerState\s*=\s*(\{.*?\});`),
	regexp.MustCompile(`(?s)window\.__APOLLO_STATE__\s*=\s*(\{.*?\});`),
	regexp.MustCompile(`(?s)window\.__REDUX_STATE__\s*=\s*(\{.*?\});`),
}

// ParseDocument parses raw HTML into a Document.
func ParseDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{
		raw:       html,
		doc:       doc,
		lowerText: strings.ToLower(doc.Text()),
	}, nil
}

// Raw returns the original HTML.
func (d *Document) Raw() string {
	return d.raw
}

// Find runs a CSS selector against the document root.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Text returns the text content of the whole document.
func (d *Document) Text() string {
	return d.doc.Text()
}

// LowerText returns the lowercased text content, cached at parse time.
func (d *Document) LowerText() string {
	return d.lowerText
}

// EmbeddedJSON returns the first client-side state blob found in a script
// tag, decoded into a generic map. Falls back to LD+JSON. Returns an empty
// map when the page carries no decodable state.
func (d *Document) EmbeddedJSON() map[string]interface{} {
	d.jsonOnce.Do(func() {
		d.jsonData = d.decodeEmbeddedJSON()
	})
	return d.jsonData
}

func (d *Document) decodeEmbeddedJSON() map[string]interface{} {
	var found map[string]interface{}

	d.doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if text == "" {
			return true
		}
		for _, pattern := range stateJSONPatterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			var data map[string]interface{}
			if err := json.Unmarshal([]byte(balanceBraces(m[1])), &data); err != nil {
				continue
			}
			found = data
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	d.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		found = data
		return false
	})
	if found != nil {
		return found
	}
	return map[string]interface{}{}
}

// balanceBraces appends closing braces when a lazy regex match cut the blob
// short of its final nesting level.
func balanceBraces(jsonText string) string {
	open := strings.Count(jsonText, "{")
	closed := strings.Count(jsonText, "}")
	if open > closed {
		jsonText += strings.Repeat("}", open-closed)
	}
	return jsonText
}

// deepGet walks nested maps by key path. Returns nil when any segment is
// missing or not a map.
func deepGet(data map[string]interface{}, keys []string) interface{} {
	if data == nil || len(keys) == 0 {
		return nil
	}
	val, ok := data[keys[0]]
	if !ok {
		return nil
	}
	if len(keys) == 1 {
		return val
	}
	child, ok := val.(map[string]interface{})
	if !ok {
		return nil
	}
	return deepGet(child, keys[1:])
}

// stringifyJSON renders a JSON leaf value as a field string. Integral floats
// lose the trailing ".0" that generic decoding introduces.
func stringifyJSON(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return ""
	}
}
