// internal/fetch/search.go

package fetch

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultSearchBase is the people-search endpoint enrichment queries run
// against.
const DefaultSearchBase = "https://www.truepeoplesearch.com/resultaddress"

// BuildSearchURL constructs a people-search address query. Street, city,
// and state are required; the zip is appended when present.
func BuildSearchURL(base, street, city, state, zip string) (string, error) {
	if base == "" {
		base = DefaultSearchBase
	}
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	if street == "" || city == "" || state == "" {
		return "", errors.New("street, city, and state are required")
	}

	cityStateZip := strings.TrimSpace(city + ", " + state + " " + strings.TrimSpace(zip))

	params := url.Values{}
	params.Set("streetaddress", street)
	params.Set("citystatezip", cityStateZip)
	return base + "?" + params.Encode(), nil
}
