// internal/address/states.go

package address

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stateAbbrs maps lowercase US state names (plus DC) to postal abbreviations.
var stateAbbrs = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC",
	"north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC",
}

// stateNames is the reverse index, abbreviation to lowercase name.
var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateAbbrs))
	for name, abbr := range stateAbbrs {
		m[abbr] = name
	}
	return m
}()

var titleCaser = cases.Title(language.AmericanEnglish)

// StateAbbreviation converts a full state name to its postal abbreviation.
// Returns "" when the name is not a US state or DC.
func StateAbbreviation(name string) string {
	return stateAbbrs[strings.ToLower(strings.TrimSpace(name))]
}

// StateName converts a postal abbreviation to the title-cased state name.
// Returns "" for unknown abbreviations.
func StateName(abbr string) string {
	name, ok := stateNames[strings.ToUpper(strings.TrimSpace(abbr))]
	if !ok {
		return ""
	}
	return titleCaser.String(name)
}
