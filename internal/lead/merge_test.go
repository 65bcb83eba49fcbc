// internal/lead/merge_test.go

package lead

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestMergeMapsAndCoerces(t *testing.T) {
	now = fixedNow
	defer func() { now = time.Now }()

	item := WorkItem{
		"property_url": "https://example.com/listing/42",
		"address":      "123 Main St",
		"city":         "Springfield",
		"state":        "IL",
		"zip_code":     "62701",
		"list_price":   "$450,000",
		"mystery_key":  "kept aside",
	}
	extracted := map[string]string{
		"estimated_value":  "250000",
		"estimated_equity": "$120,000.50",
		"full_name":        "Robert Johnson",
		"age":              "52",
		"year_built":       "1987",
		"last_sale_date":   "03/15/2015",
	}

	record := Merge(item, extracted)

	if got := record.PropertyURL(); got != "https://example.com/listing/42" {
		t.Fatalf("PropertyURL = %q", got)
	}
	if got := record.Columns["street"]; got != "123 Main St" {
		t.Errorf("street = %v", got)
	}
	if got := record.Columns["list_price"]; got != int64(450000) {
		t.Errorf("list_price = %v (%T), want int64 450000", got, got)
	}
	if got := record.Columns["Estimated_Equity"]; got != int64(120000) {
		t.Errorf("Estimated_Equity = %v (%T), want int64 120000", got, got)
	}
	if got := record.Columns["year_built"]; got != int64(1987) {
		t.Errorf("year_built = %v (%T), want int64 1987", got, got)
	}
	if got := record.Columns["Full_Name"]; got != "Robert Johnson" {
		t.Errorf("Full_Name = %v", got)
	}
	if got := record.Columns["Age"]; got != "52" {
		t.Errorf("Age = %v, should stay text", got)
	}
	if got := record.Columns["Last_Sale_Date"]; got != "2015-03-15T00:00:00" {
		t.Errorf("Last_Sale_Date = %v", got)
	}
	if got := record.Columns["last_scraped_at"]; got != "2026-03-14T09:30:00" {
		t.Errorf("last_scraped_at = %v", got)
	}
	if got := record.Columns["scrape_date"]; got != "2026-03-14" {
		t.Errorf("scrape_date = %v", got)
	}
	if got := record.Columns["active"]; got != true {
		t.Errorf("active = %v", got)
	}
	if got := record.Other["mystery_key"]; got != "kept aside" {
		t.Errorf("other bag = %v", record.Other)
	}
	if _, ok := record.Other["city"]; ok {
		t.Error("mapped key leaked into the other bag")
	}
}

func TestMergeNeverOverwritesWithEmpty(t *testing.T) {
	item := WorkItem{
		"property_url": "https://example.com/listing/7",
		"agent_phone":  "(555) 123-4567",
	}
	extracted := map[string]string{
		"agent_phone": "",
		"full_name":   "   ",
	}

	record := Merge(item, extracted)
	if got := record.Columns["agent_phone"]; got != "(555) 123-4567" {
		t.Errorf("agent_phone = %v, empty extraction must not clobber it", got)
	}
	if _, ok := record.Columns["Full_Name"]; ok {
		t.Error("blank extraction should not create a column")
	}
}

func TestMergeTimestampRejection(t *testing.T) {
	base := WorkItem{"property_url": "https://example.com/listing/9"}

	tests := []struct {
		value string
		keep  bool
	}{
		{"34 minutes ago", false},
		{"4 days", false},
		{"Single-Family", false},
		{"Condo", false},
		{"2015-03-15", true},
	}
	for _, tt := range tests {
		record := Merge(base, map[string]string{"last_sale_date": tt.value})
		_, ok := record.Columns["Last_Sale_Date"]
		if ok != tt.keep {
			t.Errorf("Last_Sale_Date %q kept=%v, want %v", tt.value, ok, tt.keep)
		}
	}
}

func TestMergePriorityOrder(t *testing.T) {
	item := WorkItem{
		"property_url":        "https://example.com/listing/11",
		"agent_phone_1":       "(555) 111-1111",
		"listing_agent_phone": "(555) 222-2222",
	}
	record := Merge(item, nil)
	if got := record.Columns["agent_phone"]; got != "(555) 111-1111" {
		t.Errorf("agent_phone = %v, want the higher-priority source", got)
	}
}

func TestMergePhotos(t *testing.T) {
	item := WorkItem{
		"property_url": "https://example.com/listing/12",
		"photos":       "https://img.example.com/a.jpg, not-a-url, https://img.example.com/b.jpg",
	}
	record := Merge(item, nil)
	photos, ok := record.Columns["photos_json"].([]string)
	if !ok || len(photos) != 2 {
		t.Fatalf("photos_json = %v", record.Columns["photos_json"])
	}
	if photos[0] != "https://img.example.com/a.jpg" || photos[1] != "https://img.example.com/b.jpg" {
		t.Errorf("photos_json = %v", photos)
	}
}

func TestWorkItemGetCaseInsensitive(t *testing.T) {
	item := WorkItem{"ZIP": "62701", "City": "Springfield"}

	if got := item.Get("zip_code", "zip", "zipcode"); got != "62701" {
		t.Errorf("Get zip = %q", got)
	}
	if got := item.Get("city"); got != "Springfield" {
		t.Errorf("Get city = %q", got)
	}
	if got := item.Get("state"); got != "" {
		t.Errorf("Get state = %q, want empty", got)
	}
}

func TestWorkItemResolveAddress(t *testing.T) {
	// Separate columns: address column is just the street.
	item := WorkItem{
		"address": "3424 Firestone #155",
		"city":    "Dallas",
		"state":   "TX",
		"zip":     "75201",
	}
	got := item.ResolveAddress()
	if got.Street != "3424 Firestone #155" || got.City != "Dallas" || got.State != "TX" || got.Zip != "75201" {
		t.Errorf("ResolveAddress = %+v", got)
	}

	// No separate columns: the full address string gets parsed.
	item = WorkItem{"address": "123 Main St, Springfield, IL 62701"}
	got = item.ResolveAddress()
	if got.Street != "123 Main St" || got.City != "Springfield" || got.State != "IL" || got.Zip != "62701" {
		t.Errorf("ResolveAddress parsed = %+v", got)
	}

	// Nothing usable.
	got = WorkItem{"beds": "3"}.ResolveAddress()
	if got.Resolved() {
		t.Errorf("expected unresolved address, got %+v", got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"$450,000", 450000, true},
		{"450000.75", 450000, true},
		{"about later", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePrice(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	if got, ok := ParseTimestamp("03/15/2015"); !ok || got != "2015-03-15T00:00:00" {
		t.Errorf("ParseTimestamp slash form = (%q, %v)", got, ok)
	}
	if got, ok := ParseTimestamp("2015-03-15T10:20:30"); !ok || got != "2015-03-15T10:20:30" {
		t.Errorf("ParseTimestamp iso form = (%q, %v)", got, ok)
	}
	if _, ok := ParseTimestamp("17 hours ago"); ok {
		t.Error("relative time must be rejected")
	}
	if _, ok := ParseTimestamp("Townhouse"); ok {
		t.Error("category label must be rejected")
	}
	if _, ok := ParseTimestamp("complete gibberish"); ok {
		t.Error("unparseable text must be rejected")
	}
}
