// internal/store/store_test.go

package store

import (
	"context"
	"strings"
	"testing"

	"github.com/dacionxo/leadharvest/internal/lead"
)

func record(url string, columns map[string]interface{}) lead.LeadRecord {
	cols := map[string]interface{}{"property_url": url}
	for k, v := range columns {
		cols[k] = v
	}
	return lead.LeadRecord{Columns: cols}
}

func TestMemoryStoreUpsertIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r := record("https://example.com/listing/1", map[string]interface{}{
		"city": "Springfield",
	})

	for i := 0; i < 3; i++ {
		saved, err := s.Upsert(ctx, r)
		if err != nil || !saved {
			t.Fatalf("Upsert #%d = (%v, %v)", i, saved, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1 after repeated upserts of one key", s.Len())
	}
}

func TestMemoryStorePartialUpdatePreservesColumns(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := record("https://example.com/listing/2", map[string]interface{}{
		"city":       "Springfield",
		"list_price": int64(450000),
	})
	second := record("https://example.com/listing/2", map[string]interface{}{
		"Full_Name": "Robert Johnson",
	})

	if _, err := s.Upsert(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get("https://example.com/listing/2")
	if !ok {
		t.Fatal("record missing")
	}
	if got.Columns["city"] != "Springfield" {
		t.Errorf("city = %v, partial update must not blank it", got.Columns["city"])
	}
	if got.Columns["Full_Name"] != "Robert Johnson" {
		t.Errorf("Full_Name = %v", got.Columns["Full_Name"])
	}
}

func TestUpsertWithoutNaturalKey(t *testing.T) {
	s := NewMemoryStore()
	saved, err := s.Upsert(context.Background(), lead.LeadRecord{Columns: map[string]interface{}{}})
	if saved || err == nil {
		t.Fatalf("Upsert without property_url = (%v, %v), want refusal", saved, err)
	}
	if s.Len() != 0 {
		t.Errorf("nothing should be stored, Len = %d", s.Len())
	}
}

func TestRecordRow(t *testing.T) {
	r := lead.LeadRecord{
		Columns: map[string]interface{}{
			"property_url": "https://example.com/listing/3",
			"city":         "Springfield",
			"list_price":   int64(450000),
			"photos_json":  []string{"https://img.example.com/a.jpg"},
		},
		Other: map[string]interface{}{"mystery": "value"},
	}

	columns, values, err := recordRow(r)
	if err != nil {
		t.Fatalf("recordRow failed: %v", err)
	}
	if len(columns) != len(values) {
		t.Fatalf("column/value length mismatch: %d vs %d", len(columns), len(values))
	}

	idx := map[string]interface{}{}
	for i, col := range columns {
		idx[col] = values[i]
	}
	if idx["property_url"] != "https://example.com/listing/3" {
		t.Errorf("property_url = %v", idx["property_url"])
	}
	if idx["list_price"] != int64(450000) {
		t.Errorf("list_price = %v", idx["list_price"])
	}
	if got, ok := idx["photos_json"].(string); !ok || !strings.Contains(got, "a.jpg") {
		t.Errorf("photos_json should serialize to JSON text, got %v", idx["photos_json"])
	}
	if got, ok := idx["other"].(string); !ok || !strings.Contains(got, "mystery") {
		t.Errorf("other bag should serialize to JSON text, got %v", idx["other"])
	}

	// Canonical ordering: with no listing_id set, property_url leads.
	if columns[0] != "property_url" {
		t.Errorf("columns[0] = %q, want property_url", columns[0])
	}
}

func TestRecordRowRequiresNaturalKey(t *testing.T) {
	_, _, err := recordRow(lead.LeadRecord{Columns: map[string]interface{}{"city": "Springfield"}})
	if err != ErrNoPropertyURL {
		t.Fatalf("err = %v, want ErrNoPropertyURL", err)
	}
}

func TestBuildUpsertPostgres(t *testing.T) {
	query := buildUpsert(postgresDialect(), "listings", []string{"property_url", "city", "list_price"})

	want := `INSERT INTO "listings" ("property_url", "city", "list_price") VALUES ($1, $2, $3) ` +
		`ON CONFLICT ("property_url") DO UPDATE SET "city" = EXCLUDED."city", "list_price" = EXCLUDED."list_price"`
	if query != want {
		t.Errorf("query = %s, want %s", query, want)
	}
}

func TestBuildUpsertSQLite(t *testing.T) {
	query := buildUpsert(sqliteDialect(), "listings", []string{"property_url", "city"})

	want := `INSERT INTO "listings" ("property_url", "city") VALUES (?, ?) ` +
		`ON CONFLICT("property_url") DO UPDATE SET "city" = excluded."city"`
	if query != want {
		t.Errorf("query = %s, want %s", query, want)
	}
}

func TestBuildUpsertMySQL(t *testing.T) {
	query := buildUpsert(mysqlDialect(), "listings", []string{"property_url", "city"})

	want := "INSERT INTO `listings` (`property_url`, `city`) VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE `city` = VALUES(`city`)"
	if query != want {
		t.Errorf("query = %s, want %s", query, want)
	}
}
