// internal/pipeline/coordinator_test.go

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dacionxo/leadharvest/internal/fetch"
	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/store"
)

const personPage = `<html><body>
<div class="card">
  <h2>Jane Smith</h2>
  <p>Age 45</p>
  <p><a href="/find/address">123 Main St, Springfield</a></p>
  <p><a href="tel:5551234567" title="Wireless">(555) 123-4567</a></p>
</div>
</body></html>`

const blockPage = `<html><body><h1>Checking your browser before accessing</h1></body></html>`

const listingPage = `<html><body>
<script>
window.__INITIAL_STATE__ = {"payload":{"propertyData":{"address":{"streetLine":"123 Main St","city":"Springfield","zipcode":"62701"}}}};
</script>
<div data-rf-test-id="abp-price">$450,000</div>
<div data-rf-test-id="abp-beds">3</div>
</body></html>`

// stubFetcher returns canned results and counts calls.
type stubFetcher struct {
	result fetch.Result
	calls  int64
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) fetch.Result {
	atomic.AddInt64(&f.calls, 1)
	r := f.result
	r.FinalURL = rawURL
	return r
}

// gaugeFetcher tracks peak concurrency across calls.
type gaugeFetcher struct {
	current int64
	peak    int64
}

func (f *gaugeFetcher) Fetch(_ context.Context, rawURL string) fetch.Result {
	n := atomic.AddInt64(&f.current, 1)
	for {
		p := atomic.LoadInt64(&f.peak)
		if n <= p || atomic.CompareAndSwapInt64(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt64(&f.current, -1)
	return fetch.Result{Status: fetch.StatusSuccess, HTML: personPage, FinalURL: rawURL}
}

func workItem(propertyURL string) lead.WorkItem {
	item := lead.WorkItem{
		"address": "123 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"zip":     "62701",
	}
	if propertyURL != "" {
		item["property_url"] = propertyURL
	}
	return item
}

func TestRunEnrichesAndSaves(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: personPage}}
	mem := store.NewMemoryStore()
	coord := NewCoordinator(fetcher, nil, mem, nil, Config{Workers: 2})

	stats, records, err := coord.Run(context.Background(), []lead.WorkItem{workItem("https://example.com/p/1")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Enriched != 1 || stats.Saved != 1 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %s", stats)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Columns["Full_Name"]; got != "Jane Smith" {
		t.Errorf("Full_Name = %v", got)
	}
	if got := records[0].Columns["Resident_Phone_Number"]; got != "(555) 123-4567" {
		t.Errorf("Resident_Phone_Number = %v", got)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestRunSkipsUnresolvableAddress(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: personPage}}
	coord := NewCoordinator(fetcher, nil, store.NewMemoryStore(), nil, Config{})

	items := []lead.WorkItem{{"address": "", "city": "", "state": ""}}
	stats, records, err := coord.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Skipped != 1 || stats.Enriched != 0 {
		t.Errorf("stats = %s", stats)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if atomic.LoadInt64(&fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times for unresolvable address", fetcher.calls)
	}
}

func TestRunBlockedPageCountsFailed(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: blockPage}}
	mem := store.NewMemoryStore()
	coord := NewCoordinator(fetcher, nil, mem, nil, Config{})

	stats, records, err := coord.Run(context.Background(), []lead.WorkItem{workItem("https://example.com/p/1")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Failed != 1 || stats.Enriched != 0 || stats.Saved != 0 {
		t.Errorf("stats = %s", stats)
	}
	if len(records) != 0 || mem.Len() != 0 {
		t.Errorf("blocked page produced records: %d in run, %d stored", len(records), mem.Len())
	}
}

func TestRunFetchErrorCountsFailed(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusHTTPError, Code: 404}}
	coord := NewCoordinator(fetcher, nil, store.NewMemoryStore(), nil, Config{})

	stats, _, err := coord.Run(context.Background(), []lead.WorkItem{workItem("https://example.com/p/1")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Failed != 1 {
		t.Errorf("stats = %s", stats)
	}
}

func TestRunWithoutPropertyURL(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: personPage}}
	mem := store.NewMemoryStore()
	coord := NewCoordinator(fetcher, nil, mem, nil, Config{})

	stats, records, err := coord.Run(context.Background(), []lead.WorkItem{workItem("")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Still enriched and exported, but never persisted. The item lands in
	// exactly one outcome bucket; the persistence miss only shows in saved.
	if stats.Enriched != 1 || stats.Saved != 0 {
		t.Errorf("stats = %s", stats)
	}
	if stats.Enriched+stats.Failed+stats.Skipped != 1 {
		t.Errorf("one item landed in multiple outcome buckets: %s", stats)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
	if mem.Len() != 0 {
		t.Errorf("store has %d records, want 0", mem.Len())
	}
}

func TestListingModeScrapesPropertyPage(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: listingPage}}
	mem := store.NewMemoryStore()
	coord := NewCoordinator(fetcher, nil, mem, nil, Config{Mode: ModeListing})

	stats, records, err := coord.Run(context.Background(), []lead.WorkItem{workItem("https://example.com/p/1")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Enriched != 1 || stats.Saved != 1 || stats.Failed != 0 {
		t.Errorf("stats = %s", stats)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Columns["list_price"]; got != int64(450000) {
		t.Errorf("list_price = %v (%T)", got, got)
	}
	if got := records[0].Columns["beds"]; got != "3" {
		t.Errorf("beds = %v", got)
	}
	if got := records[0].Columns["city"]; got != "Springfield" {
		t.Errorf("city = %v", got)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestListingModeSkipsWithoutURL(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: listingPage}}
	coord := NewCoordinator(fetcher, nil, store.NewMemoryStore(), nil, Config{Mode: ModeListing})

	stats, records, err := coord.Run(context.Background(), []lead.WorkItem{workItem("")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Skipped != 1 || stats.Enriched != 0 {
		t.Errorf("stats = %s", stats)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if atomic.LoadInt64(&fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times for item with no listing url", fetcher.calls)
	}
}

func TestListingModeBlockedPageCountsFailed(t *testing.T) {
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: blockPage}}
	mem := store.NewMemoryStore()
	coord := NewCoordinator(fetcher, nil, mem, nil, Config{Mode: ModeListing})

	stats, _, err := coord.Run(context.Background(), []lead.WorkItem{workItem("https://example.com/p/1")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Failed != 1 || stats.Enriched != 0 || mem.Len() != 0 {
		t.Errorf("stats = %s, stored = %d", stats, mem.Len())
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	fetcher := &gaugeFetcher{}
	coord := NewCoordinator(fetcher, nil, nil, nil, Config{Workers: 2})

	items := make([]lead.WorkItem, 8)
	for i := range items {
		items[i] = workItem("")
	}
	if _, _, err := coord.Run(context.Background(), items); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if peak := atomic.LoadInt64(&fetcher.peak); peak > 2 {
		t.Errorf("peak concurrency %d exceeds worker bound 2", peak)
	}
}

func TestDebugSampler(t *testing.T) {
	dir := t.TempDir()
	fetcher := &stubFetcher{result: fetch.Result{Status: fetch.StatusSuccess, HTML: blockPage}}
	coord := NewCoordinator(fetcher, nil, nil, nil, Config{Workers: 1, DebugDir: dir, DebugSamples: 2})

	items := []lead.WorkItem{workItem(""), workItem(""), workItem("")}
	if _, _, err := coord.Run(context.Background(), items); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cannot read debug dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d samples, want 2 (limit)", len(entries))
	}

	name := entries[0].Name()
	if !strings.HasPrefix(name, "sample_01_") || !strings.HasSuffix(name, ".html") {
		t.Errorf("sample name = %q", name)
	}
	if !strings.Contains(name, "blocked") {
		t.Errorf("sample name %q should carry the blocked status", name)
	}

	body, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("cannot read sample: %v", err)
	}
	for _, marker := range []string{"<!-- URL:", "<!-- Address: 123 Main St", "<!-- Status: blocked", "<!-- Fields: 0"} {
		if !strings.Contains(string(body), marker) {
			t.Errorf("sample missing header %q", marker)
		}
	}
	if !strings.Contains(string(body), "Checking your browser") {
		t.Errorf("sample missing page body")
	}
}
