// internal/pipeline/coordinator.go

// Package pipeline coordinates the enrichment run: it fans work items out
// to a bounded worker pool, drives fetch and extraction per item, merges
// results into lead records, and persists them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dacionxo/leadharvest/internal/extract"
	"github.com/dacionxo/leadharvest/internal/fetch"
	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/queue"
	"github.com/dacionxo/leadharvest/internal/store"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// DefaultWorkers bounds concurrent enrichments when no worker count is
// configured.
const DefaultWorkers = 8

// Run modes: enrichment fetches a people-search page per item, listing
// scrapes each item's own listing page.
const (
	ModeEnrich  = "enrich"
	ModeListing = "listing"
)

// Fetcher retrieves one document. Both the HTTP client and the browser
// client satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) fetch.Result
}

// Config tunes a coordinator.
type Config struct {
	Mode         string
	Workers      int
	SearchBase   string
	DebugDir     string
	DebugSamples int
	Recorder     Recorder
}

// Recorder receives per-item observations. The monitoring metrics satisfy
// it; a nil recorder disables reporting.
type Recorder interface {
	RecordFetch(status string, elapsed time.Duration)
	RecordOutcome(outcome string)
	RecordSave()
	ItemStarted()
	ItemFinished()
}

// Coordinator runs work items through fetch, extraction, merge, and
// storage. One failing item never stops the run.
type Coordinator struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	store     store.Store
	logger    utils.Logger
	cfg       Config
	sampler   *debugSampler

	mu      sync.Mutex
	records []lead.LeadRecord
}

// NewCoordinator wires a coordinator. The store may be nil when records
// only need to be exported.
func NewCoordinator(fetcher Fetcher, extractor *extract.Extractor, st store.Store, logger utils.Logger, cfg Config) *Coordinator {
	if logger == nil {
		logger = utils.NewLogger()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeEnrich
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if extractor == nil {
		extractor = extract.NewExtractor(logger, nil)
	}
	return &Coordinator{
		fetcher:   fetcher,
		extractor: extractor,
		store:     st,
		logger:    logger,
		cfg:       cfg,
		sampler:   newDebugSampler(cfg.DebugDir, cfg.DebugSamples),
	}
}

// Run enriches every item and returns the run counters plus the enriched
// records in no particular order.
func (c *Coordinator) Run(ctx context.Context, items []lead.WorkItem) (StatsSnapshot, []lead.LeadRecord, error) {
	stats := &RunStats{}
	start := time.Now()

	sem := make(chan struct{}, c.cfg.Workers)
	var wg sync.WaitGroup
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(item lead.WorkItem) {
			defer wg.Done()
			defer func() { <-sem }()
			c.processItem(ctx, item, stats)
		}(item)
	}
	wg.Wait()

	snap := stats.Snapshot()
	c.logger.WithFields(map[string]interface{}{
		"enriched": snap.Enriched,
		"failed":   snap.Failed,
		"skipped":  snap.Skipped,
		"saved":    snap.Saved,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("enrichment run finished")

	c.mu.Lock()
	records := c.records
	c.records = nil
	c.mu.Unlock()

	return snap, records, ctx.Err()
}

// RunQueue drains a Redis job queue until it stays empty for popTimeout,
// enriching each popped item with the same per-item flow as Run.
func (c *Coordinator) RunQueue(ctx context.Context, q *queue.RedisQueue, popTimeout time.Duration) (StatsSnapshot, []lead.LeadRecord, error) {
	if popTimeout <= 0 {
		popTimeout = 10 * time.Second
	}

	stats := &RunStats{}
	sem := make(chan struct{}, c.cfg.Workers)
	var wg sync.WaitGroup

	for {
		if err := ctx.Err(); err != nil {
			break
		}
		item, err := q.Pop(ctx, popTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				break
			}
			wg.Wait()
			return stats.Snapshot(), c.takeRecords(), fmt.Errorf("queue pop failed: %w", err)
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(item lead.WorkItem) {
			defer wg.Done()
			defer func() { <-sem }()
			c.processItem(ctx, item, stats)
		}(item)
	}
	wg.Wait()

	snap := stats.Snapshot()
	c.logger.Infof("queue drained: %s", snap)
	return snap, c.takeRecords(), ctx.Err()
}

// processItem runs one work item end to end. Failures are counted, logged,
// and contained; they never propagate to other items.
func (c *Coordinator) processItem(ctx context.Context, item lead.WorkItem, stats *RunStats) {
	if c.cfg.Recorder != nil {
		c.cfg.Recorder.ItemStarted()
		defer c.cfg.Recorder.ItemFinished()
	}
	defer func() {
		if r := recover(); r != nil {
			stats.addFailed()
			c.recordOutcome("failed")
			c.logger.Errorf("worker panic on %q: %v", item.Get("address"), r)
		}
	}()

	if c.cfg.Mode == ModeListing {
		c.processListing(ctx, item, stats)
		return
	}
	c.processEnrichment(ctx, item, stats)
}

// processEnrichment looks the item's address up on the people-search site
// and folds resident and property fields into the record.
func (c *Coordinator) processEnrichment(ctx context.Context, item lead.WorkItem, stats *RunStats) {
	addr := item.ResolveAddress()
	if !addr.Resolved() {
		stats.addSkipped()
		c.recordOutcome("skipped")
		c.logger.WithField("address", item.Get("address")).Debug("skipping item with unresolvable address")
		return
	}

	searchURL, err := fetch.BuildSearchURL(c.cfg.SearchBase, addr.Street, addr.City, addr.State, addr.Zip)
	if err != nil {
		stats.addSkipped()
		c.recordOutcome("skipped")
		c.logger.Warnf("cannot build search URL for %q: %v", addr.Street, err)
		return
	}

	fetchStart := time.Now()
	res := c.fetcher.Fetch(ctx, searchURL)
	if c.cfg.Recorder != nil {
		c.cfg.Recorder.RecordFetch(res.Status.String(), time.Since(fetchStart))
	}
	if res.Status != fetch.StatusSuccess {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.WithFields(map[string]interface{}{
			"address": addr.Street,
			"status":  res.Status.String(),
			"code":    res.Code,
		}).Warn("fetch failed")
		if err := c.sampler.Save(searchURL, addr.Street, res.Status.String(), res.HTML, 0); err != nil {
			c.logger.Debugf("debug sample not written: %v", err)
		}
		return
	}

	doc, err := extract.ParseDocument(res.HTML)
	if err != nil {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.Warnf("unparseable document for %q: %v", addr.Street, err)
		return
	}

	result := c.extractor.ExtractEnrichment(doc, addr.Street)
	status := "success"
	switch {
	case result.Blocked:
		status = "blocked"
	case result.NoResults:
		status = "no_results"
	}
	if err := c.sampler.Save(searchURL, addr.Street, status, res.HTML, len(result.Fields)); err != nil {
		c.logger.Debugf("debug sample not written: %v", err)
	}

	if result.Empty() {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.WithFields(map[string]interface{}{
			"address":    addr.Street,
			"blocked":    result.Blocked,
			"no_results": result.NoResults,
		}).Info("no fields extracted")
		return
	}

	record := lead.Merge(item, result.Fields)
	stats.addEnriched()
	c.recordOutcome("enriched")

	c.mu.Lock()
	c.records = append(c.records, record)
	c.mu.Unlock()

	// The item already counted enriched; not persisting only shows up as
	// saved staying flat.
	if record.PropertyURL() == "" {
		c.logger.WithField("address", addr.Street).Debug("record has no property_url, not persisted")
		return
	}
	if c.store == nil {
		return
	}
	saved, err := c.store.Upsert(ctx, record)
	if err != nil {
		c.logger.Errorf("upsert failed for %s: %v", record.PropertyURL(), err)
		return
	}
	if saved {
		stats.addSaved()
		if c.cfg.Recorder != nil {
			c.cfg.Recorder.RecordSave()
		}
	}
}

// processListing fetches the item's own listing page and extracts the
// listing fields from it.
func (c *Coordinator) processListing(ctx context.Context, item lead.WorkItem, stats *RunStats) {
	listingURL := item.PropertyURL()
	if listingURL == "" {
		stats.addSkipped()
		c.recordOutcome("skipped")
		c.logger.WithField("address", item.Get("address")).Debug("skipping item with no listing url")
		return
	}

	fetchStart := time.Now()
	res := c.fetcher.Fetch(ctx, listingURL)
	if c.cfg.Recorder != nil {
		c.cfg.Recorder.RecordFetch(res.Status.String(), time.Since(fetchStart))
	}
	if res.Status != fetch.StatusSuccess {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.WithFields(map[string]interface{}{
			"url":    listingURL,
			"status": res.Status.String(),
			"code":   res.Code,
		}).Warn("listing fetch failed")
		if err := c.sampler.Save(listingURL, item.Get("address"), res.Status.String(), res.HTML, 0); err != nil {
			c.logger.Debugf("debug sample not written: %v", err)
		}
		return
	}

	doc, err := extract.ParseDocument(res.HTML)
	if err != nil {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.Warnf("unparseable listing document for %s: %v", listingURL, err)
		return
	}

	result := c.extractor.ExtractListing(doc)
	status := "success"
	switch {
	case result.Blocked:
		status = "blocked"
	case result.NoResults:
		status = "no_results"
	}
	if err := c.sampler.Save(listingURL, item.Get("address"), status, res.HTML, len(result.Fields)); err != nil {
		c.logger.Debugf("debug sample not written: %v", err)
	}

	if result.Empty() {
		stats.addFailed()
		c.recordOutcome("failed")
		c.logger.WithFields(map[string]interface{}{
			"url":     listingURL,
			"blocked": result.Blocked,
		}).Info("no listing fields extracted")
		return
	}

	record := lead.Merge(item, result.Fields)
	stats.addEnriched()
	c.recordOutcome("enriched")

	c.mu.Lock()
	c.records = append(c.records, record)
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	saved, err := c.store.Upsert(ctx, record)
	if err != nil {
		c.logger.Errorf("upsert failed for %s: %v", record.PropertyURL(), err)
		return
	}
	if saved {
		stats.addSaved()
		if c.cfg.Recorder != nil {
			c.cfg.Recorder.RecordSave()
		}
	}
}

func (c *Coordinator) recordOutcome(outcome string) {
	if c.cfg.Recorder != nil {
		c.cfg.Recorder.RecordOutcome(outcome)
	}
}

func (c *Coordinator) takeRecords() []lead.LeadRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	records := c.records
	c.records = nil
	return records
}
