// internal/pipeline/stats.go

package pipeline

import (
	"fmt"
	"sync/atomic"
)

// RunStats counts item outcomes across a run. Counters are updated by
// concurrent workers, so reads during a run use the atomic accessors.
type RunStats struct {
	enriched int64
	failed   int64
	skipped  int64
	saved    int64
}

// Enriched counts items where at least one field was extracted.
func (s *RunStats) Enriched() int64 { return atomic.LoadInt64(&s.enriched) }

// Failed counts items where the fetch or extraction produced nothing.
func (s *RunStats) Failed() int64 { return atomic.LoadInt64(&s.failed) }

// Skipped counts items that never reached a fetch, such as those with no
// resolvable address. Every item lands in exactly one of enriched, failed,
// or skipped; saved is tracked independently.
func (s *RunStats) Skipped() int64 { return atomic.LoadInt64(&s.skipped) }

// Saved counts records upserted into the store.
func (s *RunStats) Saved() int64 { return atomic.LoadInt64(&s.saved) }

func (s *RunStats) addEnriched() { atomic.AddInt64(&s.enriched, 1) }
func (s *RunStats) addFailed()   { atomic.AddInt64(&s.failed, 1) }
func (s *RunStats) addSkipped()  { atomic.AddInt64(&s.skipped, 1) }
func (s *RunStats) addSaved()    { atomic.AddInt64(&s.saved, 1) }

// Snapshot freezes the counters into plain values for reporting.
func (s *RunStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Enriched: s.Enriched(),
		Failed:   s.Failed(),
		Skipped:  s.Skipped(),
		Saved:    s.Saved(),
	}
}

// StatsSnapshot is a point-in-time copy of run counters.
type StatsSnapshot struct {
	Enriched int64 `json:"enriched"`
	Failed   int64 `json:"failed"`
	Skipped  int64 `json:"skipped"`
	Saved    int64 `json:"saved"`
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("enriched=%d failed=%d skipped=%d saved=%d",
		s.Enriched, s.Failed, s.Skipped, s.Saved)
}
