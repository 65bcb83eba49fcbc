// internal/pipeline/sampler.go

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// defaultSampleLimit caps how many fetched pages a run saves for debugging.
const defaultSampleLimit = 5

// debugSampler writes the first few fetched documents to disk so failed or
// blocked runs can be inspected afterwards. Files are named
// sample_NN_STATUS.html and carry a comment header describing the fetch.
type debugSampler struct {
	dir   string
	limit int

	mu    sync.Mutex
	count int
}

func newDebugSampler(dir string, limit int) *debugSampler {
	if limit <= 0 {
		limit = defaultSampleLimit
	}
	return &debugSampler{dir: dir, limit: limit}
}

// Save writes one sample if the limit has not been reached. A nil sampler
// or empty directory disables sampling.
func (s *debugSampler) Save(url, addr, status, html string, fields int) error {
	if s == nil || s.dir == "" {
		return nil
	}

	s.mu.Lock()
	if s.count >= s.limit {
		s.mu.Unlock()
		return nil
	}
	s.count++
	seq := s.count
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create debug directory: %w", err)
	}

	name := fmt.Sprintf("sample_%02d_%s.html", seq, status)
	header := fmt.Sprintf("<!-- URL: %s -->\n<!-- Address: %s -->\n<!-- Status: %s -->\n<!-- Fields: %d -->\n",
		url, addr, status, fields)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(header+html), 0o644); err != nil {
		return fmt.Errorf("failed to write sample %s: %w", name, err)
	}
	return nil
}
