package gantt

import (
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-task-gantt/internal/data/cache"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// RunStats counts reconstruction passes and how the result cache served them.
type RunStats struct {
	passes      int64
	cacheHits   int64
	cacheMisses int64
	failures    int64

	mu          sync.Mutex
	missReasons map[cache.CacheMissReason]int
}

// NewRunStats creates an empty RunStats.
func NewRunStats() *RunStats {
	return &RunStats{missReasons: make(map[cache.CacheMissReason]int)}
}

func (s *RunStats) IncrementPass() {
	atomic.AddInt64(&s.passes, 1)
}

func (s *RunStats) IncrementHit() {
	atomic.AddInt64(&s.cacheHits, 1)
}

// IncrementMiss counts a cache miss and remembers why it missed.
func (s *RunStats) IncrementMiss(reason cache.CacheMissReason) {
	atomic.AddInt64(&s.cacheMisses, 1)

	s.mu.Lock()
	s.missReasons[reason]++
	s.mu.Unlock()
}

func (s *RunStats) IncrementFailure() {
	atomic.AddInt64(&s.failures, 1)
}

// GetStats returns the counters and the cache hit rate in percent.
func (s *RunStats) GetStats() (passes, hits, misses, failures int64, hitRate float64) {
	passes = atomic.LoadInt64(&s.passes)
	hits = atomic.LoadInt64(&s.cacheHits)
	misses = atomic.LoadInt64(&s.cacheMisses)
	failures = atomic.LoadInt64(&s.failures)

	if lookups := hits + misses; lookups > 0 {
		hitRate = float64(hits) / float64(lookups) * 100
	}
	return
}

// MissReasons returns a copy of the miss counts per reason.
func (s *RunStats) MissReasons() map[cache.CacheMissReason]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[cache.CacheMissReason]int, len(s.missReasons))
	for r, n := range s.missReasons {
		out[r] = n
	}
	return out
}

// LogFinalStats logs the counters and a summary of cache miss reasons.
func (s *RunStats) LogFinalStats() {
	passes, hits, misses, failures, hitRate := s.GetStats()

	util.LogInfof("Run statistics: %d passes, %d failures, cache hit rate %.1f%% (%d hits/%d misses)",
		passes, failures, hitRate, hits, misses)

	for reason, count := range s.MissReasons() {
		util.LogDebugf("  cache miss %s: %d", reason, count)
	}
}
