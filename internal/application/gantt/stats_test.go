package gantt

import (
	"testing"

	"github.com/penwyp/go-task-gantt/internal/data/cache"
	"github.com/stretchr/testify/assert"
)

func TestRunStats(t *testing.T) {
	stats := NewRunStats()

	passes, hits, misses, failures, hitRate := stats.GetStats()
	assert.Zero(t, passes+hits+misses+failures)
	assert.Zero(t, hitRate)

	stats.IncrementPass()
	stats.IncrementPass()
	stats.IncrementFailure()
	stats.IncrementHit()
	stats.IncrementMiss(cache.MissReasonModTime)
	stats.IncrementMiss(cache.MissReasonModTime)
	stats.IncrementMiss(cache.MissReasonFingerprint)

	passes, hits, misses, failures, hitRate = stats.GetStats()
	assert.Equal(t, int64(2), passes)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
	assert.Equal(t, int64(1), failures)
	assert.Equal(t, 25.0, hitRate)

	reasons := stats.MissReasons()
	assert.Equal(t, 2, reasons[cache.MissReasonModTime])
	assert.Equal(t, 1, reasons[cache.MissReasonFingerprint])

	reasons[cache.MissReasonModTime] = 10
	assert.Equal(t, 2, stats.MissReasons()[cache.MissReasonModTime], "MissReasons returns a copy")

	stats.LogFinalStats()
}
