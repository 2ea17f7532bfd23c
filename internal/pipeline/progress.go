package pipeline

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Progress is a snapshot of a running batch
type Progress struct {
	Done    int
	Failed  int
	Total   int
	Current string
}

func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

type ProgressFunc func(Progress)

const progressInterval = 100 * time.Millisecond

// progressTracker counts finished items and forwards throttled snapshots.
// The last item always gets through.
type progressTracker struct {
	mu       sync.Mutex
	state    Progress
	limiter  *rate.Limiter
	callback ProgressFunc
}

func newProgressTracker(total int, callback ProgressFunc) *progressTracker {
	return &progressTracker{
		state:    Progress{Total: total},
		limiter:  rate.NewLimiter(rate.Every(progressInterval), 1),
		callback: callback,
	}
}

func (t *progressTracker) advance(current string, failed bool) {
	if t.callback == nil {
		return
	}

	t.mu.Lock()
	t.state.Done++
	if failed {
		t.state.Failed++
	}
	t.state.Current = current
	snapshot := t.state
	last := snapshot.Done == snapshot.Total
	allowed := last || t.limiter.Allow()
	t.mu.Unlock()

	if allowed {
		t.callback(snapshot)
	}
}

// skip accounts for an item that was never started.
func (t *progressTracker) skip(current string) {
	t.advance(current, true)
}
