package grid

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Jitter is the window a scheduler draws its refresh interval from:
// [Base, Base+Spread).
type Jitter struct {
	Base   time.Duration
	Spread time.Duration
}

// DefaultJitter spreads tile reloads over [3800ms, 4300ms) so tiles sharing
// a source do not all hit it in the same instant.
var DefaultJitter = Jitter{Base: 3800 * time.Millisecond, Spread: 500 * time.Millisecond}

// Draw picks an interval from the window. A nil r uses the global source.
func (j Jitter) Draw(r *rand.Rand) time.Duration {
	if j.Spread <= 0 {
		return j.Base
	}
	if r == nil {
		return j.Base + rand.N(j.Spread)
	}
	return j.Base + time.Duration(r.Int64N(int64(j.Spread)))
}

// CancelFunc stops a running scheduler. It is safe to call more than once.
type CancelFunc func()

// Scheduler fires a callback on a fixed interval chosen once at creation.
type Scheduler struct {
	interval time.Duration

	mu      sync.Mutex
	started bool
}

// NewScheduler creates a scheduler with an interval drawn from j.
func NewScheduler(j Jitter, r *rand.Rand) *Scheduler {
	return &Scheduler{interval: j.Draw(r)}
}

// Interval returns the refresh interval. It never changes.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start begins firing onTick every Interval. Calls to onTick are
// sequential; a tick that comes due while onTick is still running is
// dropped. The returned CancelFunc blocks until the running callback, if
// any, has returned, and must not be called from inside onTick.
//
// Start panics if called twice.
func (s *Scheduler) Start(onTick func()) CancelFunc {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		panic("grid: scheduler started twice")
	}
	s.started = true
	s.mu.Unlock()

	stop := make(chan struct{})
	done := make(chan struct{})
	ticker := time.NewTicker(s.interval)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// stop and a tick may be ready together.
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
		<-done
	}
}
