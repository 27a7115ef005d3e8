package grid

import (
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitter_DrawWithinWindow(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	lo := 3800 * time.Millisecond
	hi := 4300 * time.Millisecond
	for i := 0; i < 5000; i++ {
		d := DefaultJitter.Draw(r)
		require.GreaterOrEqual(t, d, lo)
		require.Less(t, d, hi)
	}
	for i := 0; i < 500; i++ {
		d := DefaultJitter.Draw(nil)
		require.GreaterOrEqual(t, d, lo)
		require.Less(t, d, hi)
	}
}

func TestJitter_NoSpread(t *testing.T) {
	j := Jitter{Base: time.Second}
	require.Equal(t, time.Second, j.Draw(nil))
}

func TestScheduler_IntervalFixed(t *testing.T) {
	s := NewScheduler(DefaultJitter, nil)
	first := s.Interval()
	require.GreaterOrEqual(t, first, 3800*time.Millisecond)
	require.Less(t, first, 4300*time.Millisecond)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, s.Interval())
	}
}

func TestScheduler_FiresUntilCancelled(t *testing.T) {
	s := NewScheduler(Jitter{Base: 5 * time.Millisecond}, nil)
	var ticks atomic.Int64
	cancel := s.Start(func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	n := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, n, ticks.Load())

	// Idempotent.
	cancel()
	cancel()
}

func TestScheduler_CancelWaitsForCallback(t *testing.T) {
	s := NewScheduler(Jitter{Base: time.Millisecond}, nil)
	entered := make(chan struct{})
	var finished atomic.Bool
	var once atomic.Bool
	cancel := s.Start(func() {
		if once.CompareAndSwap(false, true) {
			close(entered)
			time.Sleep(30 * time.Millisecond)
			finished.Store(true)
		}
	})

	<-entered
	cancel()
	require.True(t, finished.Load())
}

func TestScheduler_CallbacksNeverOverlap(t *testing.T) {
	s := NewScheduler(Jitter{Base: time.Millisecond}, nil)
	var running, maxRunning, ticks atomic.Int64
	cancel := s.Start(func() {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(3 * time.Millisecond)
		running.Add(-1)
		ticks.Add(1)
	})

	require.Eventually(t, func() bool { return ticks.Load() >= 5 }, time.Second, time.Millisecond)
	cancel()
	require.Equal(t, int64(1), maxRunning.Load())
}

func TestScheduler_StartTwicePanics(t *testing.T) {
	s := NewScheduler(Jitter{Base: time.Hour}, nil)
	cancel := s.Start(func() {})
	defer cancel()
	require.Panics(t, func() { s.Start(func() {}) })
}
