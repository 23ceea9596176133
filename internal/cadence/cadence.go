// Package cadence decides when the next mix cycle is due.
//
// One cycle covers BlockFrames samples at SampleRate. Time is measured in
// microseconds; the cycle count is multiplied out in integer arithmetic so
// the fractional 5.33ms period does not drift.
package cadence

import (
	"sync/atomic"
	"time"
)

const (
	SampleRate  = 48000
	BlockFrames = 256

	// DefaultPoll is the sleep granularity while waiting for the next cycle.
	DefaultPoll = time.Millisecond
)

// CycleTicks is the start offset of cycle n in microseconds.
func CycleTicks(n uint64) uint64 {
	return n * BlockFrames * 1000000 / SampleRate
}

// Clock reports a monotonic time in microseconds.
type Clock interface {
	Now() uint64
}

type systemClock struct {
	epoch time.Time
}

// SystemClock returns a Clock backed by the monotonic wall clock.
func SystemClock() Clock {
	return systemClock{epoch: time.Now()}
}

func (c systemClock) Now() uint64 {
	return uint64(time.Since(c.epoch) / time.Microsecond)
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now atomic.Uint64
}

func (c *ManualClock) Now() uint64 { return c.now.Load() }

// Set moves the clock to t microseconds.
func (c *ManualClock) Set(t uint64) { c.now.Store(t) }

// Advance moves the clock forward by d microseconds.
func (c *ManualClock) Advance(d uint64) { c.now.Add(d) }

// Scheduler tracks the cycle counter against elapsed time.
type Scheduler struct {
	clock   Clock
	poll    time.Duration
	start   uint64
	counter atomic.Uint64
}

func NewScheduler(clock Clock, poll time.Duration) *Scheduler {
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &Scheduler{clock: clock, poll: poll}
}

// Start records the start timestamp and returns it.
func (s *Scheduler) Start() uint64 {
	s.start = s.clock.Now()
	s.counter.Store(0)
	return s.start
}

// Counter is the number of cycles fired so far.
func (s *Scheduler) Counter() uint64 { return s.counter.Load() }

// Due reports whether a cycle should run now and, if so, counts it.
func (s *Scheduler) Due() bool {
	elapsed := s.clock.Now() - s.start
	n := s.counter.Load()
	if CycleTicks(n) >= elapsed {
		return false
	}
	s.counter.Store(n + 1)
	return true
}

// Sleep waits one poll interval.
func (s *Scheduler) Sleep() {
	time.Sleep(s.poll)
}
