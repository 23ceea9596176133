// Package handoff passes filled output slots from the mixing goroutine to the
// feeder goroutine that drives the playback sink.
//
// Slots circulate through two channels: the free list, from which the mixer
// takes a slot to fill, and the pushed queue, which the feeder drains. Closing
// the queue is the stop sentinel.
package handoff

import (
	"context"
	"log/slog"
)

// SlotCount is the number of pre-allocated output slots.
const SlotCount = 32

// Slot is one output buffer.
type Slot struct {
	Data []byte
}

// Queue is a bounded single-producer, single-consumer slot ring.
type Queue struct {
	free   chan *Slot
	filled chan *Slot
}

// NewQueue allocates SlotCount slots of size bytes each.
func NewQueue(size int) *Queue {
	q := &Queue{
		free:   make(chan *Slot, SlotCount),
		filled: make(chan *Slot, SlotCount),
	}
	for i := 0; i < SlotCount; i++ {
		q.free <- &Slot{Data: make([]byte, size)}
	}
	return q
}

// Acquire takes a free slot, blocking while every slot is queued or being
// played. It fails only when ctx is done.
func (q *Queue) Acquire(ctx context.Context) (*Slot, error) {
	select {
	case s := <-q.free:
		return s, nil
	default:
	}
	select {
	case s := <-q.free:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Push hands a filled slot to the consumer. The queue never holds more than
// SlotCount slots, so Push does not block.
func (q *Queue) Push(s *Slot) {
	q.filled <- s
}

// Release returns a consumed slot to the free list.
func (q *Queue) Release(s *Slot) {
	select {
	case q.free <- s:
	default:
	}
}

// Close pushes the stop sentinel. Only the producer may call it, once.
func (q *Queue) Close() {
	close(q.filled)
}

// Pending is the number of pushed slots not yet taken by the consumer.
func (q *Queue) Pending() int {
	return len(q.filled)
}

// Sink receives slot bytes. It is the subset of a playback backend the feeder
// needs.
type Sink interface {
	AddData(p []byte) error
}

// Feeder forwards pushed slots to a Sink.
type Feeder struct {
	queue  *Queue
	sink   Sink
	logger *slog.Logger
}

func NewFeeder(q *Queue, sink Sink, logger *slog.Logger) *Feeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feeder{queue: q, sink: sink, logger: logger}
}

// Run drains the queue until the stop sentinel. Sink errors are logged and the
// slot is still released so the mixer never starves.
func (f *Feeder) Run() error {
	for s := range f.queue.filled {
		if err := f.sink.AddData(s.Data); err != nil {
			f.logger.Warn("playback sink rejected slot", "err", err, "bytes", len(s.Data))
		}
		f.queue.Release(s)
	}
	f.logger.Debug("feeder finished")
	return nil
}
