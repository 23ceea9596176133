package cellaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbegin/cellaudio-go/internal/handoff"
	"github.com/cbegin/cellaudio-go/internal/memory"
	"github.com/cbegin/cellaudio-go/internal/mix"
	"github.com/cbegin/cellaudio-go/internal/notify"
	"github.com/cbegin/cellaudio-go/internal/pcm"
	"github.com/cbegin/cellaudio-go/internal/port"
)

// cycleSamples is one cycle of interleaved stereo output.
const cycleSamples = 2 * mix.Frames

// mixLoop runs the cycle cadence until ctx ends or a capture write fails.
// ready is closed once the loop is running or has given up.
func (s *System) mixLoop(ctx context.Context, sess *session, ready chan struct{}) error {
	signal := sync.OnceFunc(func() { close(ready) })
	defer signal()
	defer s.finalize(sess)

	log := s.log
	format := s.cfg.format

	var queue *handoff.Queue
	if sink := s.cfg.playback; sink != nil {
		if err := sink.Open(format); err != nil {
			log.Error("playback sink open failed", "err", err, "format", format)
			return nil
		}
		queue = handoff.NewQueue(s.cfg.slotCycles * cycleSamples * format.SampleSize())
		feeder := handoff.NewFeeder(queue, sink, log)
		sess.group.Go(func() error {
			defer func() {
				if err := sink.Close(); err != nil {
					log.Warn("playback sink close", "err", err)
				}
			}()
			return feeder.Run()
		})
		defer queue.Close()
	}

	var capture CaptureSink
	if s.cfg.openCapture != nil {
		c, err := s.cfg.openCapture()
		if err == nil {
			err = c.WriteHeader()
		}
		if err != nil {
			log.Error("capture sink open failed", "err", err)
			return nil
		}
		capture = c
		defer func() {
			if err := capture.Finalize(); err != nil {
				log.Warn("capture finalize", "err", err)
			}
		}()
	}

	s.mu.Lock()
	sess.start = sess.sched.Start()
	sess.running = true
	s.mu.Unlock()
	signal()
	log.Info("audio mixing started", "format", format, "slot_cycles", s.cfg.slotCycles)

	c := &cycler{
		sys:    s,
		sess:   sess,
		format: format,
		queue:  queue,
	}
	for {
		if ctx.Err() != nil {
			log.Info("audio mixing stopped", "cycles", sess.sched.Counter())
			return nil
		}
		if !sess.sched.Due() {
			sess.sched.Sleep()
			continue
		}
		if s.cfg.paused != nil && s.cfg.paused() {
			continue
		}
		if err := c.cycle(ctx, sess.sched.Counter()); err != nil {
			return err
		}
		if capture != nil && c.acc.Active() {
			src := c.acc.Raw[:]
			if capture.Channels() == 2 {
				src = c.acc.Stereo[:]
			}
			if err := capture.WriteSamples(src); err != nil {
				log.Error("capture write failed", "err", err)
				return fmt.Errorf("cellaudio: capture: %w", err)
			}
		}
	}
}

// finalize closes every port and drops the notification keys.
func (s *System) finalize(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ports.Reset()
	if s.sess == sess {
		s.keys.Clear()
	}
	sess.running = false
	sess.finalized = true
}

// cycler holds the buffers reused from one cycle to the next.
type cycler struct {
	sys    *System
	sess   *session
	format pcm.Format
	queue  *handoff.Queue

	acc    mix.Accumulator
	active []port.Active
	keys   []uint64
	slot   *handoff.Slot
	offset int
}

func (c *cycler) cycle(ctx context.Context, counter uint64) error {
	s := c.sys
	mem := s.cfg.mem

	s.mu.Lock()
	c.active = c.sess.ports.Started(c.active[:0])
	s.mu.Unlock()

	c.acc.Reset()
	for _, a := range c.active {
		block, err := mem.Slice(a.BlockAddr(), a.BlockBytes())
		if err != nil {
			s.log.Warn("port block unreadable", "port", a.Index, "err", err)
			continue
		}
		c.acc.Mix(block, a.Channels, a.Level)
		clear(block)
	}

	if c.queue != nil {
		if err := c.fill(ctx); err != nil {
			// Only a cancelled ctx gets here; the loop exits on its next check.
			return nil
		}
	}

	// Only ports mixed this cycle move on; one started since the snapshot
	// keeps its tag until the next cycle reads its block.
	s.mu.Lock()
	for _, a := range c.active {
		idx, ok := c.sess.ports.Service(a, counter)
		if !ok {
			continue
		}
		b, err := mem.Slice(a.ReadIndexAddr, port.IndexStride)
		if err != nil {
			s.log.Warn("read index unwritable", "port", a.Index, "err", err)
			continue
		}
		memory.PutUint64BE(b, idx)
	}
	c.keys = s.keys.Snapshot(c.keys)
	s.mu.Unlock()

	notify.Deliver(c.keys, s.cfg.events)
	return nil
}

// fill appends this cycle's stereo mix (or silence) to the current slot and
// pushes the slot once it is full.
func (c *cycler) fill(ctx context.Context) error {
	if c.slot == nil {
		slot, err := c.queue.Acquire(ctx)
		if err != nil {
			return err
		}
		c.slot = slot
		c.offset = 0
	}
	if c.acc.Active() {
		pcm.Encode(c.slot.Data[c.offset*c.format.SampleSize():], c.acc.Stereo[:], c.format)
	} else {
		pcm.Silence(c.slot.Data, c.offset, cycleSamples, c.format)
	}
	c.offset += cycleSamples
	if c.offset*c.format.SampleSize() >= len(c.slot.Data) {
		c.queue.Push(c.slot)
		c.slot = nil
	}
	return nil
}
