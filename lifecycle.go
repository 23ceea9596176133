package cellaudio

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/cellaudio-go/internal/cadence"
	"github.com/cbegin/cellaudio-go/internal/port"
)

const (
	regionAlign = 1024
	indexAlign  = 16
)

// Init allocates the port regions and starts the mixing goroutine. It returns
// once the goroutine is mixing or has given up; a playback or capture sink
// that fails to open is logged and leaves the system finalized until Quit.
// Cancelling ctx stops the mixing goroutine the same way Quit does.
func (s *System) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized || s.quitting {
		s.mu.Unlock()
		return ErrAlreadyInit
	}

	mem := s.cfg.mem
	bufAddr, err := mem.Alloc(port.Count*port.RegionStride, regionAlign)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cellaudio: allocate port regions: %w", err)
	}
	indexAddr, err := mem.Alloc(port.Count*port.IndexStride, indexAlign)
	if err != nil {
		_ = mem.Free(bufAddr)
		s.mu.Unlock()
		return fmt.Errorf("cellaudio: allocate read indexes: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	sess := &session{
		ports:     port.NewTable(bufAddr, indexAddr),
		sched:     cadence.NewScheduler(s.cfg.clock, s.cfg.poll),
		bufAddr:   bufAddr,
		indexAddr: indexAddr,
		cancel:    cancel,
		group:     g,
		done:      make(chan struct{}),
	}
	s.sess = sess
	s.initialized = true
	s.mu.Unlock()

	ready := make(chan struct{})
	g.Go(func() error {
		defer close(sess.done)
		return s.mixLoop(gctx, sess, ready)
	})
	<-ready
	return nil
}

// Quit stops the mixing goroutine, waits for it and the feeder to finish and
// releases the port regions. Init is rejected with ErrAlreadyInit until Quit
// returns.
func (s *System) Quit() error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInit
	}
	s.initialized = false
	s.quitting = true
	sess := s.sess
	s.mu.Unlock()

	sess.cancel()
	if err := sess.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("mixing stopped with error", "err", err)
	}

	if err := s.cfg.mem.Free(sess.bufAddr); err != nil {
		s.log.Warn("free port regions", "err", err)
	}
	if err := s.cfg.mem.Free(sess.indexAddr); err != nil {
		s.log.Warn("free read indexes", "err", err)
	}

	s.mu.Lock()
	s.sess = nil
	s.quitting = false
	s.mu.Unlock()
	return nil
}

// Running reports whether the mixing goroutine is in its cycle loop.
func (s *System) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess != nil && s.sess.running && !s.sess.finalized
}

// Done is closed when the current mixing goroutine has finalized. It is nil
// before the first Init.
func (s *System) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}
	return s.sess.done
}

// live returns the current session or ErrNotInit. The caller holds s.mu.
func (s *System) live() (*session, error) {
	if !s.initialized || s.sess == nil {
		return nil, ErrNotInit
	}
	return s.sess, nil
}
