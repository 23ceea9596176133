// Package audio provides the playback backends that consume the mixed stream.
package audio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cbegin/cellaudio-go/internal/pcm"
)

const (
	SampleRate = 48000
	Channels   = 2

	// ringCapacity is ~170ms of float32 stereo at 48kHz.
	ringCapacity = 65536
)

var (
	ErrBackendUnavailable = errors.New("audio: backend not available in this build")
	ErrNotOpen            = errors.New("audio: sink not open")
)

// Sink is a playback backend. Open is called once from the mixing goroutine
// before the first AddData; AddData is called from the feeder goroutine.
type Sink interface {
	Open(format pcm.Format) error
	AddData(p []byte) error
	Close() error
}

// Open returns the backend registered under name: ebiten, oto or none.
func Open(name string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ebiten", "":
		return NewEbitenSink(), nil
	case "oto":
		return NewOtoSink(), nil
	case "none", "discard":
		return &Discard{}, nil
	default:
		return nil, fmt.Errorf("invalid backend %q (expected ebiten|oto|none)", name)
	}
}

// Discard accepts and drops every slot.
type Discard struct {
	format atomic.Int32
	bytes  atomic.Int64
}

func (d *Discard) Open(format pcm.Format) error {
	d.format.Store(int32(format))
	return nil
}

func (d *Discard) AddData(p []byte) error {
	d.bytes.Add(int64(len(p)))
	return nil
}

func (d *Discard) Close() error { return nil }

// Bytes is the total number of bytes accepted.
func (d *Discard) Bytes() int64 { return d.bytes.Load() }

// Format is the format passed to Open.
func (d *Discard) Format() pcm.Format { return pcm.Format(d.format.Load()) }

// ringSink is the shared half of the pull-model backends: AddData fills a
// Ring that the backend's player reads.
type ringSink struct {
	mu   sync.Mutex
	ring *Ring
}

func (s *ringSink) openRing(format pcm.Format) *Ring {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = NewRing(ringCapacity, Channels*format.SampleSize())
	return s.ring
}

func (s *ringSink) AddData(p []byte) error {
	s.mu.Lock()
	r := s.ring
	s.mu.Unlock()
	if r == nil {
		return ErrNotOpen
	}
	_, err := r.Write(p)
	return err
}

func (s *ringSink) closeRing() {
	s.mu.Lock()
	r := s.ring
	s.ring = nil
	s.mu.Unlock()
	if r != nil {
		_ = r.Close()
	}
}
