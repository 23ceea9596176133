//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cbegin/cellaudio-go/internal/pcm"
)

// oto context singleton; the format is fixed by the first Open.
var (
	otoCtx      *oto.Context
	otoFormat   pcm.Format
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext(format pcm.Format) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		if format == pcm.FormatFloat32 {
			op.Format = oto.FormatFloat32LE
		}
		otoFormat = format
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoFormat != format {
		return nil, fmt.Errorf("oto context already initialized for %v (requested %v)", otoFormat, format)
	}
	return otoCtx, nil
}

// OtoSink plays the stream through oto directly.
type OtoSink struct {
	ringSink
	player *oto.Player
}

func NewOtoSink() *OtoSink {
	return &OtoSink{}
}

func (s *OtoSink) Open(format pcm.Format) error {
	ctx, err := ensureOtoContext(format)
	if err != nil {
		return fmt.Errorf("oto audio not available: %w", err)
	}
	s.player = ctx.NewPlayer(s.openRing(format))
	// One slot is 1-2KiB; keep the device side short so latency tracks the cadence.
	s.player.SetBufferSize(SampleRate * Channels * format.SampleSize() / 20)
	s.player.Play()
	return nil
}

func (s *OtoSink) Close() error {
	s.closeRing()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
