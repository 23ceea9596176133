//go:build !headless

package audio

import (
	"fmt"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cbegin/cellaudio-go/internal/pcm"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
)

// sharedAudioContext returns the process-wide ebiten audio context. Ebiten
// allows only one per process.
func sharedAudioContext() *ebitaudio.Context {
	audioContextOnce.Do(func() {
		audioContext = ebitaudio.CurrentContext()
		if audioContext == nil {
			audioContext = ebitaudio.NewContext(SampleRate)
		}
	})
	return audioContext
}

// EbitenSink plays the stream through ebiten's audio package.
type EbitenSink struct {
	ringSink
	player *ebitaudio.Player
}

func NewEbitenSink() *EbitenSink {
	return &EbitenSink{}
}

func (s *EbitenSink) Open(format pcm.Format) error {
	ctx := sharedAudioContext()
	if ctx.SampleRate() != SampleRate {
		return fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", ctx.SampleRate(), SampleRate)
	}
	ring := s.openRing(format)
	var (
		pl  *ebitaudio.Player
		err error
	)
	switch format {
	case pcm.FormatS16:
		pl, err = ctx.NewPlayer(ring)
	case pcm.FormatFloat32:
		pl, err = ctx.NewPlayerF32(ring)
	default:
		err = fmt.Errorf("unsupported format %v", format)
	}
	if err != nil {
		s.closeRing()
		return fmt.Errorf("ebiten player: %w", err)
	}
	s.player = pl
	s.player.Play()
	return nil
}

func (s *EbitenSink) Close() error {
	s.closeRing()
	if s.player == nil {
		return nil
	}
	s.player.Pause()
	err := s.player.Close()
	s.player = nil
	return err
}
