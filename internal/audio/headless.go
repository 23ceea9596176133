//go:build headless

package audio

import "github.com/cbegin/cellaudio-go/internal/pcm"

// EbitenSink is unavailable in headless builds.
type EbitenSink struct{}

func NewEbitenSink() *EbitenSink { return &EbitenSink{} }

func (s *EbitenSink) Open(pcm.Format) error { return ErrBackendUnavailable }
func (s *EbitenSink) AddData([]byte) error  { return ErrNotOpen }
func (s *EbitenSink) Close() error          { return nil }

// OtoSink is unavailable in headless builds.
type OtoSink struct{}

func NewOtoSink() *OtoSink { return &OtoSink{} }

func (s *OtoSink) Open(pcm.Format) error { return ErrBackendUnavailable }
func (s *OtoSink) AddData([]byte) error  { return ErrNotOpen }
func (s *OtoSink) Close() error          { return nil }
