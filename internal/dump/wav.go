// Package dump captures the raw mix accumulator to a float32 WAV file.
package dump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/afero"
)

const (
	SampleRate = 48000
	HeaderSize = 44
)

var ErrChannels = errors.New("dump: channels must be 2 or 8")

// WAV writes an IEEE float WAV stream. Sizes in the header are placeholders
// until Finalize.
type WAV struct {
	channels int
	f        afero.File
	data     int64
	buf      []byte
}

// Open creates (or truncates) path on fs.
func Open(fs afero.Fs, path string, channels int) (*WAV, error) {
	if channels != 2 && channels != 8 {
		return nil, ErrChannels
	}
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("dump: create %s: %w", path, err)
	}
	return &WAV{channels: channels, f: f}, nil
}

func (w *WAV) Channels() int { return w.channels }

func (w *WAV) WriteHeader() error {
	_, err := w.f.Write(encodeHeader(0, w.channels))
	if err != nil {
		return fmt.Errorf("dump: write header: %w", err)
	}
	return nil
}

func (w *WAV) WriteData(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.data += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// WriteSamples encodes src as little-endian float32 and writes it.
func (w *WAV) WriteSamples(src []float32) error {
	need := len(src) * 4
	if cap(w.buf) < need {
		w.buf = make([]byte, need)
	}
	w.buf = w.buf[:need]
	for i, s := range src {
		binary.LittleEndian.PutUint32(w.buf[i*4:], math.Float32bits(s))
	}
	_, err := w.WriteData(w.buf)
	return err
}

// Finalize patches the RIFF and data chunk sizes and closes the file.
func (w *WAV) Finalize() error {
	if w.f == nil {
		return nil
	}
	f := w.f
	w.f = nil
	var sizes [4]byte
	binary.LittleEndian.PutUint32(sizes[:], uint32(36+w.data))
	if _, err := f.WriteAt(sizes[:], 4); err != nil {
		_ = f.Close()
		return fmt.Errorf("dump: patch riff size: %w", err)
	}
	binary.LittleEndian.PutUint32(sizes[:], uint32(w.data))
	if _, err := f.WriteAt(sizes[:], 40); err != nil {
		_ = f.Close()
		return fmt.Errorf("dump: patch data size: %w", err)
	}
	return f.Close()
}

func encodeHeader(dataSize, channels int) []byte {
	byteRate := SampleRate * channels * 4
	blockAlign := channels * 4
	out := make([]byte, HeaderSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], SampleRate)
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	return out
}
