// Package pcm converts mixed float samples into the wire format handed to the
// playback backend.
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Format is the sample representation of the output stream. It is chosen once
// when the audio system starts.
type Format int

const (
	FormatS16 Format = iota
	FormatFloat32
)

func (f Format) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatFloat32:
		return "float32"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// SampleSize is the number of bytes per sample.
func (f Format) SampleSize() int {
	if f == FormatS16 {
		return 2
	}
	return 4
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "s16", "16", "int16":
		return FormatS16, nil
	case "float", "float32", "f32":
		return FormatFloat32, nil
	default:
		return 0, fmt.Errorf("invalid format %q (expected s16|float32)", name)
	}
}

// ToS16 scales v by 32768, rounds half to even and saturates. NaN is silence.
func ToS16(v float32) int16 {
	s := math.RoundToEven(float64(v) * 32768)
	switch {
	case math.IsNaN(s):
		return 0
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}

// Encode writes src to dst as little-endian samples in format f and returns
// the number of bytes written. dst must hold len(src)*f.SampleSize() bytes.
func Encode(dst []byte, src []float32, f Format) int {
	switch f {
	case FormatS16:
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(ToS16(v)))
		}
		return len(src) * 2
	default:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
		}
		return len(src) * 4
	}
}

// Silence zeroes n samples of dst starting at sample offset off.
func Silence(dst []byte, off, n int, f Format) {
	size := f.SampleSize()
	clear(dst[off*size : (off+n)*size])
}
