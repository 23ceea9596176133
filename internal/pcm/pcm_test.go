package pcm

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToS16(t *testing.T) {
	for _, tc := range []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{0.5, 16384},
		{-0.5, -16384},
		{1, math.MaxInt16},
		{-1, math.MinInt16},
		{2, math.MaxInt16},
		{-2, math.MinInt16},
		{float32(math.Inf(1)), math.MaxInt16},
		{float32(math.Inf(-1)), math.MinInt16},
		{1.5 / 32768, 2},
		{2.5 / 32768, 2},
		{float32(math.NaN()), 0},
	} {
		assert.Equal(t, tc.want, ToS16(tc.in), "ToS16(%v)", tc.in)
	}
}

func TestEncodeS16LittleEndian(t *testing.T) {
	dst := make([]byte, 6)
	n := Encode(dst, []float32{0.5, -2, 2}, FormatS16)
	require.Equal(t, 6, n)
	assert.Equal(t, int16(16384), int16(binary.LittleEndian.Uint16(dst[0:])))
	assert.Equal(t, int16(math.MinInt16), int16(binary.LittleEndian.Uint16(dst[2:])))
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(dst[4:])), "clips instead of wrapping")
}

func TestEncodeFloatPassThrough(t *testing.T) {
	dst := make([]byte, 8)
	n := Encode(dst, []float32{2, -0.25}, FormatFloat32)
	require.Equal(t, 8, n)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(dst[0:])))
	assert.Equal(t, float32(-0.25), math.Float32frombits(binary.LittleEndian.Uint32(dst[4:])))
}

func TestSilence(t *testing.T) {
	dst := []byte{1, 1, 1, 1, 1, 1, 1, 1}
	Silence(dst, 1, 2, FormatS16)
	assert.Equal(t, []byte{1, 1, 0, 0, 0, 0, 1, 1}, dst)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" S16 ")
	require.NoError(t, err)
	assert.Equal(t, FormatS16, f)
	assert.Equal(t, 2, f.SampleSize())

	f, err = ParseFormat("float")
	require.NoError(t, err)
	assert.Equal(t, FormatFloat32, f)
	assert.Equal(t, 4, f.SampleSize())
	assert.Equal(t, "float32", f.String())

	_, err = ParseFormat("u8")
	assert.Error(t, err)
}
