package mix

import (
	"testing"

	"github.com/cbegin/cellaudio-go/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// block builds a big-endian block where frame f, channel c holds gen(f, c).
func block(channels int, gen func(f, c int) float32) []byte {
	b := make([]byte, channels*Frames*4)
	for f := 0; f < Frames; f++ {
		for c := 0; c < channels; c++ {
			memory.PutFloat32BE(b, f*channels+c, gen(f, c))
		}
	}
	return b
}

func TestStereoPassThrough(t *testing.T) {
	var a Accumulator
	a.Reset()
	b := block(2, func(f, c int) float32 {
		if c == 0 {
			return float32(f) / Frames
		}
		return -float32(f) / Frames
	})
	require.True(t, a.Mix(b, 2, 0.5))
	assert.True(t, a.Active())

	for f := 0; f < Frames; f++ {
		want := float32(f) / Frames * 0.5
		assert.Equal(t, want, a.Stereo[f*2])
		assert.Equal(t, -want, a.Stereo[f*2+1])
		assert.Equal(t, want, a.Raw[f*8])
		assert.Equal(t, -want, a.Raw[f*8+1])
		for c := 2; c < 8; c++ {
			assert.Zero(t, a.Raw[f*8+c])
		}
	}
}

func TestSixChannelDownmix(t *testing.T) {
	// L, R, C, LFE, RL, RR
	vals := [6]float32{0.1, 0.2, 0.3, 0.05, 0.15, 0.25}
	var a Accumulator
	a.Reset()
	require.True(t, a.Mix(block(6, func(f, c int) float32 { return vals[c] }), 6, 1))

	mid := 0.708 * (vals[2] + vals[3])
	for f := 0; f < Frames; f++ {
		assert.InDelta(t, vals[0]+vals[4]+mid, a.Stereo[f*2], 1e-6)
		assert.InDelta(t, vals[1]+vals[5]+mid, a.Stereo[f*2+1], 1e-6)
		for c := 0; c < 6; c++ {
			assert.Equal(t, vals[c], a.Raw[f*8+c])
		}
		assert.Zero(t, a.Raw[f*8+6])
		assert.Zero(t, a.Raw[f*8+7])
	}
}

func TestEightChannelDownmix(t *testing.T) {
	vals := [8]float32{0.1, -0.1, 0.2, 0.1, 0.05, -0.05, 0.3, -0.3}
	var a Accumulator
	a.Reset()
	require.True(t, a.Mix(block(8, func(f, c int) float32 { return vals[c] }), 8, 2))

	mid := 0.708 * (2*vals[2] + 2*vals[3])
	assert.InDelta(t, 2*(vals[0]+vals[4]+vals[6])+mid, a.Stereo[0], 1e-6)
	assert.InDelta(t, 2*(vals[1]+vals[5]+vals[7])+mid, a.Stereo[1], 1e-6)
	for c := 0; c < 8; c++ {
		assert.InDelta(t, 2*vals[c], a.Raw[(Frames-1)*8+c], 1e-7)
	}
}

func TestPortsAccumulate(t *testing.T) {
	var a Accumulator
	a.Reset()
	stereo := block(2, func(f, c int) float32 { return 0.25 })
	surround := block(6, func(f, c int) float32 {
		if c == 0 {
			return 0.5
		}
		return 0
	})
	require.True(t, a.Mix(stereo, 2, 1))
	require.True(t, a.Mix(surround, 6, 1))

	assert.InDelta(t, 0.75, a.Stereo[0], 1e-7)
	assert.InDelta(t, 0.25, a.Stereo[1], 1e-7)
	assert.InDelta(t, 0.75, a.Raw[0], 1e-7)

	var b Accumulator
	b.Reset()
	b.Mix(surround, 6, 1)
	b.Mix(stereo, 2, 1)
	assert.Equal(t, a.Stereo, b.Stereo, "port order does not change the sum")
}

func TestUnsupportedLayoutIsSkipped(t *testing.T) {
	var a Accumulator
	a.Reset()
	assert.False(t, a.Mix(block(4, func(f, c int) float32 { return 1 }), 4, 1))
	assert.False(t, a.Mix(make([]byte, 16), 2, 1), "short block")
	assert.False(t, a.Active())
	assert.Equal(t, [2 * Frames]float32{}, a.Stereo)
}

func TestResetClears(t *testing.T) {
	var a Accumulator
	a.Mix(block(2, func(f, c int) float32 { return 1 }), 2, 1)
	a.Reset()
	assert.False(t, a.Active())
	assert.Zero(t, a.Stereo[10])
	assert.Zero(t, a.Raw[10])
}
