// Package mix downmixes port blocks into the per-cycle stereo and 8-channel
// accumulators.
package mix

import "github.com/cbegin/cellaudio-go/internal/memory"

const (
	Frames = 256

	// CenterGain blends center and LFE into both stereo sides.
	CenterGain = float32(0.708)
)

// Accumulator holds one cycle of mixed output. Stereo and Raw are interleaved.
type Accumulator struct {
	Stereo [2 * Frames]float32
	Raw    [8 * Frames]float32
	active bool
}

// Reset zeroes both buffers for a new cycle.
func (a *Accumulator) Reset() {
	a.Stereo = [2 * Frames]float32{}
	a.Raw = [8 * Frames]float32{}
	a.active = false
}

// Active reports whether any block was mixed since Reset.
func (a *Accumulator) Active() bool { return a.active }

// Supported reports whether blocks with this many channels can be mixed.
func Supported(channels int) bool {
	return channels == 2 || channels == 6 || channels == 8
}

func sample(block []byte, i int, gain float32) float32 {
	return memory.Float32BE(block, i) * gain
}

// Mix adds one block of big-endian float32 frames, scaled by gain. It returns
// false, leaving the accumulator untouched, if the channel layout is not
// supported or the block is short.
func (a *Accumulator) Mix(block []byte, channels int, gain float32) bool {
	if !Supported(channels) || len(block) < channels*Frames*4 {
		return false
	}
	st := &a.Stereo
	raw := &a.Raw
	switch channels {
	case 2:
		for f := 0; f < Frames; f++ {
			l := sample(block, f*2+0, gain)
			r := sample(block, f*2+1, gain)
			st[f*2+0] += l
			st[f*2+1] += r
			raw[f*8+0] += l
			raw[f*8+1] += r
		}
	case 6:
		for f := 0; f < Frames; f++ {
			in := f * 6
			l := sample(block, in+0, gain)
			r := sample(block, in+1, gain)
			c := sample(block, in+2, gain)
			lfe := sample(block, in+3, gain)
			rl := sample(block, in+4, gain)
			rr := sample(block, in+5, gain)

			mid := (c + lfe) * CenterGain
			st[f*2+0] += l + rl + mid
			st[f*2+1] += r + rr + mid

			out := raw[f*8 : f*8+6]
			out[0] += l
			out[1] += r
			out[2] += c
			out[3] += lfe
			out[4] += rl
			out[5] += rr
		}
	case 8:
		for f := 0; f < Frames; f++ {
			in := f * 8
			l := sample(block, in+0, gain)
			r := sample(block, in+1, gain)
			c := sample(block, in+2, gain)
			lfe := sample(block, in+3, gain)
			rl := sample(block, in+4, gain)
			rr := sample(block, in+5, gain)
			sl := sample(block, in+6, gain)
			sr := sample(block, in+7, gain)

			mid := (c + lfe) * CenterGain
			st[f*2+0] += l + rl + sl + mid
			st[f*2+1] += r + rr + sr + mid

			out := raw[f*8 : f*8+8]
			out[0] += l
			out[1] += r
			out[2] += c
			out[3] += lfe
			out[4] += rl
			out[5] += rr
			out[6] += sl
			out[7] += sr
		}
	}
	a.active = true
	return true
}
