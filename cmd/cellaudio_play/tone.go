package main

import (
	sn76489 "github.com/user-none/go-chip-sn76489"

	"github.com/cbegin/cellaudio-go"
)

const (
	psgClockHz     = 3579545
	psgBufferSize  = 1024
	psgGain        = 0.5
	blocksPerNote  = 40
	psgToneChannel = 0
)

// tone renders one port block at a time from an SN76489 square channel
// stepping through a list of frequencies.
type tone struct {
	psg      *sn76489.SN76489
	channels int
	notes    []float64
	note     int
	blocks   int
	carry    int // fractional PSG clocks, in 1/SampleRate units
	out      []float32
}

func newTone(channels int, notes []float64) *tone {
	psg := sn76489.New(psgClockHz, cellaudio.SampleRate, psgBufferSize, sn76489.Sega)
	psg.SetGain(psgGain)
	// Silence all four channels, then open channel 0 at full volume.
	psg.Write(0x9F)
	psg.Write(0xBF)
	psg.Write(0xDF)
	psg.Write(0xFF)
	psg.Write(0x90 | psgToneChannel<<5)
	t := &tone{
		psg:      psg,
		channels: channels,
		notes:    notes,
		out:      make([]float32, channels*cellaudio.BlockFrames),
	}
	t.setPeriod(notes[0])
	return t
}

func (t *tone) setPeriod(hz float64) {
	n := int(psgClockHz/(32*hz) + 0.5)
	n = max(1, min(n, 0x3FF))
	t.psg.Write(byte(0x80 | psgToneChannel<<5 | n&0x0F))
	t.psg.Write(byte(n >> 4 & 0x3F))
}

func (t *tone) current() float64 { return t.notes[t.note] }

// next returns one block of interleaved samples. The returned slice is reused.
func (t *tone) next() []float32 {
	if t.blocks > 0 && t.blocks%blocksPerNote == 0 {
		t.note = (t.note + 1) % len(t.notes)
		t.setPeriod(t.notes[t.note])
	}
	t.blocks++

	// PSG clocks for 256 samples, carrying the remainder so pitch stays exact.
	total := psgClockHz*cellaudio.BlockFrames + t.carry
	t.psg.GenerateSamples(total / cellaudio.SampleRate)
	t.carry = total % cellaudio.SampleRate

	buf, count := t.psg.GetBuffer()
	clear(t.out)
	var v float32
	for f := 0; f < cellaudio.BlockFrames; f++ {
		// The PSG is unipolar; center it. A short buffer holds the last sample.
		if f < count {
			v = max(-1, min(buf[f]-psgGain/2, 1))
		}
		o := t.out[f*t.channels:]
		o[0], o[1] = v, v
		if t.channels >= 6 {
			// Center gets the tone too; the downmix folds it back at 0.708.
			o[2] = v * 0.5
		}
	}
	return t.out
}
