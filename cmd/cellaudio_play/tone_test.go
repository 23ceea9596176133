package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotes(t *testing.T) {
	got, err := parseNotes(" 440  220.5 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{440, 220.5}, got)

	_, err = parseNotes("")
	assert.Error(t, err)
	_, err = parseNotes("440 abc")
	assert.Error(t, err)
	_, err = parseNotes("-5")
	assert.Error(t, err)
}

func TestToneBlocks(t *testing.T) {
	for _, ch := range []int{2, 6, 8} {
		src := newTone(ch, []float64{440, 880})
		for b := 0; b < blocksPerNote+2; b++ {
			block := src.next()
			require.Len(t, block, ch*256)
			for f := 0; f < 256; f++ {
				l, r := block[f*ch], block[f*ch+1]
				assert.Equal(t, l, r)
				assert.LessOrEqual(t, l, float32(1))
				assert.GreaterOrEqual(t, l, float32(-1))
			}
		}
		assert.Equal(t, 880.0, src.current())
	}
}
