package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/cellaudio-go/internal/pcm"
)

func TestOpenByName(t *testing.T) {
	s, err := Open("none")
	require.NoError(t, err)
	assert.IsType(t, &Discard{}, s)

	s, err = Open(" OTO ")
	require.NoError(t, err)
	assert.IsType(t, &OtoSink{}, s)

	s, err = Open("")
	require.NoError(t, err)
	assert.IsType(t, &EbitenSink{}, s)

	_, err = Open("alsa")
	assert.Error(t, err)
}

func TestDiscardCountsBytes(t *testing.T) {
	d := &Discard{}
	require.NoError(t, d.Open(pcm.FormatFloat32))
	assert.Equal(t, pcm.FormatFloat32, d.Format())
	require.NoError(t, d.AddData(make([]byte, 4096)))
	require.NoError(t, d.AddData(make([]byte, 2048)))
	assert.EqualValues(t, 6144, d.Bytes())
	assert.NoError(t, d.Close())
}

func TestUnopenedSinkRejectsData(t *testing.T) {
	assert.ErrorIs(t, NewOtoSink().AddData([]byte{0}), ErrNotOpen)
	assert.ErrorIs(t, NewEbitenSink().AddData([]byte{0}), ErrNotOpen)
	assert.NoError(t, NewOtoSink().Close())
}

func TestRingSinkFeedsRing(t *testing.T) {
	var s ringSink
	r := s.openRing()
	require.NoError(t, s.AddData([]byte{1, 2, 3, 4}))
	assert.Equal(t, 4, r.Buffered())
	s.closeRing()
	assert.ErrorIs(t, s.AddData([]byte{1}), ErrNotOpen)
}
