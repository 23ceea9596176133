package dump

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVHeaderAndSizes(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := Open(fs, "/cap.wav", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, w.Channels())
	require.NoError(t, w.WriteHeader())

	samples := make([]float32, 2048)
	samples[0] = 0.5
	samples[2047] = -1
	require.NoError(t, w.WriteSamples(samples))
	require.NoError(t, w.WriteSamples(samples))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Finalize())

	b, err := afero.ReadFile(fs, "/cap.wav")
	require.NoError(t, err)
	dataSize := 2 * 2048 * 4
	require.Len(t, b, HeaderSize+dataSize)

	assert.Equal(t, "RIFF", string(b[0:4]))
	assert.EqualValues(t, 36+dataSize, binary.LittleEndian.Uint32(b[4:]))
	assert.Equal(t, "WAVE", string(b[8:12]))
	assert.Equal(t, "fmt ", string(b[12:16]))
	assert.EqualValues(t, 3, binary.LittleEndian.Uint16(b[20:]))
	assert.EqualValues(t, 8, binary.LittleEndian.Uint16(b[22:]))
	assert.EqualValues(t, 48000, binary.LittleEndian.Uint32(b[24:]))
	assert.EqualValues(t, 48000*8*4, binary.LittleEndian.Uint32(b[28:]))
	assert.EqualValues(t, 32, binary.LittleEndian.Uint16(b[32:]))
	assert.EqualValues(t, 32, binary.LittleEndian.Uint16(b[34:]))
	assert.Equal(t, "data", string(b[36:40]))
	assert.EqualValues(t, dataSize, binary.LittleEndian.Uint32(b[40:]))

	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(b[44:])))
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(b[44+2047*4:])))
}

func TestWAVRejectsChannelCount(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/x.wav", 6)
	assert.ErrorIs(t, err, ErrChannels)
}

func TestWAVOpenFailsOnReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := Open(fs, "/x.wav", 2)
	assert.Error(t, err)
}

func TestWAVEmptyCapture(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := Open(fs, "/empty.wav", 2)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Finalize())

	b, err := afero.ReadFile(fs, "/empty.wav")
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.EqualValues(t, 36, binary.LittleEndian.Uint32(b[4:]))
	assert.EqualValues(t, 0, binary.LittleEndian.Uint32(b[40:]))
	assert.EqualValues(t, 48000*2*4, binary.LittleEndian.Uint32(b[28:]))
}
