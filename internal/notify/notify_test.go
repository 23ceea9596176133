package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	key, source, d1, d2, d3 uint64
}

type fakeSender struct {
	events []sent
	reject uint64
}

func (f *fakeSender) Send(key, source, d1, d2, d3 uint64) bool {
	if key == f.reject {
		return false
	}
	f.events = append(f.events, sent{key, source, d1, d2, d3})
	return true
}

func TestRegistryUniqueKeys(t *testing.T) {
	var r Registry
	require.NoError(t, r.Add(1))
	require.NoError(t, r.Add(2))
	assert.ErrorIs(t, r.Add(1), ErrDuplicate)
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Remove(1))
	assert.ErrorIs(t, r.Remove(1), ErrNotFound, "second removal")
	assert.Equal(t, []uint64{2}, r.Snapshot(nil))

	r.Clear()
	assert.Zero(t, r.Len())
	assert.ErrorIs(t, r.Remove(2), ErrNotFound)
}

func TestSnapshotIsIndependent(t *testing.T) {
	var r Registry
	_ = r.Add(10)
	_ = r.Add(20)
	buf := make([]uint64, 0, 4)
	snap := r.Snapshot(buf)
	_ = r.Remove(10)
	assert.Equal(t, []uint64{10, 20}, snap)
}

func TestDeliverOneEventPerKey(t *testing.T) {
	s := &fakeSender{reject: 3}
	n := Deliver([]uint64{1, 2, 3}, s)
	assert.Equal(t, 2, n)
	assert.Equal(t, []sent{{1, Source, 0, 0, 0}, {2, Source, 0, 0, 0}}, s.events)
}
