package handoff

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	mu   sync.Mutex
	got  [][]byte
	fail bool
}

func (r *recordSink) AddData(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, append([]byte(nil), p...))
	if r.fail {
		return errors.New("device gone")
	}
	return nil
}

func (r *recordSink) chunks() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.got
}

func TestFeederForwardsInOrderAndStopsOnSentinel(t *testing.T) {
	q := NewQueue(4)
	sink := &recordSink{}
	done := make(chan error, 1)
	go func() { done <- NewFeeder(q, sink, nil).Run() }()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		s, err := q.Acquire(ctx)
		require.NoError(t, err)
		for j := range s.Data {
			s.Data[j] = byte(i)
		}
		q.Push(s)
	}
	q.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("feeder did not stop after sentinel")
	}

	got := sink.chunks()
	require.Len(t, got, 100)
	for i, c := range got {
		assert.Equal(t, []byte{byte(i), byte(i), byte(i), byte(i)}, c)
	}
}

func TestAcquireBlocksUntilReleaseOrCancel(t *testing.T) {
	q := NewQueue(1)
	ctx := context.Background()
	held := make([]*Slot, 0, SlotCount)
	for i := 0; i < SlotCount; i++ {
		s, err := q.Acquire(ctx)
		require.NoError(t, err)
		held = append(held, s)
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := q.Acquire(cctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	q.Release(held[0])
	s, err := q.Acquire(ctx)
	require.NoError(t, err)
	assert.Same(t, held[0], s)
}

func TestFeederKeepsDrainingOnSinkError(t *testing.T) {
	q := NewQueue(2)
	sink := &recordSink{fail: true}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		s, err := q.Acquire(ctx)
		require.NoError(t, err)
		q.Push(s)
	}
	assert.Equal(t, 3, q.Pending())
	q.Close()
	require.NoError(t, NewFeeder(q, sink, nil).Run())
	assert.Len(t, sink.chunks(), 3)
	assert.Zero(t, q.Pending())
}
