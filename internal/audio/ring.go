package audio

import (
	"io"
	"sync"
)

// Ring buffers mixed output between the feeder and a pull-model player.
//
// Bytes are stored as [head, head+size) modulo the capacity. Overflow drops
// the oldest whole frames, so a late reader loses time but never lands in the
// middle of a sample. Read blocks while the ring is empty and open.
type Ring struct {
	mu    sync.Mutex
	ready *sync.Cond

	data    []byte
	frame   int
	head    int
	size    int
	dropped int64
	closed  bool
}

// NewRing holds up to capacity bytes, rounded down to whole frames of
// frame bytes.
func NewRing(capacity, frame int) *Ring {
	frame = max(frame, 1)
	capacity = max(capacity/frame, 1) * frame
	r := &Ring{data: make([]byte, capacity), frame: frame}
	r.ready = sync.NewCond(&r.mu)
	return r
}

// Write queues p. It never blocks; if p does not fit, the oldest frames are
// dropped first, and a p longer than the ring keeps only its last frames.
// The returned count is always len(p).
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.ErrClosedPipe
	}
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	if excess := n - len(r.data); excess > 0 {
		excess = r.roundUp(excess)
		r.dropped += int64(excess)
		p = p[excess:]
	}
	if over := r.size + len(p) - len(r.data); over > 0 {
		r.dropped += int64(r.advance(r.toFrame(over)))
	}
	r.size += r.span((r.head+r.size)%len(r.data), p, false)
	r.ready.Signal()
	return n, nil
}

// Read copies out up to len(p) queued bytes. Once the ring is closed and
// drained it returns io.EOF.
func (r *Ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.size == 0 && !r.closed {
		r.ready.Wait()
	}
	if r.size == 0 {
		return 0, io.EOF
	}
	return r.advance(r.span(r.head, p[:min(len(p), r.size)], true)), nil
}

// span copies between p and the ring starting at offset off, wrapping at the
// end of the ring. into selects the direction: true copies ring into p.
func (r *Ring) span(off int, p []byte, into bool) int {
	done := 0
	for done < len(p) {
		end := min(len(r.data), off+len(p)-done)
		if into {
			done += copy(p[done:], r.data[off:end])
		} else {
			done += copy(r.data[off:end], p[done:])
		}
		off = 0
	}
	return done
}

// advance moves head past up to n queued bytes and returns how many it passed.
func (r *Ring) advance(n int) int {
	n = min(n, r.size)
	r.head = (r.head + n) % len(r.data)
	r.size -= n
	return n
}

func (r *Ring) roundUp(n int) int {
	return (n + r.frame - 1) / r.frame * r.frame
}

// toFrame is the distance from head to the first frame boundary at least n
// bytes ahead. Capacity is whole frames, so head%frame tracks the stream.
func (r *Ring) toFrame(n int) int {
	return r.roundUp(r.head+n) - r.head
}

// Buffered is the number of unread bytes.
func (r *Ring) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Dropped is the number of bytes lost to overflow so far.
func (r *Ring) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close stops writes and wakes blocked readers. Queued bytes can still be read.
func (r *Ring) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.ready.Broadcast()
	return nil
}
