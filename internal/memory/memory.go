// Package memory models the guest address space that backs port rings and
// read-index words. Addresses are opaque guest handles; callers resolve them to
// byte slices through a Provider instead of doing pointer arithmetic.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// DefaultBase is the first guest address handed out by an Arena.
const DefaultBase uint32 = 0x20000000

var (
	ErrOutOfMemory = errors.New("memory: out of guest address space")
	ErrBadAddress  = errors.New("memory: address not allocated")
	ErrBadAlign    = errors.New("memory: alignment must be a power of two")
)

// Provider allocates zero-initialized guest ranges and resolves them to host bytes.
type Provider interface {
	Alloc(size, align uint32) (uint32, error)
	Free(addr uint32) error
	Slice(addr, n uint32) ([]byte, error)
}

// span is one live allocation.
type span struct {
	start uint32
	data  []byte
}

func (s *span) contains(addr uint32) bool {
	return addr >= s.start && uint64(addr) < uint64(s.start)+uint64(len(s.data))
}

// Arena is a bump allocator over a 32-bit guest address space. Freed ranges are
// not reused; the audio subsystem allocates a handful of regions per Init.
type Arena struct {
	mu    sync.Mutex
	next  uint64
	spans []*span // sorted by start
}

// NewArena returns an Arena whose first allocation starts at base.
func NewArena(base uint32) *Arena {
	return &Arena{next: uint64(base)}
}

func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, ErrBadAlign
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	start := (a.next + uint64(align) - 1) &^ (uint64(align) - 1)
	end := start + uint64(size)
	if end > math.MaxUint32 {
		return 0, fmt.Errorf("alloc %d bytes: %w", size, ErrOutOfMemory)
	}
	a.next = end
	a.spans = append(a.spans, &span{start: uint32(start), data: make([]byte, size)})
	return uint32(start), nil
}

func (a *Arena) Free(addr uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, s := range a.spans {
		if s.start == addr {
			a.spans = append(a.spans[:i], a.spans[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("free 0x%x: %w", addr, ErrBadAddress)
}

// Slice returns the n bytes at addr. The range must lie inside one allocation.
func (a *Arena) Slice(addr, n uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := sort.Search(len(a.spans), func(i int) bool {
		return a.spans[i].start > addr
	})
	if i == 0 {
		return nil, fmt.Errorf("slice 0x%x: %w", addr, ErrBadAddress)
	}
	s := a.spans[i-1]
	if !s.contains(addr) {
		return nil, fmt.Errorf("slice 0x%x: %w", addr, ErrBadAddress)
	}
	off := addr - s.start
	if uint64(off)+uint64(n) > uint64(len(s.data)) {
		return nil, fmt.Errorf("slice 0x%x+%d crosses allocation end: %w", addr, n, ErrBadAddress)
	}
	return s.data[off : off+n : off+n], nil
}

// Float32BE reads the i-th big-endian float32 of b.
func Float32BE(b []byte, i int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[i*4:]))
}

// PutFloat32BE stores v as the i-th big-endian float32 of b.
func PutFloat32BE(b []byte, i int, v float32) {
	binary.BigEndian.PutUint32(b[i*4:], math.Float32bits(v))
}

// PutUint64BE stores a guest u64 (read indexes are big-endian words).
func PutUint64BE(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}

// Uint64BE loads a guest u64.
func Uint64BE(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
