// Package notify keeps the set of event-queue keys that are told about every
// completed mix cycle and delivers those notifications.
package notify

import (
	"errors"
	"slices"
)

// Source identifies the audio subsystem as the sender of a cycle event.
const Source uint64 = 0x10103000e010e07

var (
	ErrDuplicate = errors.New("notify: key already registered")
	ErrNotFound  = errors.New("notify: key not registered")
)

// Registry is a set of unique keys. It is not safe for concurrent use.
type Registry struct {
	keys []uint64
}

func (r *Registry) Add(key uint64) error {
	if slices.Contains(r.keys, key) {
		return ErrDuplicate
	}
	r.keys = append(r.keys, key)
	return nil
}

func (r *Registry) Remove(key uint64) error {
	i := slices.Index(r.keys, key)
	if i < 0 {
		return ErrNotFound
	}
	r.keys = slices.Delete(r.keys, i, i+1)
	return nil
}

func (r *Registry) Len() int { return len(r.keys) }

// Snapshot copies the keys into dst, reusing its storage.
func (r *Registry) Snapshot(dst []uint64) []uint64 {
	return append(dst[:0], r.keys...)
}

func (r *Registry) Clear() {
	r.keys = r.keys[:0]
}

// Sender delivers one event to the queue behind key.
type Sender interface {
	Send(key, source, data1, data2, data3 uint64) bool
}

// Deliver sends one cycle event per key and returns how many were accepted.
// It must be called without holding the lock that guards the Registry.
func Deliver(keys []uint64, s Sender) int {
	sent := 0
	for _, k := range keys {
		if s.Send(k, Source, 0, 0, 0) {
			sent++
		}
	}
	return sent
}
