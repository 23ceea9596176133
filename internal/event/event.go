// Package event is a small keyed event-queue manager standing in for the
// host's event system. The audio subsystem registers queues under 64-bit keys
// and sends cycle notifications to them without blocking.
package event

import (
	"context"
	"sync"
)

// DefaultQueueSize is the capacity of queues created for audio notifications.
const DefaultQueueSize = 32

// Event is one delivered notification.
type Event struct {
	Source uint64
	Data1  uint64
	Data2  uint64
	Data3  uint64
}

// Queue is a bounded FIFO of events.
type Queue struct {
	ID  uint32
	Key uint64
	ch  chan Event
}

// Events exposes the queue as a receive channel.
func (q *Queue) Events() <-chan Event { return q.ch }

// Receive waits for the next event or for ctx to end.
func (q *Queue) Receive(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Len is the number of undelivered events.
func (q *Queue) Len() int { return len(q.ch) }

// Manager maps keys to queues.
type Manager struct {
	mu     sync.Mutex
	queues map[uint64]*Queue
	nextID uint32
}

func NewManager() *Manager {
	return &Manager{queues: make(map[uint64]*Queue)}
}

// CheckKey reports whether key is taken.
func (m *Manager) CheckKey(key uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.queues[key]
	return ok
}

// Register creates a queue of the given size under key. It returns false if
// the key is already taken.
func (m *Manager) Register(key uint64, size int) (*Queue, bool) {
	if size <= 0 {
		size = DefaultQueueSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queues[key]; ok {
		return nil, false
	}
	m.nextID++
	q := &Queue{ID: m.nextID, Key: key, ch: make(chan Event, size)}
	m.queues[key] = q
	return q, true
}

// Unregister drops the queue under key.
func (m *Manager) Unregister(key uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queues[key]; !ok {
		return false
	}
	delete(m.queues, key)
	return true
}

// Queue returns the queue registered under key.
func (m *Manager) Queue(key uint64) (*Queue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[key]
	return q, ok
}

// Send posts an event to the queue under key. It never blocks: unknown keys
// and full queues drop the event and return false.
func (m *Manager) Send(key, source, data1, data2, data3 uint64) bool {
	q, ok := m.Queue(key)
	if !ok {
		return false
	}
	select {
	case q.ch <- Event{Source: source, Data1: data1, Data2: data2, Data3: data3}:
		return true
	default:
		// Queue full; drop event
		return false
	}
}
