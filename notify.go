package cellaudio

import "github.com/cbegin/cellaudio-go/internal/event"

// maxNotifyQueues bounds the n in (n<<48)|notifyKeyBase.
const maxNotifyQueues = 1 << 16

// CreateNotifyEventQueue creates an event queue under the first free
// notification key and returns its id and key. The key still has to be passed
// to SetNotifyEventQueue to receive cycle events.
func (s *System) CreateNotifyEventQueue() (uint32, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.cfg.events
	for n := uint64(0); n < maxNotifyQueues; n++ {
		key := n<<48 | notifyKeyBase
		if events.CheckKey(key) {
			continue
		}
		q, ok := events.Register(key, event.DefaultQueueSize)
		if !ok {
			return 0, 0, ErrEventQueue
		}
		s.log.Debug("notify queue created", "id", q.ID, "key", key)
		return q.ID, key, nil
	}
	return 0, 0, ErrEventQueue
}

// CreateNotifyEventQueueEx is CreateNotifyEventQueue; flags are ignored.
func (s *System) CreateNotifyEventQueueEx(flags uint32) (uint32, uint64, error) {
	return s.CreateNotifyEventQueue()
}

// SetNotifyEventQueue subscribes key to cycle events.
func (s *System) SetNotifyEventQueue(key uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return code(s.keys.Add(key))
}

func (s *System) SetNotifyEventQueueEx(key uint64, flags uint32) error {
	return s.SetNotifyEventQueue(key)
}

// RemoveNotifyEventQueue unsubscribes key. The queue itself stays registered
// with the event manager.
func (s *System) RemoveNotifyEventQueue(key uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return code(s.keys.Remove(key))
}

func (s *System) RemoveNotifyEventQueueEx(key uint64, flags uint32) error {
	return s.RemoveNotifyEventQueue(key)
}

// Events returns the queue created under key.
func (s *System) Events(key uint64) (*EventQueue, bool) {
	return s.cfg.events.Queue(key)
}
