package cellaudio

import (
	"github.com/cbegin/cellaudio-go/internal/cadence"
	"github.com/cbegin/cellaudio-go/internal/memory"
	"github.com/cbegin/cellaudio-go/internal/port"
)

// PortOpen claims the first closed port and returns its index.
func (s *System) PortOpen(param PortParam) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return -1, err
	}
	i, err := sess.ports.Open(param)
	if err != nil {
		return -1, code(err)
	}
	s.log.Debug("port opened", "port", i, "channels", param.Channels, "blocks", param.Blocks)
	return i, nil
}

func (s *System) PortStart(i int) error {
	return s.withPorts(func(t *port.Table) error { return t.Start(i) })
}

func (s *System) PortStop(i int) error {
	return s.withPorts(func(t *port.Table) error { return t.Stop(i) })
}

func (s *System) PortClose(i int) error {
	return s.withPorts(func(t *port.Table) error { return t.Close(i) })
}

// SetPortLevel changes the gain applied to a started port from the next cycle.
func (s *System) SetPortLevel(i int, level float32) error {
	return s.withPorts(func(t *port.Table) error { return t.SetLevel(i, level) })
}

func (s *System) GetPortConfig(i int) (PortConfig, error) {
	var cfg PortConfig
	err := s.withPorts(func(t *port.Table) error {
		var err error
		cfg, err = t.Config(i)
		return err
	})
	return cfg, err
}

// GetPortTimestamp returns the time, in microseconds on the system clock, at
// which the block with the given tag is or was mixed.
func (s *System) GetPortTimestamp(i int, tag uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return 0, err
	}
	cycle, err := sess.ports.TimestampCycle(i, tag)
	if err != nil {
		return 0, code(err)
	}
	return sess.start + cadence.CycleTicks(cycle), nil
}

// GetPortBlockTag returns the tag of the next mix of ring slot blockNo.
func (s *System) GetPortBlockTag(i int, blockNo uint64) (uint64, error) {
	var tag uint64
	err := s.withPorts(func(t *port.Table) error {
		var err error
		tag, err = t.BlockTag(i, blockNo)
		return err
	})
	return tag, err
}

// WriteBlock stores samples as big-endian float32 into ring slot blockNo of
// an open port. len(samples) must be channels*256.
func (s *System) WriteBlock(i int, blockNo int, samples []float32) error {
	b, err := s.block(i, blockNo, len(samples))
	if err != nil {
		return err
	}
	for j, v := range samples {
		memory.PutFloat32BE(b, j, v)
	}
	return nil
}

// ReadIndex returns the ring slot the producer may fill next, as published
// after the last cycle that serviced the port.
func (s *System) ReadIndex(i int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= port.Count {
		return 0, ErrParam
	}
	b, err := s.cfg.mem.Slice(sess.ports.ReadIndexAddr(i), port.IndexStride)
	if err != nil {
		return 0, err
	}
	return memory.Uint64BE(b), nil
}

func (s *System) block(i, blockNo, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return nil, err
	}
	p, err := sess.ports.Port(i)
	if err != nil {
		return nil, code(err)
	}
	if !p.Opened {
		return nil, ErrPortNotOpen
	}
	if blockNo < 0 || blockNo >= p.Blocks || n != p.BlockSize() {
		return nil, ErrParam
	}
	size := uint32(p.BlockSize() * port.SampleSize)
	return s.cfg.mem.Slice(p.Addr+uint32(blockNo)*size, size)
}

func (s *System) withPorts(fn func(t *port.Table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return err
	}
	return code(fn(sess.ports))
}
