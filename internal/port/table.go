package port

// Table is the fixed collection of ports addressed by index.
type Table struct {
	ports     [Count]Port
	inUse     int
	gen       uint64
	bufBase   uint32
	indexBase uint32
}

// NewTable returns a table whose port regions start at bufBase (RegionStride
// apart) and whose read-index words start at indexBase.
func NewTable(bufBase, indexBase uint32) *Table {
	return &Table{bufBase: bufBase, indexBase: indexBase}
}

// InUse is the number of opened ports.
func (t *Table) InUse() int { return t.inUse }

// Port returns a copy of port i.
func (t *Table) Port(i int) (Port, error) {
	if i < 0 || i >= Count {
		return Port{}, ErrParam
	}
	return t.ports[i], nil
}

func (t *Table) opened(i int) (*Port, error) {
	if i < 0 || i >= Count {
		return nil, ErrParam
	}
	p := &t.ports[i]
	if !p.Opened {
		return nil, ErrNotOpen
	}
	return p, nil
}

func (t *Table) started(i int) (*Port, error) {
	p, err := t.opened(i)
	if err != nil {
		return nil, err
	}
	if !p.Started {
		return nil, ErrNotRun
	}
	return p, nil
}

// ReadIndexAddr is where port i's read index is published, open or not.
func (t *Table) ReadIndexAddr(i int) uint32 {
	return t.indexBase + uint32(i)*IndexStride
}

// Open claims the first closed port.
func (t *Table) Open(param Param) (int, error) {
	if param.Channels > MaxChannels || param.Blocks > MaxBlocks {
		return -1, ErrParam
	}
	if param.Channels == 0 || param.Blocks == 0 {
		return -1, ErrParam
	}
	if t.inUse >= Count {
		return -1, ErrFull
	}
	for i := range t.ports {
		p := &t.ports[i]
		if p.Opened {
			continue
		}
		level := float32(1)
		if param.Attr&AttrInitLevel != 0 {
			level = param.Level
		}
		t.gen++
		*p = Port{
			Gen:           t.gen,
			Channels:      int(param.Channels),
			Blocks:        int(param.Blocks),
			Attr:          param.Attr,
			Level:         level,
			Addr:          t.bufBase + uint32(i)*RegionStride,
			ReadIndexAddr: t.ReadIndexAddr(i),
			Opened:        true,
		}
		t.inUse++
		return i, nil
	}
	return -1, ErrFull
}

func (t *Table) Start(i int) error {
	p, err := t.opened(i)
	if err != nil {
		return err
	}
	if p.Started {
		return ErrAlreadyRun
	}
	p.Started = true
	return nil
}

func (t *Table) Stop(i int) error {
	p, err := t.started(i)
	if err != nil {
		return err
	}
	p.Started = false
	return nil
}

func (t *Table) Close(i int) error {
	p, err := t.opened(i)
	if err != nil {
		return err
	}
	p.Started = false
	p.Opened = false
	t.inUse--
	return nil
}

func (t *Table) SetLevel(i int, level float32) error {
	p, err := t.started(i)
	if err != nil {
		return err
	}
	p.Level = level
	return nil
}

// Config reports the port's status and layout. Closed ports still report the
// fields of their last open.
func (t *Table) Config(i int) (Config, error) {
	if i < 0 || i >= Count {
		return Config{}, ErrParam
	}
	p := &t.ports[i]
	status := StatusReady
	switch {
	case !p.Opened:
		status = StatusClose
	case p.Started:
		status = StatusRun
	}
	return Config{
		Status:        status,
		Channels:      uint64(p.Channels),
		Blocks:        uint64(p.Blocks),
		PortSize:      uint32(p.Channels * p.Blocks * BlockFrames * SampleSize),
		PortAddr:      p.Addr,
		ReadIndexAddr: p.ReadIndexAddr,
	}, nil
}

// TimestampCycle converts tag into the cycle number at which it is (or was) mixed.
// The caller multiplies by the cycle duration and adds the start time.
func (t *Table) TimestampCycle(i int, tag uint64) (uint64, error) {
	p, err := t.started(i)
	if err != nil {
		return 0, err
	}
	return p.Counter + (tag - p.Tag), nil
}

// BlockTag returns the next tag that lands on ring slot blockNo.
func (t *Table) BlockTag(i int, blockNo uint64) (uint64, error) {
	p, err := t.started(i)
	if err != nil {
		return 0, err
	}
	blocks := uint64(p.Blocks)
	if blockNo >= blocks {
		return 0, ErrParam
	}
	base := p.Tag - p.Tag%blocks
	if p.Tag%blocks > blockNo {
		base += blocks
	}
	return base + blockNo, nil
}

// Started appends a copy of every started port to dst.
func (t *Table) Started(dst []Active) []Active {
	for i := range t.ports {
		p := &t.ports[i]
		if !p.Started {
			continue
		}
		dst = append(dst, Active{
			Index:         i,
			Gen:           p.Gen,
			Channels:      p.Channels,
			Blocks:        p.Blocks,
			Tag:           p.Tag,
			Level:         p.Level,
			Addr:          p.Addr,
			ReadIndexAddr: p.ReadIndexAddr,
		})
	}
	return dst
}

// Advance records that cycle serviced port i and moves it to its next block.
// It returns the read index to publish and false if the port is not started.
func (t *Table) Advance(i int, cycle uint64) (uint64, bool) {
	if i < 0 || i >= Count {
		return 0, false
	}
	p := &t.ports[i]
	if !p.Started {
		return 0, false
	}
	pos := p.Tag % uint64(p.Blocks)
	p.Counter = cycle
	p.Tag++
	return (pos + 1) % uint64(p.Blocks), true
}

// Service advances a port the mixer read from. It is a no-op, returning
// false, if the port was stopped, closed or reopened since the snapshot.
func (t *Table) Service(a Active, cycle uint64) (uint64, bool) {
	if a.Index < 0 || a.Index >= Count {
		return 0, false
	}
	p := &t.ports[a.Index]
	if !p.Started || p.Gen != a.Gen {
		return 0, false
	}
	return t.Advance(a.Index, cycle)
}

// Reset closes every port.
func (t *Table) Reset() {
	for i := range t.ports {
		t.ports[i].Opened = false
		t.ports[i].Started = false
	}
	t.inUse = 0
}
