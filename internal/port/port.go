// Package port holds the fixed table of audio ports and their state machine.
// The table is not safe for concurrent use; the owner serializes access with
// its global lock.
package port

import "errors"

const (
	Count        = 8
	MaxChannels  = 8
	MaxBlocks    = 16
	BlockFrames  = 256
	SampleSize   = 4 // big-endian float32
	RegionStride = 128 * 1024
	IndexStride  = 8
)

// AttrInitLevel selects the initial level from the open parameters.
const AttrInitLevel uint64 = 0x1000

// Status values reported by Config.
type Status uint64

const (
	StatusReady Status = 1
	StatusRun   Status = 2
	StatusClose Status = 0x1010
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRun:
		return "run"
	case StatusClose:
		return "close"
	}
	return "unknown"
}

var (
	ErrParam      = errors.New("port: parameter out of range")
	ErrFull       = errors.New("port: no free port")
	ErrNotOpen    = errors.New("port: port not open")
	ErrAlreadyRun = errors.New("port: port already running")
	ErrNotRun     = errors.New("port: port not running")
)

// Param describes a port to open.
type Param struct {
	Channels uint64
	Blocks   uint64
	Attr     uint64
	Level    float32
}

// Config is the externally visible description of a port.
type Config struct {
	Status        Status
	Channels      uint64
	Blocks        uint64
	PortSize      uint32
	PortAddr      uint32
	ReadIndexAddr uint32
}

// Port is one slot of the table.
type Port struct {
	Channels      int
	Blocks        int
	Attr          uint64
	Level         float32
	Addr          uint32
	ReadIndexAddr uint32
	Tag           uint64
	Counter       uint64 // cycle counter at the last mix that serviced the port
	Gen           uint64 // distinct for every Open
	Opened        bool
	Started       bool
}

// Position is the ring slot the next mix reads.
func (p *Port) Position() int {
	return int(p.Tag % uint64(p.Blocks))
}

// BlockSize is the number of samples in one block.
func (p *Port) BlockSize() int {
	return p.Channels * BlockFrames
}

// Active is the mixer's copy of a started port.
type Active struct {
	Index         int
	Gen           uint64
	Channels      int
	Blocks        int
	Tag           uint64
	Level         float32
	Addr          uint32
	ReadIndexAddr uint32
}

// BlockAddr is the guest address of the block at the current position.
func (a Active) BlockAddr() uint32 {
	pos := a.Tag % uint64(a.Blocks)
	return a.Addr + uint32(pos)*uint32(a.Channels*BlockFrames*SampleSize)
}

// BlockBytes is the byte length of one block.
func (a Active) BlockBytes() uint32 {
	return uint32(a.Channels * BlockFrames * SampleSize)
}
