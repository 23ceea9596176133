// Package cellaudio emulates a console audio-output subsystem.
//
// Producers write PCM blocks into the rings of up to eight ports. Once Init
// has run, a mixing goroutine wakes every 256 samples at 48kHz, downmixes the
// current block of every started port to stereo, hands the result to a
// playback sink and tells every registered event queue that a cycle
// completed.
package cellaudio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/cbegin/cellaudio-go/internal/audio"
	"github.com/cbegin/cellaudio-go/internal/cadence"
	"github.com/cbegin/cellaudio-go/internal/dump"
	"github.com/cbegin/cellaudio-go/internal/event"
	"github.com/cbegin/cellaudio-go/internal/memory"
	"github.com/cbegin/cellaudio-go/internal/notify"
	"github.com/cbegin/cellaudio-go/internal/pcm"
	"github.com/cbegin/cellaudio-go/internal/port"
)

const (
	PortCount   = port.Count
	MaxChannels = port.MaxChannels
	MaxBlocks   = port.MaxBlocks
	BlockFrames = port.BlockFrames
	SampleRate  = cadence.SampleRate

	// PortAttrInitLevel makes PortOpen take the initial level from PortParam.
	PortAttrInitLevel = port.AttrInitLevel

	// notifyKeyBase is OR'ed with n<<48 to form notification queue keys.
	notifyKeyBase uint64 = 0x80004d494f323221
)

type (
	PortParam  = port.Param
	PortConfig = port.Config
	PortStatus = port.Status

	Format = pcm.Format

	Clock       = cadence.Clock
	ManualClock = cadence.ManualClock

	Memory = memory.Provider

	EventManager = event.Manager
	EventQueue   = event.Queue
	Event        = event.Event

	PlaybackSink = audio.Sink
	WAVCapture   = dump.WAV
)

const (
	PortStatusReady = port.StatusReady
	PortStatusRun   = port.StatusRun
	PortStatusClose = port.StatusClose

	FormatS16     = pcm.FormatS16
	FormatFloat32 = pcm.FormatFloat32
)

// EventSource is the source field of every cycle notification.
const EventSource = notify.Source

// CaptureSink receives the raw accumulator of every cycle in which at least
// one port was mixed. Channels must be 2 or 8.
type CaptureSink interface {
	Channels() int
	WriteHeader() error
	WriteSamples(src []float32) error
	Finalize() error
}

// NewPlaybackSink returns the backend registered under name: ebiten, oto or none.
func NewPlaybackSink(name string) (PlaybackSink, error) {
	return audio.Open(name)
}

// NewWAVCapture creates a float32 WAV capture at path on fs.
func NewWAVCapture(fs afero.Fs, path string, channels int) (*WAVCapture, error) {
	return dump.Open(fs, path, channels)
}

func NewEventManager() *EventManager { return event.NewManager() }

func NewArena() Memory { return memory.NewArena(memory.DefaultBase) }

type Option func(*config)

type config struct {
	format      pcm.Format
	playback    audio.Sink
	openCapture func() (CaptureSink, error)
	mem         memory.Provider
	events      *event.Manager
	clock       cadence.Clock
	paused      func() bool
	logger      *slog.Logger
	poll        time.Duration
	slotCycles  int
}

func defaultConfig() config {
	return config{
		format:     pcm.FormatFloat32,
		poll:       cadence.DefaultPoll,
		slotCycles: 1,
	}
}

// WithFormat selects the sample format handed to the playback sink.
func WithFormat(f Format) Option {
	return func(cfg *config) {
		cfg.format = f
	}
}

// WithPlaybackSink installs the backend fed by the feeder goroutine. Without
// one, cycles are mixed and notified but not played.
func WithPlaybackSink(s PlaybackSink) Option {
	return func(cfg *config) {
		cfg.playback = s
	}
}

// WithCaptureSink records the raw mix to c.
func WithCaptureSink(c CaptureSink) Option {
	return func(cfg *config) {
		cfg.openCapture = func() (CaptureSink, error) { return c, nil }
	}
}

// WithCaptureFile records the raw mix to a WAV file created on fs when the
// mixing goroutine starts.
func WithCaptureFile(fs afero.Fs, path string, channels int) Option {
	return func(cfg *config) {
		cfg.openCapture = func() (CaptureSink, error) {
			return dump.Open(fs, path, channels)
		}
	}
}

func WithMemory(m Memory) Option {
	return func(cfg *config) {
		cfg.mem = m
	}
}

func WithEventManager(m *EventManager) Option {
	return func(cfg *config) {
		cfg.events = m
	}
}

// WithClock replaces the monotonic clock driving the cycle cadence.
func WithClock(c Clock) Option {
	return func(cfg *config) {
		cfg.clock = c
	}
}

// WithPauseFunc installs the host pause query. Cycles that fall due while it
// reports true are counted but not mixed.
func WithPauseFunc(paused func() bool) Option {
	return func(cfg *config) {
		cfg.paused = paused
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithPollInterval sets how long the mixing goroutine sleeps between checks
// for the next cycle.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *config) {
		cfg.poll = d
	}
}

// WithSlotCycles sets how many cycles of output are collected into one slot
// before it is handed to the playback sink.
func WithSlotCycles(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.slotCycles = n
		}
	}
}

// System is one audio subsystem instance. All methods are safe for concurrent
// use.
type System struct {
	cfg config
	log *slog.Logger

	mu          sync.Mutex
	initialized bool
	quitting    bool
	sess        *session
	keys        notify.Registry
}

// session is the state that lives from Init to the end of Quit.
type session struct {
	ports     *port.Table
	sched     *cadence.Scheduler
	bufAddr   uint32
	indexAddr uint32
	start     uint64
	running   bool
	finalized bool

	cancel func()
	group  *errgroup.Group
	done   chan struct{}
}

func New(opts ...Option) *System {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.mem == nil {
		cfg.mem = memory.NewArena(memory.DefaultBase)
	}
	if cfg.events == nil {
		cfg.events = event.NewManager()
	}
	if cfg.clock == nil {
		cfg.clock = cadence.SystemClock()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &System{cfg: cfg, log: cfg.logger.With("module", "cellaudio")}
}

// EventManager is the manager notification queues are created in.
func (s *System) EventManager() *EventManager { return s.cfg.events }

// Memory is the guest address space backing the port rings.
func (s *System) Memory() Memory { return s.cfg.mem }
