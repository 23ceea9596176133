package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/cbegin/cellaudio-go"
	"github.com/cbegin/cellaudio-go/internal/pcm"
)

func main() {
	var (
		backend  = flag.String("backend", "ebiten", "playback backend: ebiten|oto|none")
		format   = flag.String("format", "float32", "output format: s16|float32")
		seconds  = flag.Float64("seconds", 5, "how long to play")
		channels = flag.Int("channels", 2, "port channel layout: 2|6|8")
		blocks   = flag.Int("blocks", 8, "ring blocks per port (1..16)")
		level    = flag.Float64("level", 1.0, "port level")
		dumpPath = flag.String("dump", "", "write the raw 8-channel mix to this WAV file")
		notes    = flag.String("notes", defaultNotes, "space separated tone frequencies in Hz")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	f, err := pcm.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	if *channels != 2 && *channels != 6 && *channels != 8 {
		log.Fatalf("invalid -channels %d (expected 2|6|8)", *channels)
	}
	melody, err := parseNotes(*notes)
	if err != nil {
		log.Fatal(err)
	}
	sink, err := cellaudio.NewPlaybackSink(*backend)
	if err != nil {
		log.Fatal(err)
	}

	opts := []cellaudio.Option{
		cellaudio.WithFormat(f),
		cellaudio.WithPlaybackSink(sink),
		cellaudio.WithLogger(logger),
	}
	if *dumpPath != "" {
		opts = append(opts, cellaudio.WithCaptureFile(afero.NewOsFs(), *dumpPath, 8))
	}
	sys := cellaudio.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := sys.Init(ctx); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := sys.Quit(); err != nil {
			log.Print(err)
		}
	}()
	if !sys.Running() {
		log.Print("audio system did not start; see log above")
		return
	}

	_, key, err := sys.CreateNotifyEventQueue()
	if err != nil {
		log.Fatal(err)
	}
	if err := sys.SetNotifyEventQueue(key); err != nil {
		log.Fatal(err)
	}
	events, _ := sys.Events(key)

	port, err := sys.PortOpen(cellaudio.PortParam{
		Channels: uint64(*channels),
		Blocks:   uint64(*blocks),
		Attr:     cellaudio.PortAttrInitLevel,
		Level:    float32(*level),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer sys.PortClose(port)

	src := newTone(*channels, melody)
	for b := 0; b < *blocks; b++ {
		if err := sys.WriteBlock(port, b, src.next()); err != nil {
			log.Fatal(err)
		}
	}
	if err := sys.PortStart(port); err != nil {
		log.Fatal(err)
	}

	status := term.IsTerminal(int(os.Stdout.Fd()))
	total := int(*seconds * cellaudio.SampleRate / cellaudio.BlockFrames)
	for cycle := 1; cycle <= total; cycle++ {
		select {
		case <-events.Events():
		case <-sys.Done():
			log.Print("audio system stopped")
			return
		}
		idx, err := sys.ReadIndex(port)
		if err != nil {
			log.Fatal(err)
		}
		// Refill the block just consumed; it plays again a full ring later.
		last := (int(idx) + *blocks - 1) % *blocks
		if err := sys.WriteBlock(port, last, src.next()); err != nil {
			log.Fatal(err)
		}
		if status && cycle%16 == 0 {
			tag, _ := sys.GetPortBlockTag(port, idx)
			fmt.Printf("\rcycle %6d/%d  tag %6d  note %7.1f Hz", cycle, total, tag, src.current())
		}
	}
	if status {
		fmt.Println()
	}
	fmt.Printf("played %.1fs on %s (%s, %d ch)\n", *seconds, *backend, f, *channels)
}

const defaultNotes = "261.6 329.6 392.0 523.3 392.0 329.6"

func parseNotes(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Fields(s) {
		var hz float64
		if _, err := fmt.Sscanf(field, "%g", &hz); err != nil || hz <= 0 {
			return nil, fmt.Errorf("invalid note %q", field)
		}
		out = append(out, hz)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return out, nil
}
