// Package tick drives the fixed-resolution panel at a constant frame rate:
// on every tick it asks the generator stack what is due, hands the result
// to the filler for compositing, and pushes the composited buffer to the
// display.
//
// Grounded on the Rust source's tick-loop thread (a periodic timer plus a
// blocking recv on a shutdown channel) and, for the concurrency shape, on
// experimental/cmd/periph-web's main loop style of one goroutine per
// long-running concern. time.Ticker already drops unread ticks on its
// channel when the receiver falls behind, which gives a skip-missed-ticks
// policy for free — no bookkeeping needed to reproduce it.
package tick

import (
	"log"
	"time"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/filler"
	"github.com/rasgbd/rasgbd/internal/generator"
	"github.com/rasgbd/rasgbd/internal/shutdown"
)

// Loop drives generator -> filler -> display at a fixed period.
type Loop struct {
	Generator generator.Generator
	Filler    filler.Filler
	Display   display.Display
	Period    time.Duration
}

// New builds a Loop ticking at the given frames-per-second rate.
func New(gen generator.Generator, f filler.Filler, d display.Display, fps float64) *Loop {
	return &Loop{
		Generator: gen,
		Filler:    f,
		Display:   d,
		Period:    time.Duration(float64(time.Second) / fps),
	}
}

// Run blocks, ticking Period apart, until token is cancelled. It never
// returns an error: per-tick failures are logged and the loop continues,
// since a single frame that doesn't fit the panel is not fatal to the
// pipeline.
func (l *Loop) Run(token *shutdown.Token) {
	ticker := time.NewTicker(l.Period)
	defer ticker.Stop()

	for {
		select {
		case <-token.Done():
			return
		case now := <-ticker.C:
			l.tick(uint64(now.UnixMicro()))
		}
	}
}

func (l *Loop) tick(unixMicros uint64) {
	f, ok := l.Generator.Generate(unixMicros)
	if !ok {
		return
	}
	if err := l.Filler.PushToDisplay(f, l.Display); err != nil {
		log.Printf("tick: push frame at t=%d: %v", unixMicros, err)
	}
}
