package generator

import (
	"sync"
	"time"

	"github.com/rasgbd/rasgbd/internal/frame"
)

// Fallback composes a base Generator and a fallback Generator with an idle
// grace period: while the base generator is intermittently returning
// frames, the fallback stays quiet (the display keeps its last frame)
// rather than flashing in between. Only once the base has been silent for
// at least idleDuration does the fallback generator take over.
//
// Grounded on the Rust source's FallbackFrameGenerator, with saturating
// subtraction for the elapsed-since-last-real-frame delta: if the wall
// clock steps backward, the delta is treated as zero (not yet idle)
// instead of underflowing.
type Fallback struct {
	base       Generator
	fallback   Generator
	idleMicros uint64

	mu                  sync.Mutex
	lastRealFrameMicros *uint64
}

// NewFallback builds a Fallback generator.
func NewFallback(base, fallback Generator, idleDuration time.Duration) *Fallback {
	idle := idleDuration.Microseconds()
	if idle < 0 {
		idle = 0
	}
	return &Fallback{base: base, fallback: fallback, idleMicros: uint64(idle)}
}

// Generate implements Generator.
func (fb *Fallback) Generate(unixMicros uint64) (frame.Frame, bool) {
	if f, ok := fb.base.Generate(unixMicros); ok {
		fb.mu.Lock()
		t := unixMicros
		fb.lastRealFrameMicros = &t
		fb.mu.Unlock()
		return f, true
	}

	fb.mu.Lock()
	last := fb.lastRealFrameMicros
	fb.mu.Unlock()

	if last != nil {
		var elapsed uint64
		if unixMicros > *last {
			elapsed = unixMicros - *last
		}
		if elapsed < fb.idleMicros {
			return frame.Frame{}, false
		}
	}

	return fb.fallback.Generate(unixMicros)
}

var _ Generator = (*Fallback)(nil)
