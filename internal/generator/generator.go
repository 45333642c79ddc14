// Package generator defines the Generator interface that resolves which
// frame, if any, is due at a given timestamp, and the composable
// implementations (solid color, fallback) that sit above the scheduling
// queue in internal/generator/queue.
package generator

import "github.com/rasgbd/rasgbd/internal/frame"

// Generator produces the frame due at a given timestamp, if any. The bool
// return mirrors the Rust source's Option<Frame>: false means "nothing due
// at this instant; presentation policy decides."
//
// A Generator may mutate internal scheduling state but must appear pure
// from the caller's perspective.
type Generator interface {
	Generate(unixMicros uint64) (frame.Frame, bool)
}

// Func adapts a plain function to the Generator interface.
type Func func(unixMicros uint64) (frame.Frame, bool)

// Generate implements Generator.
func (f Func) Generate(unixMicros uint64) (frame.Frame, bool) { return f(unixMicros) }
