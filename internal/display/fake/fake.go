// Package fake provides an in-memory Display, used both as the configured
// `fake` driver and as a test double for anything that needs a Display.
//
// Grounded on the Rust source's FakeDisplay (a RefCell<Vec<Pixel>> behind
// the Display trait): no threads, no hardware, just a buffer you can read
// back for assertions.
package fake

import (
	"sync"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/frame"
)

// Display is an in-memory Display that records the last pushed buffer.
type Display struct {
	mu   sync.Mutex
	dims frame.Dimensions
	data []frame.Pixel
}

// New returns a Display with the given fixed panel dimensions.
func New(width, height uint32) *Display {
	return &Display{dims: frame.Dimensions{Width: width, Height: height}}
}

// Dimensions implements display.Display.
func (d *Display) Dimensions() frame.Dimensions {
	return d.dims
}

// UpdatePixels implements display.Display.
func (d *Display) UpdatePixels(pixels []frame.Pixel) error {
	if uint32(len(pixels)) != d.dims.Width*d.dims.Height {
		return display.ErrDimensionMismatch
	}
	d.mu.Lock()
	d.data = append(d.data[:0:0], pixels...)
	d.mu.Unlock()
	return nil
}

// Close implements display.Display. It is a no-op.
func (d *Display) Close() error { return nil }

// LastFrame returns a copy of the most recently pushed buffer, or nil if
// none has been pushed yet.
func (d *Display) LastFrame() []frame.Pixel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]frame.Pixel(nil), d.data...)
}

var _ display.Display = (*Display)(nil)
