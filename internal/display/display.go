// Package display defines the abstract pixel sink that every driver
// (windowed, terminal, LED matrix, or fake) implements, and that the tick
// loop and letterboxing filler are written against.
package display

import (
	"errors"

	"github.com/rasgbd/rasgbd/internal/frame"
)

// ErrDimensionMismatch is returned by UpdatePixels when the supplied pixel
// slice length does not equal Width*Height.
var ErrDimensionMismatch = errors.New("display: pixel count does not match panel dimensions")

// ErrFrameTooLarge is returned by a filler when the source frame does not
// fit within the display's panel. It is fatal for that one frame but never
// tears down the tick loop.
var ErrFrameTooLarge = errors.New("display: frame exceeds panel dimensions")

// Display is the abstract output sink: a fixed-size panel that accepts full
// pixel buffers. Implementations may hand work off to a worker goroutine,
// but UpdatePixels must return without blocking the caller for more than
// one tick period.
type Display interface {
	// Dimensions returns the panel's fixed width and height. It does not
	// change over the lifetime of the Display.
	Dimensions() frame.Dimensions

	// UpdatePixels pushes a full-panel buffer. len(pixels) must equal
	// Width*Height or ErrDimensionMismatch is returned. Safe to call at
	// arbitrary rates, including faster than the panel can refresh.
	UpdatePixels(pixels []frame.Pixel) error

	// Close releases any resources (worker goroutines, open devices) held
	// by the display. It is safe to call more than once.
	Close() error
}
