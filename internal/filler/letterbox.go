// Package filler places a Frame onto a Display's panel, centering
// undersized frames with background padding (letterboxing).
//
// Grounded on the Rust source's LetterboxingDisplayFiller and, at the
// interface level, on conn/display.Drawer.Draw's contract (dst/src
// rectangle alignment against a fixed-size output device) — generalized
// here from partial pixel-exact compositing to a single full-buffer
// fill, since rasgbd has no concept of a dirty-rectangle update.
package filler

import (
	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/frame"
)

// Filler pushes a Frame to a Display, centering it when smaller than the
// panel.
type Filler interface {
	PushToDisplay(f frame.Frame, d display.Display) error
}

// LetterboxFiller centers frames smaller than the panel, padding with a
// fixed background color. Frames larger than the panel are rejected with
// display.ErrFrameTooLarge.
type LetterboxFiller struct {
	background frame.Pixel
}

// New returns a LetterboxFiller using background for padding.
func New(background frame.Pixel) *LetterboxFiller {
	return &LetterboxFiller{background: background}
}

// PushToDisplay implements Filler.
func (lf *LetterboxFiller) PushToDisplay(f frame.Frame, d display.Display) error {
	dims := d.Dimensions()
	if f.Width() > dims.Width || f.Height() > dims.Height {
		return display.ErrFrameTooLarge
	}

	paddingTop := (dims.Height - f.Height()) / 2
	paddingBottom := dims.Height - f.Height() - paddingTop
	paddingLeft := (dims.Width - f.Width()) / 2
	paddingRight := dims.Width - f.Width() - paddingLeft

	out := make([]frame.Pixel, 0, dims.Width*dims.Height)
	for i := uint32(0); i < paddingTop*dims.Width; i++ {
		out = append(out, lf.background)
	}

	src := f.Pixels()
	for row := uint32(0); row < f.Height(); row++ {
		for i := uint32(0); i < paddingLeft; i++ {
			out = append(out, lf.background)
		}
		start := row * f.Width()
		out = append(out, src[start:start+f.Width()]...)
		for i := uint32(0); i < paddingRight; i++ {
			out = append(out, lf.background)
		}
	}

	for i := uint32(0); i < paddingBottom*dims.Width; i++ {
		out = append(out, lf.background)
	}

	return d.UpdatePixels(out)
}

var _ Filler = (*LetterboxFiller)(nil)
