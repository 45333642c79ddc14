// Package pixelwin implements the windowed Display driver (`winit_pixels`
// in config) as an Ebiten game: a window whose Draw blits the latest pixel
// buffer, generalizing video_backend_ebiten.go's texture-upload loop from
// a CPU/chip video feed to raw RGB frame buffers submitted over HTTP.
package pixelwin

import (
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/display/slot"
	"github.com/rasgbd/rasgbd/internal/frame"
)

// Display is an Ebiten-backed windowed Display. UpdatePixels hands a frame
// off to a single-slot mailbox; Draw (run on Ebiten's own goroutine) drains
// it at the window's own refresh cadence.
type Display struct {
	dims   frame.Dimensions
	slot   *slot.Slot[[]byte]
	window *ebiten.Image
	closed atomic.Bool
}

// New opens a window of the given size and starts the Ebiten run loop on a
// background goroutine. It returns once the loop has been launched;
// Ebiten's own event loop owns the OS window thereafter.
func New(width, height uint32, title string) (*Display, error) {
	d := &Display{
		dims: frame.Dimensions{Width: width, Height: height},
		slot: slot.New[[]byte](),
	}

	ebiten.SetWindowSize(int(width), int(height))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(false)
	ebiten.SetRunnableOnUnfocused(true)

	go func() {
		if err := ebiten.RunGame(d); err != nil {
			// RunGame returns when Update signals ebiten.Termination
			// (the expected Close path) or on an unrecoverable windowing
			// error; either way there is no goroutine left to report to.
			_ = err
		}
	}()

	return d, nil
}

// Dimensions implements display.Display.
func (d *Display) Dimensions() frame.Dimensions {
	return d.dims
}

// UpdatePixels implements display.Display. It converts the row-major RGB
// pixel slice to Ebiten's RGBA byte layout and deposits it in the mailbox;
// Draw picks it up on the next window refresh.
func (d *Display) UpdatePixels(pixels []frame.Pixel) error {
	if uint32(len(pixels)) != d.dims.Width*d.dims.Height {
		return display.ErrDimensionMismatch
	}
	buf := make([]byte, len(pixels)*4)
	for i, p := range pixels {
		buf[i*4] = p.R
		buf[i*4+1] = p.G
		buf[i*4+2] = p.B
		buf[i*4+3] = 0xFF
	}
	d.slot.Send(buf)
	return nil
}

// Close signals the Ebiten run loop to terminate on its next Update.
func (d *Display) Close() error {
	d.closed.Store(true)
	return nil
}

// Update implements ebiten.Game.
func (d *Display) Update() error {
	if d.closed.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (d *Display) Draw(screen *ebiten.Image) {
	if d.window == nil {
		d.window = ebiten.NewImage(int(d.dims.Width), int(d.dims.Height))
	}
	if buf, ok := d.slot.TryRecv(); ok {
		d.window.WritePixels(buf)
	}
	screen.DrawImage(d.window, nil)
}

// Layout implements ebiten.Game.
func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(d.dims.Width), int(d.dims.Height)
}

var _ display.Display = (*Display)(nil)
var _ ebiten.Game = (*Display)(nil)
