// Package term implements the terminal Display driver (`ratatui` in
// config): an ANSI truecolor renderer that packs two vertical source
// pixels into one character cell using the upper-half-block trick (glyph
// foreground = top pixel, background = bottom pixel), doubling vertical
// resolution per row of terminal text.
//
// Grounded on terminal_host.go's golang.org/x/term usage (raw mode via
// term.MakeRaw/term.Restore), paired with the same worker-goroutine /
// single-slot handoff shape that internal/display/ledmatrix uses to bridge
// the cooperative tick loop to a blocking resource (here, stdout).
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"

	xterm "golang.org/x/term"
	"golang.org/x/image/draw"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/display/slot"
	"github.com/rasgbd/rasgbd/internal/frame"
	"github.com/rasgbd/rasgbd/internal/shutdown"
)

// Display renders frames to a terminal via ANSI truecolor escape
// sequences. Its Dimensions are discovered once, at construction, from the
// controlling terminal's character grid.
type Display struct {
	dims     frame.Dimensions
	out      io.Writer
	fd       int
	oldState *xterm.State
	slot     *slot.Slot[[]frame.Pixel]
	done     chan struct{}
}

// New discovers the terminal's current size, puts it into raw/alt-screen
// mode, and starts a worker goroutine that drains the mailbox and writes
// ANSI frames until token is cancelled.
func New(token *shutdown.Token) (*Display, error) {
	fd := int(os.Stdout.Fd())
	cols, rows, err := xterm.GetSize(fd)
	if err != nil {
		return nil, fmt.Errorf("term: discovering terminal size: %w", err)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("term: terminal reported non-positive size %dx%d", cols, rows)
	}

	oldState, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("term: entering raw mode: %w", err)
	}

	d := &Display{
		dims:     frame.Dimensions{Width: uint32(cols), Height: uint32(rows) * 2},
		out:      bufio.NewWriter(os.Stdout),
		fd:       fd,
		oldState: oldState,
		slot:     slot.New[[]frame.Pixel](),
		done:     make(chan struct{}),
	}

	fmt.Fprint(os.Stdout, "\x1b[?25l\x1b[?1049h") // hide cursor, enter alt screen

	go d.run(token)

	return d, nil
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
	d.slot.Send(pixels)
	return nil
}

// Close signals the worker goroutine to stop and restores the terminal to
// its original state. It does not wait for the worker to exit; the worker
// notices the signal within shutdown.PollInterval. Calls after the first
// are no-ops.
func (d *Display) Close() error {
	select {
	case <-d.done:
		return nil
	default:
		close(d.done)
	}
	fmt.Fprint(os.Stdout, "\x1b[?1049l\x1b[?25h") // leave alt screen, show cursor
	if bw, ok := d.out.(*bufio.Writer); ok {
		_ = bw.Flush()
	}
	if d.oldState != nil {
		return xterm.Restore(d.fd, d.oldState)
	}
	return nil
}

func (d *Display) run(token *shutdown.Token) {
	for {
		select {
		case <-d.done:
			return
		case <-token.Done():
			return
		default:
		}

		pixels, ok := d.slot.RecvTimeout(shutdown.PollInterval)
		if !ok {
			continue
		}
		d.render(pixels)
	}
}

// render normalizes an odd height to even with a bilinear resample (so
// every source row pairs cleanly into a half-block cell) and writes one
// ANSI truecolor line per terminal row.
func (d *Display) render(pixels []frame.Pixel) {
	width, height := int(d.dims.Width), int(d.dims.Height)
	if height%2 != 0 {
		pixels = resampleEvenHeight(pixels, width, height)
		height++
	}

	var buf []byte
	buf = append(buf, "\x1b[H"...) // cursor home
	for row := 0; row < height; row += 2 {
		for col := 0; col < width; col++ {
			top := pixels[row*width+col]
			bottom := pixels[(row+1)*width+col]
			buf = append(buf, fmt.Sprintf(
				"\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)...)
		}
		buf = append(buf, "\x1b[0m\r\n"...)
	}
	if _, err := d.out.Write(buf); err == nil {
		if bw, ok := d.out.(*bufio.Writer); ok {
			_ = bw.Flush()
		}
	}
}

// resampleEvenHeight scales a width x height RGB buffer to width x
// (height+1) using golang.org/x/image/draw's bilinear resampler, padding
// a non-evenly-divisible panel height so the half-block row pairing below
// never reads out of bounds.
func resampleEvenHeight(pixels []frame.Pixel, width, height int) []frame.Pixel {
	src := pixelsToRGBA(pixels, width, height)
	dstHeight := height + 1
	dst := newRGBA(width, dstHeight)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return rgbaToPixels(dst, width, dstHeight)
}

var _ display.Display = (*Display)(nil)
