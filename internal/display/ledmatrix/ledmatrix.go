// Package ledmatrix implements the `rgb_led_matrix` Display driver: a
// worker goroutine that owns the physical panel connection and bridges it
// to the cooperative tick loop through a single-slot mailbox.
//
// Grounded on the Rust source's RgbLedMatrixDisplay
// (display/rgb_led_matrix/mod.rs): a dedicated thread constructs the
// matrix, reports its actual canvas dimensions back through a one-shot
// channel before New returns, then loops on a 250ms-timeout recv until
// cancelled. The bit-level panel protocol itself is out of scope here
// (replaced behind the abstract Display sink) — PanelConn plays the role
// conn/spi.Conn plays for devices/apa102.Dev: the concrete wire protocol
// is supplied by the caller, not by this package.
package ledmatrix

import (
	"fmt"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/display/slot"
	"github.com/rasgbd/rasgbd/internal/frame"
	"github.com/rasgbd/rasgbd/internal/shutdown"
)

// PanelConn is the hardware boundary: whatever drives the actual LED
// panel's data lines. SetPixels receives a full-panel, row-major RGB
// buffer; Close releases any held GPIO/SPI resources.
type PanelConn interface {
	Dimensions() (width, height uint32)
	SetPixels(pixels []frame.Pixel) error
	Close() error
}

// Options mirrors the rgb_led_matrix driver's TOML fields, applied
// functionally the way startup.rs's to_display builds LedMatrixOptions /
// LedRuntimeOptions.
type Options struct {
	PanelRows         uint32
	PanelColumns      uint32
	DaisyChains       uint32
	ParallelChains    uint32
	PixelMapperConfig string
	RowAddrType       uint32
	LedRgbSequence    string
	Multiplexing      uint32
	PanelType         string
	ScanMode          uint32
	HardwarePulsing   bool
	LimitRefresh      uint32
	PwmBits           uint8
	PwmDitherBits     uint32
	PwmLsbNanoseconds uint32
	GpioSlowdown      uint32
}

// OpenFunc constructs the PanelConn for the given Options. Supplied by the
// caller of rasgbd.Startup; this module ships no implementation, since the
// low-level panel protocol is out of its scope. cmd/rasgbd passes none, so
// the rgb_led_matrix driver fails at startup when run from it.
type OpenFunc func(Options) (PanelConn, error)

// Display is a worker-goroutine-backed Display over a PanelConn.
type Display struct {
	dims frame.Dimensions
	slot *slot.Slot[[]frame.Pixel]
	conn PanelConn
	done chan struct{}
}

// New spawns the worker goroutine, opens the panel connection via open,
// and blocks until the worker reports the panel's actual dimensions (as
// returned by PanelConn.Dimensions; opts is not consulted for them) through
// a one-shot handshake channel — mirroring dimension_sender/
// dimension_receiver in the Rust source.
func New(token *shutdown.Token, opts Options, open OpenFunc) (*Display, error) {
	dimCh := make(chan frame.Dimensions, 1)
	errCh := make(chan error, 1)

	d := &Display{
		slot: slot.New[[]frame.Pixel](),
		done: make(chan struct{}),
	}

	go func() {
		conn, err := open(opts)
		if err != nil {
			errCh <- fmt.Errorf("ledmatrix: opening panel connection: %w", err)
			return
		}
		w, h := conn.Dimensions()
		d.conn = conn
		dimCh <- frame.Dimensions{Width: w, Height: h}
		d.run(token)
	}()

	select {
	case dims := <-dimCh:
		d.dims = dims
		return d, nil
	case err := <-errCh:
		return nil, err
	}
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

// Close signals the worker goroutine to stop and releases the panel
// connection. Safe to call more than once.
func (d *Display) Close() error {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
	if d.conn != nil {
		return d.conn.Close()
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
		if err := d.conn.SetPixels(pixels); err != nil {
			// A single bad frame doesn't tear down the panel; the next
			// successful push will recover it.
			continue
		}
	}
}

var _ display.Display = (*Display)(nil)
