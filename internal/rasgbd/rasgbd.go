// Package rasgbd wires together the configured display, the generator
// stack, and the HTTP ingestion server into a runnable Context, and
// coordinates their shutdown.
//
// Grounded on the Rust source's startup.rs (the `startup` async fn
// building a RasGBContext) and context.rs (the struct it returns), with
// shutdown join logic adapted from experimental/cmd/periph-web/web.go's
// pattern of spawning `go func() { _ = s.server.Serve(s.ln) }()`,
// generalized with golang.org/x/sync/errgroup to join the tick loop and
// the HTTP server on the way down.
package rasgbd

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rasgbd/rasgbd/internal/config"
	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/display/fake"
	"github.com/rasgbd/rasgbd/internal/display/ledmatrix"
	"github.com/rasgbd/rasgbd/internal/display/pixelwin"
	"github.com/rasgbd/rasgbd/internal/display/term"
	"github.com/rasgbd/rasgbd/internal/filler"
	"github.com/rasgbd/rasgbd/internal/frame"
	"github.com/rasgbd/rasgbd/internal/generator"
	"github.com/rasgbd/rasgbd/internal/generator/queue"
	"github.com/rasgbd/rasgbd/internal/shutdown"
	"github.com/rasgbd/rasgbd/internal/tick"
	"github.com/rasgbd/rasgbd/internal/web"
)

var background = frame.Pixel{R: 0, G: 0, B: 0}

// Context bundles everything startup built: the composed generator stack,
// the display sink, the letterboxing filler, the HTTP ingestion server,
// the tick loop, and the shared shutdown token.
type Context struct {
	Config        config.Config
	Generator     generator.Generator
	Display       display.Display
	Filler        filler.Filler
	WebServer     *web.Server
	Tick          *tick.Loop
	ShutdownToken *shutdown.Token

	tickDone chan struct{}
}

// LedMatrixOpen is injected by the caller of Startup to supply the real
// panel-hardware binding for the rgb_led_matrix driver; the bit-level LED
// protocol itself is out of this module's scope, so Startup cannot default
// it to anything but an error. cmd/rasgbd passes nil.
type LedMatrixOpen = ledmatrix.OpenFunc

// Startup builds the display (driver-selected), the generator stack
// (queue -> fallback -> solid color), and the HTTP ingestion server, then
// returns a Context ready for Run.
func Startup(ctx context.Context, cfg config.Config, ledMatrixOpen LedMatrixOpen) (*Context, error) {
	token := shutdown.New(ctx)

	d, err := buildDisplay(token, cfg, ledMatrixOpen)
	if err != nil {
		return nil, fmt.Errorf("rasgbd: building display: %w", err)
	}
	dims := d.Dimensions()

	q := queue.New(queue.DefaultCapacity, cfg.Timing.IdleSeconds)
	solid := generator.NewSolidColor(background, dims.Width, dims.Height)
	idleDuration := time.Duration(cfg.ClampedIdleSeconds() * float64(time.Second))
	gen := generator.NewFallback(generator.Func(q.Generate), solid, idleDuration)

	f := filler.New(background)

	webServer, err := web.NewServer(web.Config{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
		Verbose: false,
	}, web.Control{
		DisplayWidth:  dims.Width,
		DisplayHeight: dims.Height,
		DisplayFPS:    cfg.Display.FPS,
		OnFrameReceived: func(channel int8, unixMicros uint64, fr frame.Frame) error {
			if fr.Width() > dims.Width || fr.Height() > dims.Height {
				return fmt.Errorf("frame %dx%d exceeds panel %dx%d", fr.Width(), fr.Height(), dims.Width, dims.Height)
			}
			q.AddFrame(channel, unixMicros, fr)
			return nil
		},
		OnFrameSupersededCheck: q.IsFrameSuperseded,
	})
	if err != nil {
		_ = d.Close()
		token.Cancel()
		return nil, fmt.Errorf("rasgbd: starting web server: %w", err)
	}

	loop := tick.New(gen, f, d, cfg.Display.FPS)

	return &Context{
		Config:        cfg,
		Generator:     gen,
		Display:       d,
		Filler:        f,
		WebServer:     webServer,
		Tick:          loop,
		ShutdownToken: token,
		tickDone:      make(chan struct{}),
	}, nil
}

// Run drives the tick loop until the shutdown token is cancelled. It
// blocks; cmd/rasgbd runs it on its own goroutine while main waits for a
// shutdown signal.
func (c *Context) Run() {
	defer close(c.tickDone)
	c.Tick.Run(c.ShutdownToken)
}

// Shutdown cancels the shared token, waits for the HTTP server to drain
// in-flight requests and the tick loop to observe cancellation, then
// closes the display. The join is unconditional: a failure on any one leg
// does not abort the others. The first error is returned; a display close
// failure is also logged.
func (c *Context) Shutdown(ctx context.Context) error {
	c.ShutdownToken.Cancel()

	var g errgroup.Group
	g.Go(func() error {
		return c.WebServer.Close(ctx)
	})
	g.Go(func() error {
		select {
		case <-c.tickDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	err := g.Wait()
	if closeErr := c.Display.Close(); closeErr != nil {
		log.Printf("rasgbd: closing display: %v", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	return err
}

func buildDisplay(token *shutdown.Token, cfg config.Config, ledMatrixOpen LedMatrixOpen) (display.Display, error) {
	drv := cfg.Display.Driver
	switch drv.Kind {
	case config.DriverFake:
		return fake.New(drv.Width, drv.Height), nil
	case config.DriverWinitPixels:
		return pixelwin.New(drv.Width, drv.Height, "rasgbd")
	case config.DriverRatatui:
		return term.New(token)
	case config.DriverRgbLedMatrix:
		if ledMatrixOpen == nil {
			return nil, fmt.Errorf("rasgbd: driver %q configured but no panel connection was supplied", config.DriverRgbLedMatrix)
		}
		return ledmatrix.New(token, ledmatrix.Options{
			PanelRows:         drv.PanelRows,
			PanelColumns:      drv.PanelColumns,
			DaisyChains:       drv.DaisyChains,
			ParallelChains:    drv.ParallelChains,
			PixelMapperConfig: drv.PixelMapperConfig,
			RowAddrType:       drv.RowAddrType,
			LedRgbSequence:    drv.LedRgbSequence,
			Multiplexing:      drv.Multiplexing,
			PanelType:         drv.PanelType,
			ScanMode:          drv.ScanMode,
			HardwarePulsing:   drv.HardwarePulsing,
			LimitRefresh:      drv.LimitRefresh,
			PwmBits:           drv.PwmBits,
			PwmDitherBits:     drv.PwmDitherBits,
			PwmLsbNanoseconds: drv.PwmLsbNanoseconds,
			GpioSlowdown:      drv.GpioSlowdown,
		}, ledMatrixOpen)
	default:
		return nil, fmt.Errorf("rasgbd: unrecognized driver kind %q", drv.Kind)
	}
}
