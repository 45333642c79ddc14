package ledmatrix

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/frame"
	"github.com/rasgbd/rasgbd/internal/shutdown"
)

type fakeConn struct {
	mu     sync.Mutex
	width  uint32
	height uint32
	last   []frame.Pixel
	closed bool
}

func (c *fakeConn) Dimensions() (uint32, uint32) { return c.width, c.height }

func (c *fakeConn) SetPixels(pixels []frame.Pixel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = append([]frame.Pixel(nil), pixels...)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) lastPixels() []frame.Pixel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func TestNewReportsDimensionsFromPanelConn(t *testing.T) {
	conn := &fakeConn{width: 4, height: 2}
	token := shutdown.New(context.Background())
	defer token.Cancel()

	d, err := New(token, Options{PanelColumns: 4, PanelRows: 2}, func(Options) (PanelConn, error) {
		return conn, nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dims := d.Dimensions()
	if dims.Width != 4 || dims.Height != 2 {
		t.Fatalf("expected dimensions 4x2, got %+v", dims)
	}
}

func TestNewPropagatesOpenError(t *testing.T) {
	token := shutdown.New(context.Background())
	defer token.Cancel()

	wantErr := errors.New("no such device")
	_, err := New(token, Options{}, func(Options) (PanelConn, error) {
		return nil, wantErr
	})
	if err == nil {
		t.Fatal("expected New to propagate the open error")
	}
}

func TestUpdatePixelsReachesPanelConn(t *testing.T) {
	conn := &fakeConn{width: 1, height: 1}
	token := shutdown.New(context.Background())
	defer token.Cancel()

	d, err := New(token, Options{}, func(Options) (PanelConn, error) {
		return conn, nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.UpdatePixels([]frame.Pixel{{R: 5, G: 6, B: 7}}); err != nil {
		t.Fatalf("UpdatePixels: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if got := conn.lastPixels(); len(got) == 1 && got[0].R == 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the worker goroutine to apply the pixels")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestUpdatePixelsRejectsDimensionMismatch(t *testing.T) {
	conn := &fakeConn{width: 2, height: 2}
	token := shutdown.New(context.Background())
	defer token.Cancel()

	d, err := New(token, Options{}, func(Options) (PanelConn, error) {
		return conn, nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.UpdatePixels([]frame.Pixel{{}}); err != display.ErrDimensionMismatch {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCloseClosesPanelConn(t *testing.T) {
	conn := &fakeConn{width: 1, height: 1}
	token := shutdown.New(context.Background())
	defer token.Cancel()

	d, err := New(token, Options{}, func(Options) (PanelConn, error) {
		return conn, nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	conn.mu.Lock()
	closed := conn.closed
	conn.mu.Unlock()
	if !closed {
		t.Fatal("expected panel connection to be closed")
	}
}
