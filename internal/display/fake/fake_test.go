package fake

import (
	"testing"

	"github.com/rasgbd/rasgbd/internal/display"
	"github.com/rasgbd/rasgbd/internal/frame"
)

func TestUpdatePixelsRejectsWrongLength(t *testing.T) {
	d := New(2, 2)
	if err := d.UpdatePixels(make([]frame.Pixel, 3)); err != display.ErrDimensionMismatch {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestUpdatePixelsStoresBuffer(t *testing.T) {
	d := New(1, 2)
	px := []frame.Pixel{{1, 2, 3}, {4, 5, 6}}
	if err := d.UpdatePixels(px); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := d.LastFrame()
	if len(last) != 2 || last[0] != px[0] || last[1] != px[1] {
		t.Fatalf("unexpected stored frame: %+v", last)
	}
}

func TestDimensionsFixed(t *testing.T) {
	d := New(5, 7)
	if d.Dimensions() != (frame.Dimensions{Width: 5, Height: 7}) {
		t.Fatalf("unexpected dimensions: %+v", d.Dimensions())
	}
}
