package generator

import (
	"testing"
	"time"

	"github.com/rasgbd/rasgbd/internal/frame"
)

func onePixelFrame(v uint8) frame.Frame {
	f, err := frame.New(1, 1, []frame.Pixel{{R: v}})
	if err != nil {
		panic(err)
	}
	return f
}

func TestFallbackPassesThroughBase(t *testing.T) {
	base := Func(func(t uint64) (frame.Frame, bool) { return onePixelFrame(1), true })
	fb := NewFallback(base, NewSolidColor(frame.Pixel{R: 2}, 1, 1), time.Second)

	f, ok := fb.Generate(100)
	if !ok || f.Pixels()[0].R != 1 {
		t.Fatalf("expected base frame, got %+v ok=%v", f, ok)
	}
}

func TestFallbackGracePeriodSuppressesFallback(t *testing.T) {
	emitted := true
	base := Func(func(t uint64) (frame.Frame, bool) {
		if emitted {
			emitted = false
			return onePixelFrame(1), true
		}
		return frame.Frame{}, false
	})
	fb := NewFallback(base, NewSolidColor(frame.Pixel{R: 2}, 1, 1), 5*time.Second)

	fb.Generate(1_000_000) // base yields, sets last real frame to 1_000_000
	_, ok := fb.Generate(2_000_000)
	if ok {
		t.Fatal("expected grace period to suppress output (nil/no refresh)")
	}
}

func TestFallbackTakesOverAfterIdle(t *testing.T) {
	emitted := true
	base := Func(func(t uint64) (frame.Frame, bool) {
		if emitted {
			emitted = false
			return onePixelFrame(1), true
		}
		return frame.Frame{}, false
	})
	fb := NewFallback(base, NewSolidColor(frame.Pixel{R: 2}, 1, 1), 5*time.Second)

	fb.Generate(1_000_000)
	f, ok := fb.Generate(6_000_001)
	if !ok || f.Pixels()[0].R != 2 {
		t.Fatalf("expected fallback frame after idle, got %+v ok=%v", f, ok)
	}
}

func TestFallbackSaturatesOnClockStepBackward(t *testing.T) {
	base := Func(func(t uint64) (frame.Frame, bool) {
		if t == 10 {
			return onePixelFrame(1), true
		}
		return frame.Frame{}, false
	})
	fb := NewFallback(base, NewSolidColor(frame.Pixel{R: 2}, 1, 1), time.Second)

	fb.Generate(10) // sets last real frame to 10
	// Clock steps backward to 5: elapsed should clamp to 0, not underflow.
	_, ok := fb.Generate(5)
	if ok {
		t.Fatal("expected clamp to 'not idle' on clock step backward, got fallback output")
	}
}
