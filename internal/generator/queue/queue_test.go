package queue

import (
	"testing"

	"github.com/rasgbd/rasgbd/internal/frame"
)

func px(v uint8) frame.Frame {
	f, err := frame.New(1, 1, []frame.Pixel{{R: v}})
	if err != nil {
		panic(err)
	}
	return f
}

func TestBasicOrderedDispatch(t *testing.T) {
	q := New(2500, 1.0)
	fa, fb := px(1), px(2)
	q.AddFrame(0, 100, fa)
	q.AddFrame(0, 200, fb)

	got, ok := q.Generate(150)
	if !ok || got.Pixels()[0].R != 1 {
		t.Fatalf("expected Fa at t=150, got %+v ok=%v", got, ok)
	}

	got, ok = q.Generate(250)
	if !ok || got.Pixels()[0].R != 2 {
		t.Fatalf("expected Fb at t=250, got %+v ok=%v", got, ok)
	}

	_, ok = q.Generate(300)
	if ok {
		t.Fatal("expected no frame at t=300, queue should be drained")
	}
}

func TestShadowingWithinPass(t *testing.T) {
	q := New(2500, 1.0)
	f1, f0 := px(1), px(0)
	q.AddFrame(1, 100, f1)
	q.AddFrame(0, 150, f0)

	got, ok := q.Generate(200)
	if !ok || got.Pixels()[0].R != 1 {
		t.Fatalf("expected F1 to win shadowing, got %+v ok=%v", got, ok)
	}
	if _, ok := q.Generate(200); ok {
		t.Fatal("expected both entries consumed by the first pass")
	}
}

func TestSupersessionProbe(t *testing.T) {
	q := New(2500, 1.0)
	q.AddFrame(1, 100, px(9))

	if !q.IsFrameSuperseded(0, 100) {
		t.Fatal("expected superseded at t=100")
	}
	if q.IsFrameSuperseded(0, 50) {
		t.Fatal("expected not superseded at t=50 (entry is in the future)")
	}
	if q.IsFrameSuperseded(0, 1_001_000) {
		t.Fatal("expected not superseded once outside the idle window")
	}
	if q.IsFrameSuperseded(1, 150) {
		t.Fatal("expected not superseded for an equal-or-higher channel")
	}
}

func TestCapacityEvictsLatestTimeFirst(t *testing.T) {
	q := New(2, 1.0)
	q.AddFrame(0, 100, px(1))
	q.AddFrame(0, 300, px(3))
	q.AddFrame(0, 200, px(2)) // should evict the t=300 entry, not t=100

	if q.Len() != 2 {
		t.Fatalf("expected capacity bound of 2, got %d", q.Len())
	}

	got, ok := q.Generate(100)
	if !ok || got.Pixels()[0].R != 1 {
		t.Fatalf("expected t=100 entry to survive eviction, got %+v ok=%v", got, ok)
	}
	got, ok = q.Generate(200)
	if !ok || got.Pixels()[0].R != 2 {
		t.Fatalf("expected t=200 entry to survive eviction, got %+v ok=%v", got, ok)
	}
}

func TestCollisionHigherChannelWins(t *testing.T) {
	q := New(2500, 1.0)
	q.AddFrame(0, 100, px(1))
	q.AddFrame(5, 100, px(2))
	q.AddFrame(1, 100, px(3)) // lower channel than stored (5); must not replace

	got, ok := q.Generate(100)
	if !ok || got.Pixels()[0].R != 2 {
		t.Fatalf("expected higher-channel entry to survive collision, got %+v ok=%v", got, ok)
	}
}

func TestCollisionEqualChannelLaterWins(t *testing.T) {
	q := New(2500, 1.0)
	q.AddFrame(0, 100, px(1))
	q.AddFrame(0, 100, px(2))

	got, ok := q.Generate(100)
	if !ok || got.Pixels()[0].R != 2 {
		t.Fatalf("expected later same-channel insertion to win, got %+v ok=%v", got, ok)
	}
}

func TestGenerateLeavesFutureEntriesQueued(t *testing.T) {
	q := New(2500, 1.0)
	q.AddFrame(0, 500, px(1))

	_, ok := q.Generate(100)
	if ok {
		t.Fatal("expected no frame due yet")
	}
	if q.Len() != 1 {
		t.Fatalf("expected future entry to remain queued, Len=%d", q.Len())
	}
}

func TestLastServedUpdatesOnlyOnWin(t *testing.T) {
	q := New(2500, 1.0)
	_, ok := q.Generate(100)
	if ok {
		t.Fatal("expected no frame from an empty queue")
	}
	if q.lastServed != nil {
		t.Fatalf("expected lastServed to stay unset after a pass with no winner, got %+v", *q.lastServed)
	}
	q.AddFrame(0, 50, px(1))
	got, ok := q.Generate(100)
	if !ok || got.Pixels()[0].R != 1 {
		t.Fatal("expected the queued frame to be served")
	}
	if q.lastServed == nil || *q.lastServed != (served{channel: 0, unixMicros: 50}) {
		t.Fatalf("expected lastServed=(0, 50) after the win, got %+v", q.lastServed)
	}
}
