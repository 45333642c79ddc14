package generator

import "github.com/rasgbd/rasgbd/internal/frame"

// SolidColor is a Generator that returns the same full-panel frame on every
// query. Immutable after construction; grounded on the Rust source's
// SolidColorFrameGenerator.
type SolidColor struct {
	f frame.Frame
}

// NewSolidColor builds a SolidColor generator of the given color and
// dimensions.
func NewSolidColor(color frame.Pixel, width, height uint32) *SolidColor {
	px := make([]frame.Pixel, width*height)
	for i := range px {
		px[i] = color
	}
	f, err := frame.New(width, height, px)
	if err != nil {
		// width*height always matches len(px) by construction above.
		panic(err)
	}
	return &SolidColor{f: f}
}

// Generate implements Generator. It always returns the configured frame.
func (s *SolidColor) Generate(unixMicros uint64) (frame.Frame, bool) {
	return s.f, true
}

var _ Generator = (*SolidColor)(nil)
