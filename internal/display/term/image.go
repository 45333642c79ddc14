package term

import (
	"image"

	"github.com/rasgbd/rasgbd/internal/frame"
)

func newRGBA(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func pixelsToRGBA(pixels []frame.Pixel, width, height int) *image.RGBA {
	img := newRGBA(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			i := img.PixOffset(x, y)
			img.Pix[i] = p.R
			img.Pix[i+1] = p.G
			img.Pix[i+2] = p.B
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}

func rgbaToPixels(img *image.RGBA, width, height int) []frame.Pixel {
	out := make([]frame.Pixel, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			out[y*width+x] = frame.Pixel{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
		}
	}
	return out
}
