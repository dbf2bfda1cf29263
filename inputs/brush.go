package inputs

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
)

// DefaultBrushSize is the edge length of the generated brush.
const DefaultBrushSize = 256

// DefaultBrush generates a white soft-edged disc: opaque in the centre,
// fading to fully transparent well before the edges.
func DefaultBrush(size int) *image.RGBA {
	if size < 8 {
		size = 8
	}
	disc := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r := float64(size) * 0.3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			dy := float64(y) + 0.5 - c
			if dx*dx+dy*dy <= r*r {
				disc.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return blur.Gaussian(disc, float64(size)*0.06)
}

// Resize scales img to width×height with linear filtering.
func Resize(img image.Image, width, height int) *image.RGBA {
	return transform.Resize(img, width, height, transform.Linear)
}
