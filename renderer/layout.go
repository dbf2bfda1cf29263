package renderer

import (
	"math"

	"github.com/richinsley/golens/lens"
)

// Target is the framebuffer a surface draws into, with the window size used
// to scale mount coordinates to pixels.
type Target interface {
	GetFramebufferSize() (int, int)
	GetWindowSize() (int, int)
}

// FixedTarget is a Target whose window units are framebuffer pixels, used
// for offscreen rendering.
type FixedTarget struct {
	Width, Height int
}

func (t FixedTarget) GetFramebufferSize() (int, int) { return t.Width, t.Height }
func (t FixedTarget) GetWindowSize() (int, int)      { return t.Width, t.Height }

// viewportRect converts a mount rectangle in window units (origin top-left)
// into a GL viewport in framebuffer pixels (origin bottom-left).
func viewportRect(r lens.Rect, winW, winH, fbW, fbH int) (x, y, w, h int32) {
	sx, sy := 1.0, 1.0
	if winW > 0 && winH > 0 {
		sx = float64(fbW) / float64(winW)
		sy = float64(fbH) / float64(winH)
	}
	left := math.Round(r.Left * sx)
	top := math.Round(r.Top * sy)
	width := math.Round(r.Width * sx)
	height := math.Round(r.Height * sy)
	return int32(left), int32(float64(fbH) - top - height), int32(width), int32(height)
}
