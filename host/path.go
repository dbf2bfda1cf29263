package host

import (
	"math"

	"github.com/richinsley/golens/lens"
)

// PointerPath is the scripted cursor used when recording: a slow Lissajous
// figure around the mount centre that leaves the mount at its horizontal
// extremes, so the brush both follows and collapses.
func PointerPath(t float64, r lens.Rect) (x, y float64) {
	cx := r.Left + r.Width/2
	cy := r.Top + r.Height/2
	x = cx + 0.65*r.Width*math.Sin(t*0.9)
	y = cy + 0.35*r.Height*math.Sin(t*1.7)
	return x, y
}
