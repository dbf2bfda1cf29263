package renderer

import (
	"testing"

	"github.com/richinsley/golens/lens"
	"github.com/stretchr/testify/assert"
)

func TestViewportRectFlipsY(t *testing.T) {
	r := lens.Rect{Left: 10, Top: 20, Width: 100, Height: 50}
	x, y, w, h := viewportRect(r, 200, 100, 200, 100)
	assert.Equal(t, []int32{10, 30, 100, 50}, []int32{x, y, w, h})
}

func TestViewportRectContentScale(t *testing.T) {
	r := lens.Rect{Left: 10, Top: 20, Width: 100, Height: 50}
	x, y, w, h := viewportRect(r, 200, 100, 400, 200)
	assert.Equal(t, []int32{20, 60, 200, 100}, []int32{x, y, w, h})
}

func TestViewportRectScrolledOff(t *testing.T) {
	// mount scrolled above the window keeps its size; GL clips it
	r := lens.Rect{Left: 0, Top: -80, Width: 200, Height: 100}
	x, y, w, h := viewportRect(r, 200, 100, 200, 100)
	assert.Equal(t, []int32{0, 80, 200, 100}, []int32{x, y, w, h})
}

func TestFixedTarget(t *testing.T) {
	target := FixedTarget{Width: 64, Height: 32}
	w, h := target.GetWindowSize()
	fw, fh := target.GetFramebufferSize()
	assert.Equal(t, []int{64, 32, 64, 32}, []int{w, h, fw, fh})
}
