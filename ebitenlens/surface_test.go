package ebitenlens

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/richinsley/golens/lens"
	"github.com/stretchr/testify/assert"
)

func TestSetQuad(t *testing.T) {
	var v [4]ebiten.Vertex
	setQuad(&v, lens.Rect{Left: 10, Top: 20, Width: 100, Height: 50}, image.Rect(0, 0, 640, 480))

	assert.Equal(t, float32(10), v[0].DstX)
	assert.Equal(t, float32(20), v[0].DstY)
	assert.Equal(t, float32(110), v[2].DstX)
	assert.Equal(t, float32(70), v[2].DstY)
	assert.Equal(t, float32(640), v[2].SrcX)
	assert.Equal(t, float32(480), v[2].SrcY)
	assert.Equal(t, float32(0), v[3].SrcX)
	assert.Equal(t, float32(480), v[3].SrcY)
	for _, vx := range v {
		assert.Equal(t, float32(1), vx.ColorA)
	}
}

func TestSetUniforms(t *testing.T) {
	m := map[string]any{}
	setUniforms(m, &lens.Uniforms{
		Mouse:     mgl32.Vec2{0.25, 0.75},
		Radius:    0.15,
		Time:      2,
		BrushWarp: 0.1,
		UVScale:   mgl32.Vec2{1, 0.5},
		UVOffset:  mgl32.Vec2{0, 0.25},
	})
	assert.Equal(t, []float32{0.25, 0.75}, m["Mouse"])
	assert.Equal(t, float32(0.15), m["Radius"])
	assert.Equal(t, float32(2), m["Time"])
	assert.Equal(t, float32(0.1), m["BrushWarp"])
	assert.Equal(t, []float32{1, 0.5}, m["UVScale"])
	assert.Equal(t, []float32{0, 0.25}, m["UVOffset"])
}
