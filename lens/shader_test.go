package lens

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSampler returns the same colour everywhere and records the last lookup.
type constSampler struct {
	c    mgl32.Vec4
	last mgl32.Vec2
	hits int
}

func (s *constSampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	s.last = uv
	s.hits++
	return s.c
}

// uvSampler encodes the lookup coordinate in the red and green channels.
type uvSampler struct{}

func (uvSampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	return mgl32.Vec4{uv[0], uv[1], 0, 1}
}

func TestBrushStrengthFalloff(t *testing.T) {
	assert.Equal(t, float32(0), BrushStrength(0))
	assert.InDelta(t, 0.1768, BrushStrength(0.5), 1e-4)
	assert.Equal(t, float32(1), BrushStrength(1))
	assert.Less(t, BrushStrength(0.5), float32(0.5))
}

func TestBrushUV(t *testing.T) {
	uv, ok := BrushUV(mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{0.5, 0.5}, 0.15)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{0.5, 0.5}, uv)

	uv, ok = BrushUV(mgl32.Vec2{0.65, 0.35}, mgl32.Vec2{0.5, 0.5}, 0.15)
	require.True(t, ok)
	assert.InDelta(t, 1.5, uv[0], 1e-5)
	assert.InDelta(t, -0.5, uv[1], 1e-5)

	_, ok = BrushUV(mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{0.5, 0.5}, 0)
	assert.False(t, ok)
}

func TestBaseWarp(t *testing.T) {
	w := BaseWarp(mgl32.Vec2{0, 0}, 0)
	assert.InDelta(t, 0, w[0], 1e-7)
	assert.InDelta(t, 0.01, w[1], 1e-7)

	w = BaseWarp(mgl32.Vec2{0.3, 0.7}, 2)
	assert.InDelta(t, 0.01*math32.Sin(7+1.5), w[0], 1e-6)
	assert.InDelta(t, 0.01*math32.Cos(3-1.5), w[1], 1e-6)
}

func TestBrushWarpScalesWithStrength(t *testing.T) {
	uv := mgl32.Vec2{0.2, 0.4}
	assert.Equal(t, mgl32.Vec2{0, 0}, BrushWarp(uv, 1, 0, 0.1))

	full := BrushWarp(uv, 1, 1, 0.1)
	assert.InDelta(t, 0.1*math32.Sin(8+2), full[0], 1e-6)
	assert.InDelta(t, 0.1*math32.Sin(8-2), full[1], 1e-6)

	half := BrushWarp(uv, 1, 0.5, 0.1)
	assert.InDelta(t, full[0]/2, half[0], 1e-6)
}

func TestWarpUVSkipsBrushWithoutRadius(t *testing.T) {
	brush := &constSampler{c: mgl32.Vec4{1, 1, 1, 1}}
	u := &Uniforms{Mouse: mgl32.Vec2{0.5, 0.5}, Time: 1, BrushWarp: 0.1, UVScale: mgl32.Vec2{1, 1}}
	uv := mgl32.Vec2{0.5, 0.5}

	got := WarpUV(uv, u, brush)
	assert.Zero(t, brush.hits)
	want := uv.Add(BaseWarp(uv, 1))
	assert.InDelta(t, want[0], got[0], 1e-6)
	assert.InDelta(t, want[1], got[1], 1e-6)

	u.Radius = 0.15
	got = WarpUV(uv, u, brush)
	assert.Equal(t, 1, brush.hits)
	want = want.Add(BrushWarp(uv, 1, 1, 0.1))
	assert.InDelta(t, want[0], got[0], 1e-6)
	assert.InDelta(t, want[1], got[1], 1e-6)
}

func TestWarpUVAppliesFraming(t *testing.T) {
	brush := &constSampler{}
	u := &Uniforms{UVScale: mgl32.Vec2{0.5, 1}, UVOffset: mgl32.Vec2{0.25, 0}}
	uv := mgl32.Vec2{0.4, 0.6}
	got := WarpUV(uv, u, brush)
	final := uv.Add(BaseWarp(uv, 0))
	assert.InDelta(t, 0.25+final[0]*0.5, got[0], 1e-6)
	assert.InDelta(t, final[1], got[1], 1e-6)
}

func TestImageSampler(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255}) // top left
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255}) // bottom left
	img.SetNRGBA(1, 1, color.NRGBA{A: 0})
	s := NewImageSampler(img)

	// v = 0 is the bottom row
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, s.Sample(mgl32.Vec2{0.25, 0.25}))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, s.Sample(mgl32.Vec2{0.25, 0.75}))

	// clamp to edge
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, s.Sample(mgl32.Vec2{-3, 5}))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0}, s.Sample(mgl32.Vec2{40, -40}))

	centre := s.Sample(mgl32.Vec2{0.5, 0.5})
	assert.InDelta(t, 0.25, centre[0], 1e-6)
	assert.InDelta(t, 0.75, centre[3], 1e-6)
}

func TestImageSamplerOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 10, 12, 11))
	img.SetGray(10, 10, color.Gray{Y: 255})
	s := NewImageSampler(img)
	c := s.Sample(mgl32.Vec2{0.25, 0.5})
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, c)
}

func TestRenderOrientation(t *testing.T) {
	u := &Uniforms{UVScale: mgl32.Vec2{1, 1}}
	out := Render(u, 4, 4, uvSampler{}, &constSampler{})
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())

	// green encodes v: the top row has the larger value
	top := out.NRGBAAt(1, 0).G
	bottom := out.NRGBAAt(1, 3).G
	assert.Greater(t, top, bottom)
	left := out.NRGBAAt(0, 1).R
	right := out.NRGBAAt(3, 1).R
	assert.Greater(t, right, left)
}
