package lens

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CursorState tracks where the brush should be and where it currently is.
// The target half is written by the event operations of the controller,
// the smoothed half only by the frame tick.
type CursorState struct {
	Target         mgl32.Vec2
	Smoothed       mgl32.Vec2
	TargetRadius   float32
	SmoothedRadius float32
}

func newCursorState() CursorState {
	return CursorState{
		Target:   mgl32.Vec2{0.5, 0.5},
		Smoothed: mgl32.Vec2{0.5, 0.5},
	}
}

// advance moves the smoothed values one step toward their targets.
func (c *CursorState) advance(lerpFactor, radiusLerp float32) {
	c.Smoothed = lerp2(c.Smoothed, c.Target, lerpFactor)
	c.SmoothedRadius = lerp(c.SmoothedRadius, c.TargetRadius, radiusLerp)
}

func lerp(v, target, k float32) float32 {
	return v + (target-v)*k
}

func lerp2(v, target mgl32.Vec2, k float32) mgl32.Vec2 {
	return v.Add(target.Sub(v).Mul(k))
}

// ViewportState describes the render surface and the loaded image.
type ViewportState struct {
	Width       int
	Height      int
	ImageAspect float32
}

// Framing returns the scale and offset that map surface uv to image uv.
// FitStretch is the identity; FitCover crops the longer image axis so the
// image keeps its aspect ratio while filling the surface.
func (v ViewportState) Framing(fit Fit) (scale, offset mgl32.Vec2) {
	scale = mgl32.Vec2{1, 1}
	if fit != FitCover || v.Width <= 0 || v.Height <= 0 || v.ImageAspect <= 0 {
		return scale, mgl32.Vec2{}
	}
	surfaceAspect := float32(v.Width) / float32(v.Height)
	if surfaceAspect > v.ImageAspect {
		// surface is wider: crop top and bottom
		scale[1] = v.ImageAspect / surfaceAspect
	} else {
		scale[0] = surfaceAspect / v.ImageAspect
	}
	offset = mgl32.Vec2{(1 - scale[0]) / 2, (1 - scale[1]) / 2}
	return scale, offset
}

// Uniforms is the per-draw snapshot of shader inputs. Texture handles are
// owned and bound by the Surface.
type Uniforms struct {
	Mouse               mgl32.Vec2
	Radius              float32
	Time                float32
	Resolution          mgl32.Vec2
	Speed               float32
	ImageAspect         float32
	TurbulenceIntensity float32
	BrushWarp           float32
	UVScale             mgl32.Vec2
	UVOffset            mgl32.Vec2
}
