package lens

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sampler returns the colour of a texture at a normalized coordinate.
// Colours are non-premultiplied RGBA in [0, 1].
type Sampler interface {
	Sample(uv mgl32.Vec2) mgl32.Vec4
}

// BrushStrength sharpens a brush alpha sample into a warp weight.
func BrushStrength(mask float32) float32 {
	return clamp(math32.Pow(mask, 2.5), 0, 1)
}

// BrushUV maps a surface coordinate into brush texture space. ok is false
// when the brush has no extent.
func BrushUV(uv, mouse mgl32.Vec2, radius float32) (brushUV mgl32.Vec2, ok bool) {
	if radius <= 0 {
		return mgl32.Vec2{}, false
	}
	d := uv.Sub(mouse).Mul(1 / radius)
	return mgl32.Vec2{d[0] + 0.5, d[1] + 0.5}, true
}

// BaseWarp is the small turbulence applied everywhere.
func BaseWarp(uv mgl32.Vec2, time float32) mgl32.Vec2 {
	return mgl32.Vec2{
		0.01 * math32.Sin(uv[1]*10+time*0.75),
		0.01 * math32.Cos(uv[0]*10-time*0.75),
	}
}

// BrushWarp is the turbulence applied under the brush, weighted by strength.
func BrushWarp(uv mgl32.Vec2, time, strength, scale float32) mgl32.Vec2 {
	k := strength * scale
	return mgl32.Vec2{
		k * math32.Sin(uv[1]*20+time*2),
		k * math32.Sin(uv[0]*40-time*2),
	}
}

// WarpUV returns the distorted image coordinate for a surface coordinate.
func WarpUV(uv mgl32.Vec2, u *Uniforms, brush Sampler) mgl32.Vec2 {
	var strength float32
	if brushUV, ok := BrushUV(uv, u.Mouse, u.Radius); ok {
		strength = BrushStrength(brush.Sample(brushUV)[3])
	}
	final := uv.Add(BaseWarp(uv, u.Time)).Add(BrushWarp(uv, u.Time, strength, u.BrushWarp))
	return mgl32.Vec2{
		u.UVOffset[0] + final[0]*u.UVScale[0],
		u.UVOffset[1] + final[1]*u.UVScale[1],
	}
}

// Fragment evaluates the distortion program for one surface coordinate.
func Fragment(uv mgl32.Vec2, u *Uniforms, base, brush Sampler) mgl32.Vec4 {
	return base.Sample(WarpUV(uv, u, brush))
}

// Render evaluates Fragment at every pixel centre of a width×height surface.
func Render(u *Uniforms, width, height int, base, brush Sampler) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		// row 0 is the top of the image, v grows upward
		v := 1 - (float32(y)+0.5)/float32(height)
		for x := 0; x < width; x++ {
			uv := mgl32.Vec2{(float32(x) + 0.5) / float32(width), v}
			c := Fragment(uv, u, base, brush)
			dst.SetNRGBA(x, y, color.NRGBA{
				R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2]), A: toByte(c[3]),
			})
		}
	}
	return dst
}

// ImageSampler samples an image with bilinear filtering and clamp-to-edge
// addressing. v = 0 is the bottom row, matching a vertically flipped upload.
type ImageSampler struct {
	img  *image.NRGBA
	w, h int
}

// NewImageSampler converts img once for repeated sampling.
func NewImageSampler(img image.Image) *ImageSampler {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				nrgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return &ImageSampler{img: nrgba, w: b.Dx(), h: b.Dy()}
}

// Sample implements Sampler.
func (s *ImageSampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	if s.w == 0 || s.h == 0 {
		return mgl32.Vec4{}
	}
	// texel centres sit at (i + 0.5) / size
	fx := uv[0]*float32(s.w) - 0.5
	fy := (1-uv[1])*float32(s.h) - 0.5
	fx = clamp(fx, -1, float32(s.w))
	fy = clamp(fy, -1, float32(s.h))
	x0 := math32.Floor(fx)
	y0 := math32.Floor(fy)
	tx, ty := fx-x0, fy-y0

	c00 := s.texel(int(x0), int(y0))
	c10 := s.texel(int(x0)+1, int(y0))
	c01 := s.texel(int(x0), int(y0)+1)
	c11 := s.texel(int(x0)+1, int(y0)+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

func (s *ImageSampler) texel(x, y int) mgl32.Vec4 {
	x = min(max(x, 0), s.w-1)
	y = min(max(y, 0), s.h-1)
	c := s.img.NRGBAAt(x, y)
	return mgl32.Vec4{
		float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255,
	}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

func toByte(v float32) uint8 {
	return uint8(clamp(v, 0, 1)*255 + 0.5)
}
