package ebitenlens

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	shader "github.com/richinsley/golens/shader"
)

// Surface is a lens.Surface backed by a Kage shader. Ebitengine only allows
// drawing to the screen inside Game.Draw, so Draw records the uniforms and
// Render issues the actual draw call.
type Surface struct {
	shader   *ebiten.Shader
	base     *ebiten.Image
	brush    *ebiten.Image
	mount    lens.Mount
	uniforms lens.Uniforms
	ready    bool
	released bool

	vertices [4]ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesShaderOptions
}

// NewSurface compiles the lens shader and uploads the textures. The brush is
// resized to the base image extent because every shader source image must
// share one size.
func NewSurface(mount lens.Mount, tex *lens.Textures) (*Surface, error) {
	sh, err := ebiten.NewShader(shader.GetLensKageShader())
	if err != nil {
		return nil, fmt.Errorf("failed to compile lens shader: %w", err)
	}
	b := tex.Image.Bounds()
	brush := inputs.Resize(tex.Brush, b.Dx(), b.Dy())

	s := &Surface{
		shader:  sh,
		base:    ebiten.NewImageFromImage(tex.Image),
		brush:   ebiten.NewImageFromImage(brush),
		mount:   mount,
		indices: []uint16{0, 1, 2, 2, 3, 0},
	}
	s.opts.Uniforms = make(map[string]any, 6)
	return s, nil
}

// Draw implements lens.Surface.
func (s *Surface) Draw(u *lens.Uniforms) error {
	if s.released {
		return fmt.Errorf("draw on released surface")
	}
	s.uniforms = *u
	s.ready = true
	return nil
}

// Resize implements lens.Surface. The quad follows the mount on every render.
func (s *Surface) Resize(width, height int) {}

// Release implements lens.Surface.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.base.Deallocate()
	s.brush.Deallocate()
	s.shader.Deallocate()
}

// Render draws the last recorded frame into the mount rectangle of screen.
func (s *Surface) Render(screen *ebiten.Image) {
	if !s.ready || s.released {
		return
	}
	r := s.mount.Bounds()
	if r.Empty() {
		return
	}
	setQuad(&s.vertices, r, s.base.Bounds())
	setUniforms(s.opts.Uniforms, &s.uniforms)
	s.opts.Images[0] = s.base
	s.opts.Images[1] = s.brush
	screen.DrawTrianglesShader(s.vertices[:], s.indices, s.shader, &s.opts)
	s.opts.Images[0] = nil
	s.opts.Images[1] = nil
}

// setQuad maps the whole source image onto the destination rectangle.
func setQuad(v *[4]ebiten.Vertex, dst lens.Rect, src image.Rectangle) {
	x0, y0 := float32(dst.Left), float32(dst.Top)
	x1, y1 := float32(dst.Right()), float32(dst.Bottom())
	sx0, sy0 := float32(src.Min.X), float32(src.Min.Y)
	sx1, sy1 := float32(src.Max.X), float32(src.Max.Y)

	v[0] = ebiten.Vertex{DstX: x0, DstY: y0, SrcX: sx0, SrcY: sy0}
	v[1] = ebiten.Vertex{DstX: x1, DstY: y0, SrcX: sx1, SrcY: sy0}
	v[2] = ebiten.Vertex{DstX: x1, DstY: y1, SrcX: sx1, SrcY: sy1}
	v[3] = ebiten.Vertex{DstX: x0, DstY: y1, SrcX: sx0, SrcY: sy1}
	for i := range v {
		v[i].ColorR, v[i].ColorG, v[i].ColorB, v[i].ColorA = 1, 1, 1, 1
	}
}

func setUniforms(m map[string]any, u *lens.Uniforms) {
	m[shader.KageMouse] = []float32{u.Mouse[0], u.Mouse[1]}
	m[shader.KageRadius] = u.Radius
	m[shader.KageTime] = u.Time
	m[shader.KageBrushWarp] = u.BrushWarp
	m[shader.KageUVScale] = []float32{u.UVScale[0], u.UVScale[1]}
	m[shader.KageUVOffset] = []float32{u.UVOffset[0], u.UVOffset[1]}
}
