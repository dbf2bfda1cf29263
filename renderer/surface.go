package renderer

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	shader "github.com/richinsley/golens/shader"
	xlate "github.com/richinsley/golens/translator"
	gst "github.com/richinsley/goshadertranslator"
)

const (
	imageUnit = 0
	brushUnit = 1
)

// Surface draws one lens into the mount rectangle of a Target. It owns the
// lens program and both textures.
type Surface struct {
	r       *Renderer
	target  Target
	mount   lens.Mount
	program uint32
	image   *inputs.Texture
	brush   *inputs.Texture
	locs    map[string]int32
}

// SurfaceFactory returns a lens.SurfaceFactory drawing into target.
func (r *Renderer) SurfaceFactory(target Target, mount lens.Mount) lens.SurfaceFactory {
	return func(tex *lens.Textures, vp lens.ViewportState) (lens.Surface, error) {
		return r.NewSurface(target, mount, tex)
	}
}

// NewSurface compiles the lens program and uploads the textures.
func (r *Renderer) NewSurface(target Target, mount lens.Mount, tex *lens.Textures) (*Surface, error) {
	code, uniformMap, err := xlate.TranslateFragment(shader.GetLensFragmentShader(), r.isGLES)
	if err != nil {
		return nil, err
	}
	program, err := newProgram(shader.GenerateVertexShader(r.isGLES), code)
	if err != nil {
		return nil, fmt.Errorf("failed to create lens program: %w", err)
	}

	s := &Surface{
		r:       r,
		target:  target,
		mount:   mount,
		program: program,
		locs:    make(map[string]int32, len(shader.LensUniforms)),
	}
	s.image, err = inputs.NewTexture("image", tex.Image, inputs.ImageSampler)
	if err != nil {
		s.Release()
		return nil, err
	}
	s.brush, err = inputs.NewTexture("brush", tex.Brush, inputs.BrushSampler)
	if err != nil {
		s.Release()
		return nil, err
	}

	gl.UseProgram(program)
	for _, name := range shader.LensUniforms {
		s.locs[name] = getUniformLocation(uniformMap, program, name)
	}
	gl.UseProgram(0)

	if s.locs[shader.UniformTexture] < 0 || s.locs[shader.UniformViewport] < 0 {
		s.Release()
		return nil, fmt.Errorf("lens program is missing required uniforms")
	}
	return s, nil
}

// getUniformLocation resolves a source uniform name through the translator's
// name mapping. Uniforms optimized out by the driver report -1.
func getUniformLocation(uniformMap map[string]gst.ShaderVariable, program uint32, name string) int32 {
	v, ok := uniformMap[name]
	if !ok {
		return -1
	}
	return gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00"))
}

// Draw implements lens.Surface.
func (s *Surface) Draw(u *lens.Uniforms) error {
	winW, winH := s.target.GetWindowSize()
	fbW, fbH := s.target.GetFramebufferSize()
	x, y, w, h := viewportRect(s.mount.Bounds(), winW, winH, fbW, fbH)
	if w <= 0 || h <= 0 {
		return nil
	}

	gl.Viewport(x, y, w, h)
	gl.UseProgram(s.program)
	s.image.Bind(imageUnit)
	s.brush.Bind(brushUnit)

	s.setInt(shader.UniformTexture, imageUnit)
	s.setInt(shader.UniformBrush, brushUnit)
	s.setVec2(shader.UniformMouse, u.Mouse[0], u.Mouse[1])
	s.setFloat(shader.UniformRadius, u.Radius)
	s.setFloat(shader.UniformTime, u.Time)
	s.setVec2(shader.UniformResolution, u.Resolution[0], u.Resolution[1])
	if loc := s.locs[shader.UniformViewport]; loc >= 0 {
		gl.Uniform4f(loc, float32(x), float32(y), float32(w), float32(h))
	}
	s.setFloat(shader.UniformSpeed, u.Speed)
	s.setFloat(shader.UniformImageAspect, u.ImageAspect)
	s.setFloat(shader.UniformTurbulenceIntensity, u.TurbulenceIntensity)
	s.setFloat(shader.UniformBrushWarp, u.BrushWarp)
	s.setVec2(shader.UniformUVScale, u.UVScale[0], u.UVScale[1])
	s.setVec2(shader.UniformUVOffset, u.UVOffset[0], u.UVOffset[1])

	s.r.drawQuad()

	s.brush.Unbind(brushUnit)
	s.image.Unbind(imageUnit)
	gl.UseProgram(0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x while drawing lens", e)
	}
	return nil
}

func (s *Surface) setInt(name string, v int32) {
	if loc := s.locs[name]; loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (s *Surface) setFloat(name string, v float32) {
	if loc := s.locs[name]; loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (s *Surface) setVec2(name string, x, y float32) {
	if loc := s.locs[name]; loc >= 0 {
		gl.Uniform2f(loc, x, y)
	}
}

// Resize implements lens.Surface. The viewport follows the mount on every
// draw, so there is nothing to reallocate.
func (s *Surface) Resize(width, height int) {
	log.Printf("Lens surface resized: %d %d", width, height)
}

// Release implements lens.Surface.
func (s *Surface) Release() {
	if s.image != nil {
		s.image.Destroy()
		s.image = nil
	}
	if s.brush != nil {
		s.brush.Destroy()
		s.brush = nil
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
}
