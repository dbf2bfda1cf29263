package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ─────────────────────────────────── Lens ──────────────────────────────────────

// Uniform names of the lens fragment program. The translator may rename them;
// look up the mapped name before querying locations.
const (
	UniformTexture             = "u_texture"
	UniformBrush               = "u_brush"
	UniformMouse               = "u_mouse"
	UniformRadius              = "u_radius"
	UniformTime                = "u_time"
	UniformResolution          = "u_resolution"
	UniformViewport            = "u_viewport"
	UniformSpeed               = "u_speed"
	UniformImageAspect         = "u_imageAspect"
	UniformTurbulenceIntensity = "u_turbulenceIntensity"
	UniformBrushWarp           = "u_brushWarp"
	UniformUVScale             = "u_uvScale"
	UniformUVOffset            = "u_uvOffset"
)

// LensUniforms lists every uniform declared by the lens fragment program.
var LensUniforms = []string{
	UniformTexture,
	UniformBrush,
	UniformMouse,
	UniformRadius,
	UniformTime,
	UniformResolution,
	UniformViewport,
	UniformSpeed,
	UniformImageAspect,
	UniformTurbulenceIntensity,
	UniformBrushWarp,
	UniformUVScale,
	UniformUVOffset,
}

// The fragment stage derives uv from gl_FragCoord so that it does not depend
// on varying names surviving translation. u_viewport is the draw rectangle in
// framebuffer pixels (x, y, width, height), origin bottom-left.
const lensFragmentShaderSource = `#version 300 es
precision highp float;
precision highp int;

uniform sampler2D u_texture;
uniform sampler2D u_brush;
uniform vec2  u_mouse;
uniform float u_radius;
uniform float u_time;
uniform vec2  u_resolution;
uniform vec4  u_viewport;
uniform float u_speed;
uniform float u_imageAspect;
uniform float u_turbulenceIntensity;
uniform float u_brushWarp;
uniform vec2  u_uvScale;
uniform vec2  u_uvOffset;

out vec4 fragColor;

void main()
{
    vec2 uv = (gl_FragCoord.xy - u_viewport.xy) / u_viewport.zw;

    float strength = 0.0;
    if (u_radius > 0.0) {
        vec2 brushUV = (uv - u_mouse) / u_radius + 0.5;
        float mask = texture(u_brush, brushUV).a;
        strength = clamp(pow(mask, 2.5), 0.0, 1.0);
    }

    vec2 baseWarp = 0.01 * vec2(
        sin(uv.y * 10.0 + u_time * 0.75),
        cos(uv.x * 10.0 - u_time * 0.75));
    vec2 brushWarp = strength * u_brushWarp * vec2(
        sin(uv.y * 20.0 + u_time * 2.0),
        sin(uv.x * 40.0 - u_time * 2.0));

    vec2 finalUV = uv + baseWarp + brushWarp;
    fragColor = texture(u_texture, u_uvOffset + finalUV * u_uvScale);
}
`

// Kage uniform names, set through ebiten.DrawTrianglesShaderOptions.Uniforms.
const (
	KageMouse     = "Mouse"
	KageRadius    = "Radius"
	KageTime      = "Time"
	KageBrushWarp = "BrushWarp"
	KageUVScale   = "UVScale"
	KageUVOffset  = "UVOffset"
)

// Image 0 is the base image, image 1 the brush resized to the same extent.
// Kage samples texels directly, so filtering is bilinear by hand with
// clamp-to-edge addressing.
const lensKageSource = `//kage:unit pixels

package main

var Mouse vec2
var Radius float
var Time float
var BrushWarp float
var UVScale vec2
var UVOffset vec2

func bilinear0(uv vec2) vec4 {
	size := imageSrc0Size()
	p := clamp(vec2(uv.x, 1-uv.y)*size-vec2(0.5), vec2(0), size-vec2(1))
	f := floor(p)
	t := p - f
	n := min(f+vec2(1), size-vec2(1))
	o := imageSrc0Origin() + vec2(0.5)
	c00 := imageSrc0UnsafeAt(o + f)
	c10 := imageSrc0UnsafeAt(o + vec2(n.x, f.y))
	c01 := imageSrc0UnsafeAt(o + vec2(f.x, n.y))
	c11 := imageSrc0UnsafeAt(o + n)
	return mix(mix(c00, c10, t.x), mix(c01, c11, t.x), t.y)
}

func bilinear1(uv vec2) vec4 {
	size := imageSrc1Size()
	p := clamp(vec2(uv.x, 1-uv.y)*size-vec2(0.5), vec2(0), size-vec2(1))
	f := floor(p)
	t := p - f
	n := min(f+vec2(1), size-vec2(1))
	o := imageSrc1Origin() + vec2(0.5)
	c00 := imageSrc1UnsafeAt(o + f)
	c10 := imageSrc1UnsafeAt(o + vec2(n.x, f.y))
	c01 := imageSrc1UnsafeAt(o + vec2(f.x, n.y))
	c11 := imageSrc1UnsafeAt(o + n)
	return mix(mix(c00, c10, t.x), mix(c01, c11, t.x), t.y)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := (srcPos - imageSrc0Origin()) / imageSrc0Size()
	uv = vec2(uv.x, 1-uv.y)

	strength := 0.0
	if Radius > 0 {
		brushUV := (uv-Mouse)/Radius + vec2(0.5)
		mask := bilinear1(brushUV).a
		strength = clamp(pow(mask, 2.5), 0, 1)
	}

	baseWarp := 0.01 * vec2(sin(uv.y*10+Time*0.75), cos(uv.x*10-Time*0.75))
	brushWarp := strength * BrushWarp * vec2(sin(uv.y*20+Time*2), sin(uv.x*40-Time*2))

	finalUV := uv + baseWarp + brushWarp
	return bilinear0(UVOffset + finalUV*UVScale)
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GetLensFragmentShader returns the distortion program as WebGL2 (GLSL ES 3.00)
// source. Desktop contexts run it through the translator first.
func GetLensFragmentShader() string {
	return lensFragmentShaderSource
}

// GetLensKageShader returns the distortion program for Ebitengine.
func GetLensKageShader() []byte {
	return []byte(lensKageSource)
}
