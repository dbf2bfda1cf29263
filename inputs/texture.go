// inputs/texture.go
package inputs

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// EXT_texture_filter_anisotropic; core only from 4.6, so not in the 4.1 bindings.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

// Sampler describes how a texture is filtered. Lens textures are always
// addressed clamp-to-edge.
type Sampler struct {
	Mipmap     bool
	VFlip      bool
	Anisotropy float32 // 0 disables; capped by the driver maximum
}

// ImageSampler is used for the base image: trilinear, mip-mapped, anisotropic.
var ImageSampler = Sampler{Mipmap: true, VFlip: true, Anisotropy: 16}

// BrushSampler is used for the brush mask: bilinear, no mipmaps.
var BrushSampler = Sampler{VFlip: true}

// filterModes returns the GL min and mag filters for s.
func filterModes(s Sampler) (minFilter, magFilter int32) {
	if s.Mipmap {
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	return gl.LINEAR, gl.LINEAR
}

// Texture is a static 2D image uploaded to the GPU.
type Texture struct {
	textureID uint32
}

// vflip vertically flips the provided RGBA image so that row 0 of the
// upload is the bottom of the picture, as GL expects.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	// This is faster than calling At/Set for each pixel
	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// toRGBA converts img to a tightly packed RGBA image at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// NewTexture creates and initializes a new OpenGL texture from an image.
// Must be called with a current GL context.
func NewTexture(name string, img image.Image, sampler Sampler) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image for %s texture is nil", name)
	}

	rgba := toRGBA(img)
	if sampler.VFlip {
		rgba = vflip(rgba)
	}

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%s texture has no pixels", name)
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	minFilter, magFilter := filterModes(sampler)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	// rows of odd-width images are not 4-byte aligned after the flip copy
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		width,
		height,
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)

	if sampler.Mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	if sampler.Anisotropy > 0 {
		var maxAniso float32
		gl.GetFloatv(maxTextureMaxAnisotropy, &maxAniso)
		if maxAniso > 0 {
			gl.TexParameterf(gl.TEXTURE_2D, textureMaxAnisotropy, min(sampler.Anisotropy, maxAniso))
		} else {
			log.Printf("Warning: anisotropic filtering unavailable for %s texture", name)
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{textureID: textureID}, nil
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
}

// Unbind clears the given texture unit.
func (t *Texture) Unbind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *Texture) Destroy() {
	if t.textureID != 0 {
		gl.DeleteTextures(1, &t.textureID)
		t.textureID = 0
	}
}
