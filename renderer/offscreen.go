package renderer

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// OffscreenRenderer is an RGBA8 framebuffer the lens renders into when
// recording. Frames are read back bottom row first.
type OffscreenRenderer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
	pixels    []byte
}

func NewOffscreenRenderer(width, height int) (*OffscreenRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}
	or := &OffscreenRenderer{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*4),
	}

	log.Println("Offscreen FBO: Using 8-bit format for SDR.")
	gl.GenFramebuffers(1, &or.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.GenTextures(1, &or.textureID)
	gl.BindTexture(gl.TEXTURE_2D, or.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, or.textureID, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		or.Destroy()
		return nil, fmt.Errorf("main offscreen fbo is not complete")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return or, nil
}

// Target returns the drawing target matching the framebuffer size.
func (or *OffscreenRenderer) Target() FixedTarget {
	return FixedTarget{Width: or.width, Height: or.height}
}

// Begin binds the framebuffer and clears it to the page colour.
func (or *OffscreenRenderer) Begin(r *Renderer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	r.clear(or.width, or.height)
}

// ReadPixels returns the current frame as tightly packed RGBA rows, bottom
// row first. The slice is reused by the next call.
func (or *OffscreenRenderer) ReadPixels() ([]byte, error) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, or.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(or.width), int32(or.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(or.pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("gl error 0x%x while reading pixels", e)
	}
	return or.pixels, nil
}

func (or *OffscreenRenderer) Destroy() {
	if or.fbo != 0 {
		gl.DeleteFramebuffers(1, &or.fbo)
		or.fbo = 0
	}
	if or.textureID != 0 {
		gl.DeleteTextures(1, &or.textureID)
		or.textureID = 0
	}
}
