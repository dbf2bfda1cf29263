package renderer

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetArgsRawInput(t *testing.T) {
	in, out := getArgs(EncoderOptions{Width: 320, Height: 240, FPS: 30, Codec: "h264", OutputFile: "out.mp4"})
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x240", in["s"])
	assert.Equal(t, 30, in["framerate"])

	assert.Equal(t, "vflip", out["vf"])
	assert.Equal(t, "yuv420p", out["pix_fmt"])
	if runtime.GOOS == "darwin" {
		assert.Equal(t, "h264_videotoolbox", out["c:v"])
	} else {
		assert.Equal(t, "libx264", out["c:v"])
	}
	assert.NotContains(t, out, "tag:v")
}

func TestGetArgsHEVCTag(t *testing.T) {
	_, out := getArgs(EncoderOptions{Width: 2, Height: 2, FPS: 1, Codec: "hevc", OutputFile: "clip.MP4"})
	assert.Equal(t, "hvc1", out["tag:v"])

	_, out = getArgs(EncoderOptions{Width: 2, Height: 2, FPS: 1, Codec: "hevc", OutputFile: "clip.mkv"})
	assert.NotContains(t, out, "tag:v")
}

func TestGetArgsGIF(t *testing.T) {
	_, out := getArgs(EncoderOptions{Width: 2, Height: 2, FPS: 1, OutputFile: "clip.gif"})
	assert.Equal(t, "vflip", out["vf"])
	assert.NotContains(t, out, "c:v")
	assert.NotContains(t, out, "pix_fmt")
}

func TestStartEncoderValidates(t *testing.T) {
	_, err := StartEncoder(EncoderOptions{Width: 0, Height: 2, FPS: 1, OutputFile: "a.mp4"})
	assert.Error(t, err)
	_, err = StartEncoder(EncoderOptions{Width: 2, Height: 2, FPS: 1})
	assert.Error(t, err)
}

func TestEncoderMissingBinary(t *testing.T) {
	dir := t.TempDir()
	e, err := StartEncoder(EncoderOptions{
		Width: 2, Height: 2, FPS: 1,
		OutputFile: filepath.Join(dir, "out.mp4"),
		FFMPEGPath: filepath.Join(dir, "no-such-ffmpeg"),
	})
	require.NoError(t, err)

	assert.Error(t, e.WriteFrame(&Frame{Pixels: make([]byte, 16)}))
	assert.Error(t, e.Close())
	assert.NoError(t, e.Close())
}

func TestEncoderFrameSize(t *testing.T) {
	e := &Encoder{frameSize: 16}
	err := e.WriteFrame(&Frame{Pixels: make([]byte, 15), PTS: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 3")
}
