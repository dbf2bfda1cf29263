package renderer

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// EncoderOptions configure the ffmpeg process fed with raw RGBA frames.
type EncoderOptions struct {
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264" or "hevc"
	OutputFile string
	FFMPEGPath string
}

// getArgs builds the ffmpeg input and output arguments. Frames arrive bottom
// row first, so the output is flipped.
func getArgs(opts EncoderOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{"vf": "vflip"}

	ext := strings.ToLower(filepath.Ext(opts.OutputFile))
	if ext == ".gif" {
		return
	}

	switch runtime.GOOS {
	case "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if opts.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		log.Println("Using software encoding pipeline (no hardware acceleration).")
		if opts.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	outputArgs["pix_fmt"] = "yuv420p"
	outputArgs["b:v"] = "8M"

	if opts.Codec == "hevc" && ext == ".mp4" {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// Encoder pipes raw frames into an ffmpeg process.
type Encoder struct {
	pipeWriter *io.PipeWriter
	frameSize  int
	errc       chan error
	closed     bool
}

// StartEncoder launches ffmpeg. If the process cannot start or exits early,
// subsequent writes fail with its error.
func StartEncoder(opts EncoderOptions) (*Encoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder geometry %dx%d@%d", opts.Width, opts.Height, opts.FPS)
	}
	if opts.OutputFile == "" {
		return nil, fmt.Errorf("no output file")
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(opts)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFMPEGPath)
	}

	e := &Encoder{
		pipeWriter: pipeWriter,
		frameSize:  opts.Width * opts.Height * 4,
		errc:       make(chan error, 1),
	}
	go func() {
		err := ffmpegCmd.Run()
		if err == nil {
			err = io.ErrClosedPipe
		}
		// unblock writers once ffmpeg is gone
		pipeReader.CloseWithError(err)
		e.errc <- err
	}()
	return e, nil
}

// WriteFrame sends one frame to ffmpeg.
func (e *Encoder) WriteFrame(frame *Frame) error {
	if len(frame.Pixels) != e.frameSize {
		return fmt.Errorf("frame %d has %d bytes, want %d", frame.PTS, len(frame.Pixels), e.frameSize)
	}
	if _, err := e.pipeWriter.Write(frame.Pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to FFmpeg: %w", frame.PTS, err)
	}
	return nil
}

// Close signals end of stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.pipeWriter.Close()
	err := <-e.errc
	if err == io.ErrClosedPipe {
		return nil
	}
	return err
}
