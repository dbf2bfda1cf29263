package viewer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/richinsley/golens/glfwcontext"
	"github.com/richinsley/golens/host"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	options "github.com/richinsley/golens/options"
	renderer "github.com/richinsley/golens/renderer"
	"github.com/richinsley/golens/source"
)

// Record renders the lens offscreen with the scripted pointer and encodes
// Duration seconds at FPS into OutputFile.
func Record(opts *options.LensOptions, cfg lens.Config) error {
	log.Println("Starting in record mode...")
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, false)
	if err != nil {
		return fmt.Errorf("failed to initialize glfw context: %w", err)
	}
	defer win.Shutdown()

	rend, err := renderer.NewRenderer(win)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	width, height := *opts.Width, *opts.Height
	offscreen, err := renderer.NewOffscreenRenderer(width, height)
	if err != nil {
		return fmt.Errorf("failed to create offscreen renderer: %w", err)
	}
	defer offscreen.Destroy()

	fetcher, err := source.NewFetcher(*opts.UseCache)
	if err != nil {
		return err
	}

	page := lens.NewPage(width, height, *opts.Inset, 1)
	lensHost := host.NewHost(cfg, page, rend.SurfaceFactory(offscreen.Target(), page))
	defer lensHost.Close()

	loader := inputs.NewLoader(fetcher, *opts.Image, *opts.Brush)
	if err := lensHost.Load(context.Background(), *opts.Image, loader); err != nil {
		return err
	}
	for lensHost.Controller().State() == lens.Loading {
		offscreen.Begin(rend)
		lensHost.Frame()
		win.PollEvents()
		time.Sleep(time.Millisecond)
	}
	if err := lensHost.Err(); err != nil {
		return err
	}

	encoder, err := renderer.StartEncoder(renderer.EncoderOptions{
		Width:      width,
		Height:     height,
		FPS:        *opts.FPS,
		Codec:      *opts.Codec,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}

	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	var recordErr error
	for i := 0; i < totalFrames; i++ {
		t := float64(i) / float64(*opts.FPS)
		lensHost.PointerMove(host.PointerPath(t, page.Bounds()))

		offscreen.Begin(rend)
		lensHost.Frame()
		if err := lensHost.Err(); err != nil {
			recordErr = err
			break
		}

		pixels, err := offscreen.ReadPixels()
		if err != nil {
			recordErr = fmt.Errorf("error reading pixels on frame %d: %w", i, err)
			break
		}
		if err := encoder.WriteFrame(&renderer.Frame{Pixels: pixels, PTS: int64(i)}); err != nil {
			recordErr = err
			break
		}
		win.PollEvents()
	}

	if err := encoder.Close(); err != nil && recordErr == nil {
		recordErr = fmt.Errorf("encoder finished with error: %w", err)
	}
	if recordErr == nil {
		log.Printf("Recorded %d frames to %s", totalFrames, *opts.OutputFile)
	}
	return recordErr
}
