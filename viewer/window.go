package viewer

import (
	"context"
	"fmt"
	"log"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/golens/glfwcontext"
	"github.com/richinsley/golens/host"
	inputs "github.com/richinsley/golens/inputs"
	"github.com/richinsley/golens/lens"
	options "github.com/richinsley/golens/options"
	renderer "github.com/richinsley/golens/renderer"
	"github.com/richinsley/golens/source"
)

// RunWindow shows the lens in a resizable window until it is closed. With
// the Watch option a changed source file rebuilds the lens, and a failed
// lens waits for the next change instead of closing the window.
func RunWindow(opts *options.LensOptions, cfg lens.Config) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, true)
	if err != nil {
		return fmt.Errorf("failed to initialize glfw context: %w", err)
	}
	defer win.Shutdown()

	rend, err := renderer.NewRenderer(win)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	fetcher, err := source.NewFetcher(*opts.UseCache)
	if err != nil {
		return err
	}

	winWidth, winHeight := win.GetWindowSize()
	page := lens.NewPage(winWidth, winHeight, *opts.Inset, *opts.PageScale)
	lensHost := host.NewHost(cfg, page, rend.SurfaceFactory(win, page))
	defer lensHost.Close()

	var failure error
	lensHost.OnError(func(err error) {
		log.Printf("Lens failed: %v", err)
		failure = err
		if !*opts.Watch {
			win.SetShouldClose(true)
		}
	})

	load := func() {
		failure = nil
		loader := inputs.NewLoader(fetcher, *opts.Image, *opts.Brush)
		if err := lensHost.Load(context.Background(), *opts.Image, loader); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	win.OnCursor(lensHost.PointerMove)
	win.OnScroll(func(dx, dy float64) { lensHost.Scroll(-dy) })
	win.OnResize(lensHost.Resize)
	win.OnVisibility(lensHost.SetWindowVisible)
	win.RegisterKeyCallback(glfw.KeyR, func() {
		log.Println("Reloading lens")
		load()
	})

	var changes <-chan string
	if *opts.Watch {
		paths := []string{}
		for _, p := range []string{*opts.Image, *opts.Brush} {
			if p != "" && !source.IsURL(p) {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			watcher, err := inputs.Watch(paths...)
			if err != nil {
				log.Printf("Warning: %v", err)
			} else {
				defer watcher.Close()
				changes = watcher.Changes
			}
		}
	}

	load()
	for !win.ShouldClose() {
		select {
		case name := <-changes:
			log.Printf("Source changed: %s", name)
			load()
		default:
		}

		rend.BeginFrame()
		lensHost.Frame()
		win.EndFrame()
	}
	return failure
}
