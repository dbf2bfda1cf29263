package host

import (
	"context"
	"fmt"

	"github.com/richinsley/golens/lens"
)

// scrollStep converts one mouse wheel notch into window units.
const scrollStep = 40.0

// Host ties a lens controller to a page laid out in a window. It routes the
// window's pointer, wheel, resize and visibility events, runs one frame per
// refresh and rebuilds the whole pipeline when the source changes.
type Host struct {
	cfg        lens.Config
	page       *lens.Page
	frames     *lens.FrameQueue
	newSurface lens.SurfaceFactory
	onError    func(error)

	ctrl          *lens.Controller
	observer      *lens.VisibilityObserver
	windowVisible bool
}

// NewHost creates a host without a lens; call Load to start one.
func NewHost(cfg lens.Config, page *lens.Page, newSurface lens.SurfaceFactory) *Host {
	return &Host{
		cfg:           cfg,
		page:          page,
		frames:        lens.NewFrameQueue(),
		newSurface:    newSurface,
		windowVisible: true,
	}
}

// OnError registers a callback for lens failures.
func (h *Host) OnError(fn func(error)) {
	h.onError = fn
}

// Load tears down the current lens, if any, and starts a new one for source.
func (h *Host) Load(ctx context.Context, source string, load lens.Loader) error {
	h.teardown()

	ctrl, err := lens.NewController(h.cfg, h.page, h.frames, h.newSurface)
	if err != nil {
		return err
	}
	ctrl.OnError(func(err error) {
		if h.onError != nil {
			h.onError(err)
		}
	})
	h.ctrl = ctrl
	h.observer = &lens.VisibilityObserver{
		Threshold: h.cfg.VisibilityThreshold,
		OnChange: func(visible bool) {
			ctrl.SetVisible(visible && h.windowVisible)
		},
	}
	if err := ctrl.Start(ctx, source, load); err != nil {
		return fmt.Errorf("failed to start lens: %w", err)
	}
	return nil
}

// PointerMove forwards a cursor position in window units.
func (h *Host) PointerMove(x, y float64) {
	if h.ctrl != nil {
		h.ctrl.PointerMove(x, y)
	}
}

// Scroll moves the page by a number of wheel notches, positive downward.
func (h *Host) Scroll(notches float64) {
	if !h.page.Scroll(notches * scrollStep) {
		return
	}
	if h.ctrl != nil {
		h.ctrl.Scroll()
	}
}

// Resize updates the page for a new window size.
func (h *Host) Resize(width, height int) {
	h.page.Resize(width, height)
	if h.ctrl != nil {
		h.ctrl.Resize()
	}
}

// SetWindowVisible reports the window being iconified or restored. A hidden
// window counts as the mount being out of view.
func (h *Host) SetWindowVisible(visible bool) {
	h.windowVisible = visible
	if h.ctrl == nil || h.observer == nil {
		return
	}
	h.ctrl.SetVisible(visible && h.observer.Visible())
}

// Frame runs the callbacks due this refresh, then updates mount visibility.
// Visibility is only observed once the lens is running, so the first
// observation always reaches it.
func (h *Host) Frame() int {
	n := h.frames.Flush()
	if h.ctrl != nil && h.ctrl.State() == lens.Running {
		h.observer.Observe(h.page.Bounds(), h.page.Viewport())
	}
	return n
}

// Controller returns the current lens, or nil.
func (h *Host) Controller() *lens.Controller {
	return h.ctrl
}

// Page returns the page the lens is mounted on.
func (h *Host) Page() *lens.Page {
	return h.page
}

// Err returns the failure of the current lens, if any.
func (h *Host) Err() error {
	if h.ctrl == nil {
		return nil
	}
	return h.ctrl.Err()
}

func (h *Host) teardown() {
	if h.ctrl != nil {
		h.ctrl.Teardown()
		h.ctrl = nil
		h.observer = nil
	}
}

// Close tears the lens down.
func (h *Host) Close() {
	h.teardown()
}
