package lens

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// timeStep is added to the shader clock on every tick; animation speed
// follows the display refresh rate.
const timeStep = 0.01

// State is the lifecycle phase of a Controller.
type State int

const (
	Uninitialized State = iota
	Loading
	Running
	Failed
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Textures are the decoded images a lens samples from.
type Textures struct {
	Source string
	Image  image.Image
	Brush  image.Image
}

// Aspect returns the base image width/height.
func (t *Textures) Aspect() float32 {
	b := t.Image.Bounds()
	if b.Dy() == 0 {
		return 1
	}
	return float32(b.Dx()) / float32(b.Dy())
}

// Loader decodes the textures for a lens. It runs off the render thread and
// must honour ctx cancellation.
type Loader func(ctx context.Context) (*Textures, error)

// Surface is a GPU-side render target for one lens: it owns the uploaded
// textures and the shader program, and issues one draw per frame.
type Surface interface {
	Draw(u *Uniforms) error
	Resize(width, height int)
	Release()
}

// SurfaceFactory builds a Surface on the render thread once textures are loaded.
type SurfaceFactory func(tex *Textures, vp ViewportState) (Surface, error)

type loadResult struct {
	tex *Textures
	err error
}

// Controller drives the distortion lens: it owns the cursor and viewport
// state, advances them once per frame and issues the draw call. All methods
// must be called from the render thread.
type Controller struct {
	cfg        Config
	mount      Mount
	frames     Scheduler
	newSurface SurfaceFactory
	onError    func(error)
	now        func() time.Time

	state    State
	err      error
	source   string
	cursor   CursorState
	viewport ViewportState
	uniforms Uniforms
	time     float64
	surface  Surface
	textures *Textures

	cancel     context.CancelFunc
	loaded     chan loadResult
	deadline   time.Time
	pending    FrameHandle
	hasPending bool

	lastX, lastY float64
}

// NewController creates a controller in the Uninitialized state.
func NewController(cfg Config, mount Mount, frames Scheduler, newSurface SurfaceFactory) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lens config: %w", err)
	}
	if mount == nil {
		return nil, fmt.Errorf("lens: nil mount")
	}
	if frames == nil {
		return nil, fmt.Errorf("lens: nil scheduler")
	}
	if newSurface == nil {
		return nil, fmt.Errorf("lens: nil surface factory")
	}
	return &Controller{
		cfg:        cfg,
		mount:      mount,
		frames:     frames,
		newSurface: newSurface,
		now:        time.Now,
		cursor:     newCursorState(),
	}, nil
}

// OnError registers a callback invoked once when the controller fails.
func (c *Controller) OnError(fn func(error)) {
	c.onError = fn
}

// Start begins loading textures and schedules the first frame. The load is
// bounded by Config.LoadTimeout and cancelled by Teardown or by ctx.
func (c *Controller) Start(ctx context.Context, source string, load Loader) error {
	if c.state != Uninitialized {
		return ErrNotUninitialized
	}
	if source == "" || load == nil {
		c.fail(ErrNoSource)
		return ErrNoSource
	}

	c.source = source
	timeout := time.Duration(c.cfg.LoadTimeout)
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	c.cancel = cancel
	c.deadline = c.now().Add(timeout)
	c.loaded = make(chan loadResult, 1)
	c.state = Loading

	go func() {
		tex, err := load(loadCtx)
		if err == nil && loadCtx.Err() != nil {
			err = loadCtx.Err()
		}
		c.loaded <- loadResult{tex: tex, err: err}
	}()

	c.schedule()
	return nil
}

func (c *Controller) schedule() {
	c.pending = c.frames.RequestFrame(c.frame)
	c.hasPending = true
}

func (c *Controller) frame() {
	c.hasPending = false
	switch c.state {
	case Loading:
		c.pollLoad()
	case Running:
		if err := c.Tick(); err != nil {
			c.fail(fmt.Errorf("draw failed: %w", err))
			return
		}
		c.schedule()
	}
}

func (c *Controller) pollLoad() {
	if c.textures == nil {
		select {
		case res := <-c.loaded:
			if res.err != nil {
				if errors.Is(res.err, context.DeadlineExceeded) {
					res.err = ErrLoadTimeout
				}
				c.fail(fmt.Errorf("failed to load textures for %s: %w", c.source, res.err))
				return
			}
			if res.tex == nil || res.tex.Image == nil || res.tex.Brush == nil {
				c.fail(fmt.Errorf("loader returned incomplete textures: %w", ErrNoSource))
				return
			}
			c.textures = res.tex
			b, bb := res.tex.Image.Bounds(), res.tex.Brush.Bounds()
			log.Printf("Image texture loaded: %d %d", b.Dx(), b.Dy())
			log.Printf("Brush texture loaded: %d %d", bb.Dx(), bb.Dy())
		default:
			c.schedule()
			return
		}
	}

	bounds := c.mount.Bounds()
	if bounds.Empty() {
		if c.now().After(c.deadline) {
			c.fail(ErrMountUnavailable)
			return
		}
		c.schedule()
		return
	}

	if err := c.setup(bounds); err != nil {
		c.fail(err)
		return
	}
	if err := c.Tick(); err != nil {
		c.fail(fmt.Errorf("draw failed: %w", err))
		return
	}
	c.schedule()
}

func (c *Controller) setup(bounds Rect) error {
	c.viewport = ViewportState{
		Width:       max(int(math.Round(bounds.Width)), 1),
		Height:      max(int(math.Round(bounds.Height)), 1),
		ImageAspect: c.textures.Aspect(),
	}
	surface, err := c.newSurface(c.textures, c.viewport)
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}
	c.surface = surface
	c.uniforms = Uniforms{
		Mouse:               mgl32.Vec2{0.5, 0.5},
		Resolution:          mgl32.Vec2{float32(c.viewport.Width), float32(c.viewport.Height)},
		Speed:               c.cfg.MaskSpeed,
		ImageAspect:         c.viewport.ImageAspect,
		TurbulenceIntensity: c.cfg.TurbulenceIntensity,
		BrushWarp:           c.cfg.BrushWarp(),
	}
	c.uniforms.UVScale, c.uniforms.UVOffset = c.viewport.Framing(c.cfg.Fit)
	c.state = Running
	return nil
}

// Tick advances the animation by one frame and issues one draw call. It is
// a no-op unless the controller is running.
func (c *Controller) Tick() error {
	if c.state != Running {
		return nil
	}
	c.cursor.advance(c.cfg.LerpFactor, c.cfg.RadiusLerpSpeed)
	c.time += timeStep

	c.uniforms.Mouse = c.cursor.Smoothed
	c.uniforms.Time = float32(c.time)
	c.uniforms.Radius = c.cursor.SmoothedRadius
	return c.surface.Draw(&c.uniforms)
}

func (c *Controller) fail(err error) {
	if c.state == Destroyed || c.state == Failed {
		return
	}
	c.state = Failed
	c.err = err
	c.cancelPending()
	if c.cancel != nil {
		c.cancel()
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Controller) cancelPending() {
	if c.hasPending {
		c.frames.CancelFrame(c.pending)
		c.hasPending = false
	}
}

// PointerMove records the pointer position in window coordinates and
// updates the brush target.
func (c *Controller) PointerMove(x, y float64) {
	if c.state != Running {
		return
	}
	c.updateCursor(x, y)
}

// Scroll re-evaluates the brush target against the moved mount using the
// last known pointer position.
func (c *Controller) Scroll() {
	if c.state != Running {
		return
	}
	c.updateCursor(c.lastX, c.lastY)
}

func (c *Controller) updateCursor(x, y float64) {
	c.lastX, c.lastY = x, y

	rect := c.mount.Bounds()
	if !rect.Empty() && rect.Contains(x, y) {
		c.cursor.Target = mgl32.Vec2{
			float32((x - rect.Left) / rect.Width),
			float32(1 - (y-rect.Top)/rect.Height),
		}
		c.cursor.TargetRadius = c.cfg.MaskRadius
	} else {
		c.cursor.TargetRadius = 0
	}
}

// SetVisible reports whether the mount intersects the viewport. Leaving view
// collapses the brush; frames keep running.
func (c *Controller) SetVisible(visible bool) {
	if c.state != Running {
		return
	}
	if !visible {
		c.cursor.TargetRadius = 0
	}
}

// Resize re-reads the mount size and updates the resolution and framing.
func (c *Controller) Resize() {
	if c.state != Running {
		return
	}
	bounds := c.mount.Bounds()
	if bounds.Empty() {
		return
	}
	width := max(int(math.Round(bounds.Width)), 1)
	height := max(int(math.Round(bounds.Height)), 1)
	if width == c.viewport.Width && height == c.viewport.Height {
		return
	}
	c.viewport.Width, c.viewport.Height = width, height
	c.uniforms.Resolution = mgl32.Vec2{float32(width), float32(height)}
	c.uniforms.UVScale, c.uniforms.UVOffset = c.viewport.Framing(c.cfg.Fit)
	c.surface.Resize(width, height)
}

// Teardown stops the frame schedule, cancels loading and releases the
// surface. It is safe to call in any state and more than once.
func (c *Controller) Teardown() {
	if c.state == Destroyed {
		return
	}
	c.cancelPending()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	c.textures = nil
	c.state = Destroyed
}

func (c *Controller) State() State            { return c.state }
func (c *Controller) Err() error              { return c.err }
func (c *Controller) Cursor() CursorState     { return c.cursor }
func (c *Controller) Uniforms() Uniforms      { return c.uniforms }
func (c *Controller) Viewport() ViewportState { return c.viewport }
func (c *Controller) Config() Config          { return c.cfg }
func (c *Controller) Source() string          { return c.source }
