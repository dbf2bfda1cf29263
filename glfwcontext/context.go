package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/golens/graphics"
	options "github.com/richinsley/golens/options"
)

var _ graphics.Context = (*Context)(nil)

// Context wraps a GLFW window and forwards its input events.
type Context struct {
	window *glfw.Window
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()

	onCursor  func(x, y float64)
	onScroll  func(dx, dy float64)
	onResize  func(width, height int)
	onVisible func(visible bool)
}

// New creates and initializes a new GLFW window and returns a Context object.
// A hidden window is used for offscreen recording.
func New(options *options.LensOptions, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*options.Width, *options.Height, "golens", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if c.onCursor != nil {
			c.onCursor(x, y)
		}
	})
	win.SetScrollCallback(func(w *glfw.Window, dx, dy float64) {
		if c.onScroll != nil {
			c.onScroll(dx, dy)
		}
	})
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		if c.onResize != nil {
			c.onResize(width, height)
		}
	})
	win.SetIconifyCallback(func(w *glfw.Window, iconified bool) {
		if c.onVisible != nil {
			c.onVisible(!iconified)
		}
	})

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// OnCursor registers the cursor position handler, in window units.
func (c *Context) OnCursor(f func(x, y float64)) { c.onCursor = f }

// OnScroll registers the mouse wheel handler.
func (c *Context) OnScroll(f func(dx, dy float64)) { c.onScroll = f }

// OnResize registers the window size handler, in window units.
func (c *Context) OnResize(f func(width, height int)) { c.onResize = f }

// OnVisibility registers a handler called when the window is iconified or restored.
func (c *Context) OnVisibility(f func(visible bool)) { c.onVisible = f }

// glfwKeyCallback is the function that will be called by GLFW on a key event.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// Handle the default Escape key behavior
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// SetShouldClose requests the render loop to stop.
func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

// PollEvents processes pending events without presenting, for hidden windows.
func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
