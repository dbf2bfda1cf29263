package graphics

// Context defines the interface for an OpenGL context hosting the lens.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	// GetWindowSize returns the size in window units, the space pointer
	// positions and the mount rectangle are expressed in.
	GetWindowSize() (int, int)
}
