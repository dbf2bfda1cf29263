package lens

import "errors"

var (
	// ErrNoSource is returned when the controller is started without an image source.
	ErrNoSource = errors.New("lens: no image source")

	// ErrMountUnavailable is reported when the mount rectangle stays empty past the load deadline.
	ErrMountUnavailable = errors.New("lens: mount point not available")

	// ErrLoadTimeout is reported when textures do not finish loading before the deadline.
	ErrLoadTimeout = errors.New("lens: texture load timed out")

	// ErrNotUninitialized is returned by Start on a controller that was already started.
	ErrNotUninitialized = errors.New("lens: controller already started")
)
