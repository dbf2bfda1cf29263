package host

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/richinsley/golens/lens"
)

// snapshotFPS is the refresh rate the snapshot animation is simulated at.
const snapshotFPS = 60

// cpuSurface keeps the decoded textures as samplers and records the uniforms
// of the last draw. It lets the controller run without a GPU.
type cpuSurface struct {
	base, brush *lens.ImageSampler
	last        lens.Uniforms
	draws       int
}

func (s *cpuSurface) Draw(u *lens.Uniforms) error {
	s.last = *u
	s.draws++
	return nil
}

func (s *cpuSurface) Resize(width, height int) {}
func (s *cpuSurface) Release()                 {}

// Snapshot runs a lens for the given seconds of animation with the scripted
// pointer, then renders the final frame on the CPU.
func Snapshot(ctx context.Context, cfg lens.Config, source string, load lens.Loader, width, height int, seconds float64) (*image.NRGBA, error) {
	page := lens.NewPage(width, height, 0, 1)
	frames := lens.NewFrameQueue()
	var surface *cpuSurface
	ctrl, err := lens.NewController(cfg, page, frames, func(tex *lens.Textures, vp lens.ViewportState) (lens.Surface, error) {
		surface = &cpuSurface{
			base:  lens.NewImageSampler(tex.Image),
			brush: lens.NewImageSampler(tex.Brush),
		}
		return surface, nil
	})
	if err != nil {
		return nil, err
	}
	defer ctrl.Teardown()

	if err := ctrl.Start(ctx, source, load); err != nil {
		return nil, err
	}
	for ctrl.State() == lens.Loading {
		frames.Flush()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	if ctrl.State() != lens.Running {
		return nil, fmt.Errorf("lens did not start: %w", ctrl.Err())
	}

	ticks := int(seconds * snapshotFPS)
	for i := 0; i < ticks; i++ {
		ctrl.PointerMove(PointerPath(float64(i)/snapshotFPS, page.Bounds()))
		frames.Flush()
	}
	if err := ctrl.Err(); err != nil {
		return nil, err
	}

	u := surface.last
	return lens.Render(&u, width, height, surface.base, surface.brush), nil
}
