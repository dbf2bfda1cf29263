package host

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/richinsley/golens/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSurface struct {
	draws    int
	released bool
}

func (s *countingSurface) Draw(u *lens.Uniforms) error { s.draws++; return nil }
func (s *countingSurface) Resize(width, height int)    {}
func (s *countingSurface) Release()                    { s.released = true }

func testLoader(w, h int) lens.Loader {
	return func(ctx context.Context) (*lens.Textures, error) {
		return &lens.Textures{
			Source: "test",
			Image:  image.NewNRGBA(image.Rect(0, 0, w, h)),
			Brush:  image.NewNRGBA(image.Rect(0, 0, 8, 8)),
		}, nil
	}
}

type hostHarness struct {
	host     *Host
	surfaces []*countingSurface
	errs     []error
}

func newHostHarness(t *testing.T) *hostHarness {
	t.Helper()
	hh := &hostHarness{}
	page := lens.NewPage(800, 600, 50, 3)
	hh.host = NewHost(lens.DefaultConfig(), page, func(tex *lens.Textures, vp lens.ViewportState) (lens.Surface, error) {
		s := &countingSurface{}
		hh.surfaces = append(hh.surfaces, s)
		return s, nil
	})
	hh.host.OnError(func(err error) { hh.errs = append(hh.errs, err) })
	return hh
}

func (hh *hostHarness) load(t *testing.T, load lens.Loader) {
	t.Helper()
	require.NoError(t, hh.host.Load(context.Background(), "photo.png", load))
	deadline := time.Now().Add(2 * time.Second)
	for hh.host.Controller().State() == lens.Loading {
		require.True(t, time.Now().Before(deadline), "lens never left loading")
		hh.host.Frame()
		time.Sleep(time.Millisecond)
	}
}

func TestHostRunsLens(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(400, 200))
	require.Equal(t, lens.Running, hh.host.Controller().State())

	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, hh.host.Frame())
	}
	require.Len(t, hh.surfaces, 1)
	assert.Equal(t, 6, hh.surfaces[0].draws)

	vp := hh.host.Controller().Viewport()
	assert.Equal(t, 700, vp.Width)
	assert.Equal(t, 500, vp.Height)
	assert.InDelta(t, 2, vp.ImageAspect, 1e-6)
}

func TestHostPointerInsideMount(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))

	hh.host.PointerMove(400, 300)
	cur := hh.host.Controller().Cursor()
	assert.Equal(t, float32(0.15), cur.TargetRadius)
	assert.InDelta(t, 0.5, cur.Target[0], 1e-6)
	assert.InDelta(t, 0.5, cur.Target[1], 1e-6)

	hh.host.PointerMove(10, 10)
	assert.Zero(t, hh.host.Controller().Cursor().TargetRadius)
}

func TestHostScrollMovesMountUnderPointer(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))

	hh.host.PointerMove(400, 100)
	require.Equal(t, float32(0.15), hh.host.Controller().Cursor().TargetRadius)

	// three notches move the page by 120 units; the mount top is now at -70
	hh.host.Scroll(3)
	assert.Equal(t, -70.0, hh.host.Page().Bounds().Top)
	cur := hh.host.Controller().Cursor()
	assert.InDelta(t, 1-(100.0+70)/500, cur.Target[1], 1e-6)

	// scrolling up past the top is clamped and leaves the target alone
	hh.host.Scroll(-100)
	hh.host.Scroll(-1)
	assert.Equal(t, 0.0, hh.host.Page().ScrollY)
}

func TestHostVisibilityCollapsesBrush(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))
	hh.host.Frame()

	// scroll the mount fully out of the window, then report a pointer above
	// the window that still lies inside the mount rectangle
	hh.host.Scroll(30)
	require.Equal(t, -1150.0, hh.host.Page().Bounds().Top)
	hh.host.PointerMove(400, -900)
	require.Equal(t, float32(0.15), hh.host.Controller().Cursor().TargetRadius)

	hh.host.Frame()
	assert.Zero(t, hh.host.Controller().Cursor().TargetRadius)
}

func TestHostPartlyVisibleKeepsBrush(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))
	hh.host.Frame()

	// the mount spans 50..550; scrolling 13 notches leaves 30 of its 500
	// units (6%) inside the window
	hh.host.Scroll(13)
	require.Equal(t, -470.0, hh.host.Page().Bounds().Top)
	hh.host.PointerMove(400, 10)
	require.Equal(t, float32(0.15), hh.host.Controller().Cursor().TargetRadius)

	hh.host.Frame()
	assert.Equal(t, float32(0.15), hh.host.Controller().Cursor().TargetRadius)

	// one more notch takes it fully out of view
	hh.host.Scroll(1)
	hh.host.Frame()
	assert.Zero(t, hh.host.Controller().Cursor().TargetRadius)
}

func TestHostIconifiedCollapsesBrush(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))
	hh.host.Frame()

	hh.host.PointerMove(400, 300)
	hh.host.SetWindowVisible(false)
	assert.Zero(t, hh.host.Controller().Cursor().TargetRadius)
}

func TestHostResize(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))

	hh.host.Resize(1000, 700)
	vp := hh.host.Controller().Viewport()
	assert.Equal(t, 900, vp.Width)
	assert.Equal(t, 600, vp.Height)
	assert.Equal(t, [2]float32{900, 600}, [2]float32(hh.host.Controller().Uniforms().Resolution))
}

func TestHostReloadRebuilds(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))
	first := hh.host.Controller()

	hh.load(t, testLoader(8, 4))
	assert.NotSame(t, first, hh.host.Controller())
	assert.Equal(t, lens.Destroyed, first.State())
	require.Len(t, hh.surfaces, 2)
	assert.True(t, hh.surfaces[0].released)
	assert.False(t, hh.surfaces[1].released)

	// the old lens no longer receives frames
	hh.host.Frame()
	assert.Equal(t, 1, hh.host.Frame())
}

func TestHostLoadFailure(t *testing.T) {
	hh := newHostHarness(t)
	boom := errors.New("boom")
	hh.load(t, func(ctx context.Context) (*lens.Textures, error) { return nil, boom })

	assert.Equal(t, lens.Failed, hh.host.Controller().State())
	require.Len(t, hh.errs, 1)
	assert.ErrorIs(t, hh.errs[0], boom)
	assert.ErrorIs(t, hh.host.Err(), boom)
	assert.Zero(t, hh.host.Frame())
}

func TestHostClose(t *testing.T) {
	hh := newHostHarness(t)
	hh.load(t, testLoader(4, 4))
	hh.host.Close()
	hh.host.Close()
	assert.Nil(t, hh.host.Controller())
	assert.NoError(t, hh.host.Err())
	assert.True(t, hh.surfaces[0].released)
	hh.host.PointerMove(1, 1)
	hh.host.Scroll(1)
	hh.host.Resize(10, 10)
}
