package lens

import "math"

// Rect is an axis-aligned rectangle in window (client) coordinates,
// Y growing downward.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// IntersectionRatio returns the fraction of target's area visible inside root.
func IntersectionRatio(target, root Rect) float64 {
	if target.Empty() {
		return 0
	}
	in := target.Intersect(root)
	return (in.Width * in.Height) / (target.Width * target.Height)
}

// Mount is the element the lens renders into. Bounds returns its current
// bounding rectangle relative to the window.
type Mount interface {
	Bounds() Rect
}

// Page lays a single mount rectangle out on a vertically scrollable page
// inside a window. The mount is inset from the window edges and the page is
// PageScale window-heights tall, so scrolling can move the mount partly or
// wholly out of view.
type Page struct {
	WindowWidth  float64
	WindowHeight float64
	Inset        float64
	PageScale    float64
	ScrollY      float64
}

// NewPage creates a page for a window of the given size.
func NewPage(width, height int, inset, pageScale float64) *Page {
	if pageScale < 1 {
		pageScale = 1
	}
	return &Page{
		WindowWidth:  float64(width),
		WindowHeight: float64(height),
		Inset:        math.Max(inset, 0),
		PageScale:    pageScale,
	}
}

// Bounds implements Mount.
func (p *Page) Bounds() Rect {
	return Rect{
		Left:   p.Inset,
		Top:    p.Inset - p.ScrollY,
		Width:  math.Max(p.WindowWidth-2*p.Inset, 0),
		Height: math.Max(p.WindowHeight-2*p.Inset, 0),
	}
}

// Viewport returns the visible window area.
func (p *Page) Viewport() Rect {
	return Rect{Width: p.WindowWidth, Height: p.WindowHeight}
}

// Scroll moves the page by dy window units and clamps it to the page extent.
// It reports whether the scroll position changed.
func (p *Page) Scroll(dy float64) bool {
	maxScroll := p.WindowHeight * (p.PageScale - 1)
	next := math.Min(math.Max(p.ScrollY+dy, 0), maxScroll)
	if next == p.ScrollY {
		return false
	}
	p.ScrollY = next
	return true
}

// Resize updates the window size, keeping the scroll position in range.
func (p *Page) Resize(width, height int) {
	p.WindowWidth = float64(width)
	p.WindowHeight = float64(height)
	p.Scroll(0)
}

// VisibilityObserver reports whether a target intersects a root rectangle.
// OnChange runs on the first observation, when the intersection ratio crosses
// Threshold in either direction, and when the target starts or stops
// intersecting. The reported value is whether any part of the target is
// inside the root; Threshold only decides when a notification is due.
type VisibilityObserver struct {
	Threshold float64
	OnChange  func(visible bool)

	visible  bool
	above    bool
	observed bool
}

// Observe recomputes the intersection and notifies OnChange when due.
func (o *VisibilityObserver) Observe(target, root Rect) {
	ratio := IntersectionRatio(target, root)
	visible := ratio > 0
	above := visible && ratio >= o.Threshold
	if o.observed && visible == o.visible && above == o.above {
		return
	}
	o.observed = true
	o.visible = visible
	o.above = above
	if o.OnChange != nil {
		o.OnChange(visible)
	}
}

// Visible returns whether the target intersected the root at the last
// observation.
func (o *VisibilityObserver) Visible() bool {
	return o.visible
}
