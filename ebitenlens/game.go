package ebitenlens

import (
	"context"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/richinsley/golens/host"
	"github.com/richinsley/golens/lens"
)

var clearColor = color.RGBA{0x33, 0x33, 0x33, 0xff}

// Game runs a lens inside an Ebitengine window. Update is one display
// refresh: it forwards input to the host and runs the frame callbacks.
type Game struct {
	host    *host.Host
	surface *Surface

	width, height int
	cursorX       int
	cursorY       int
	minimized     bool
}

// NewGame creates a game for a window of the given size.
func NewGame(cfg lens.Config, width, height int, inset, pageScale float64) *Game {
	g := &Game{width: width, height: height, cursorX: -1, cursorY: -1}
	page := lens.NewPage(width, height, inset, pageScale)
	g.host = host.NewHost(cfg, page, func(tex *lens.Textures, vp lens.ViewportState) (lens.Surface, error) {
		s, err := NewSurface(page, tex)
		if err != nil {
			return nil, err
		}
		g.surface = s
		return s, nil
	})
	g.host.OnError(func(err error) {
		log.Printf("Lens failed: %v", err)
	})
	return g
}

// Load starts a lens for source, replacing the current one.
func (g *Game) Load(ctx context.Context, source string, load lens.Loader) error {
	g.surface = nil
	return g.host.Load(ctx, source, load)
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if x, y := ebiten.CursorPosition(); x != g.cursorX || y != g.cursorY {
		g.cursorX, g.cursorY = x, y
		g.host.PointerMove(float64(x), float64(y))
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.host.Scroll(-dy)
	}
	if minimized := ebiten.IsWindowMinimized(); minimized != g.minimized {
		g.minimized = minimized
		g.host.SetWindowVisible(!minimized)
	}

	g.host.Frame()
	return g.host.Err()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	if g.surface != nil {
		g.surface.Render(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.host.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
