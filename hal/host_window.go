//go:build !tinygo

package hal

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"beacon/internal/buildinfo"
)

const (
	windowWidth  = 240
	windowHeight = 160
)

// RunWindow starts a desktop window that displays the decoded LED color
// and drives the app step. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg SimConfig) error {
	h := NewWithConfig(cfg).(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("beacon (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(windowWidth*2, windowHeight*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	step func() error
}

func (g *hostGame) Update() error {
	g.h.ticker.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	c := g.h.strip.Color()
	screen.Fill(rgbaFrom(c.R, c.G, c.B))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d  #%02X%02X%02X",
		g.h.ticker.Fired(), c.R, c.G, c.B))
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func rgbaFrom(r, gr, b uint8) color.RGBA {
	return color.RGBA{R: r, G: gr, B: b, A: 0xFF}
}
