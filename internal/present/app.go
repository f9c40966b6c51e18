// Package present implements a windowed ebiten.Game that drives a
// machine.Machine and draws its PPU framebuffer, the demo surface a
// complete repo needs to see the renderer's output — not part of the
// PPU's own contract.
package present

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"vt168ppu/internal/machine"
)

const outWidth, outHeight = 256, 240

// App implements ebiten.Game, mirroring internal/ui/ebitenapp.go's
// structure with the Game Boy input map, menu system, and audio removed:
// this PPU has no CPU driving it, so there is nothing for a gamepad to
// control beyond pause/step.
type App struct {
	cfg Config
	m   *machine.Machine
	tex *ebiten.Image

	paused     bool
	frameCount int
	pix        []byte // scratch RGBA8888 buffer for WritePixels
}

func NewApp(cfg Config, m *machine.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(outWidth*cfg.Scale, outHeight*cfg.Scale)
	return &App{cfg: cfg, m: m, pix: make([]byte, outWidth*outHeight*4)}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.m.StepFrame()
			a.frameCount++
		}
		return nil
	}
	a.m.StepFrame()
	a.frameCount++
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(outWidth, outHeight)
	}
	fb := a.m.Framebuffer()
	for i, argb := range fb {
		o := i * 4
		a.pix[o+0] = byte(argb >> 16) // R
		a.pix[o+1] = byte(argb >> 8)  // G
		a.pix[o+2] = byte(argb)       // B
		a.pix[o+3] = byte(argb >> 24) // A
	}
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	status := "RUN"
	if a.paused {
		status = "PAUSED"
	}
	vblank := "no"
	if a.m.IsVBlank() {
		vblank = "yes"
	}
	osd := fmt.Sprintf("frame=%d %s vblank=%s done=%v", a.frameCount, status, vblank, a.m.IsRenderDone())
	text.Draw(screen, osd, basicfont.Face7x13, 4, 14, color.RGBA{0, 220, 90, 255})
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return outWidth, outHeight }
