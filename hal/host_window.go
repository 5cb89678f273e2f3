//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"
	"time"

	"caekeeb/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowScale = 4
	stripHeight = 24
	// maxCatchUp bounds the ticks replayed after a stalled frame.
	maxCatchUp = 100
)

// oledColor is the tint of a lit OLED pixel.
var oledColor = color.RGBA{R: 0x9F, G: 0xD8, B: 0xFF, A: 0xFF}

// RunWindow opens a desktop window showing the OLED and the LED strip and
// feeds the desktop keyboard into the matrix. The alarm must already be
// started; it is paced by the wall clock. step runs after every period.
// RunWindow blocks until the window closes.
func RunWindow(h *Host, step func() error) error {
	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("caekeeb (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, h.fb.height*windowScale+stripHeight)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *Host
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	pollKeys(g.h.keys)
	n := g.h.alarm.catchUp(time.Now(), maxCatchUp)
	for i := 0; i < n; i++ {
		if err := g.h.Step(); err != nil {
			return err
		}
		if g.step != nil {
			if err := g.step(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}
	fb.snapshotRGBA(g.img.Pix, oledColor)
	g.fbImg.WritePixels(g.img.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(windowScale, windowScale)
	screen.DrawImage(g.fbImg, op)

	colors := g.h.strip.Colors()
	if len(colors) == 0 {
		return
	}
	w := fb.width * windowScale
	y0 := fb.height * windowScale
	for i, c := range colors {
		x0 := i * w / len(colors)
		x1 := (i + 1) * w / len(colors)
		r := image.Rect(x0+1, y0+2, x1-1, y0+stripHeight-2)
		screen.SubImage(r).(*ebiten.Image).Fill(c)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width * windowScale, g.h.fb.height*windowScale + stripHeight
}
