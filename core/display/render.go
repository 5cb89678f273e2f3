package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	On  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Off = color.RGBA{A: 255}
)

// Geometry of the cat on a 128x64 panel. Smaller panels are clipped by the
// driver.
const (
	tableY    = 48
	pawW      = 16
	pawH      = 6
	leftPawX  = 30
	rightPawX = 82
	pawUpY    = 36
	pawDownY  = 44
	captionY  = 62
)

var font tinyfont.Fonter = &proggy.TinySZ8pt7b

// Render draws sprite s with an optional caption line and flushes d.
func Render(d drivers.Displayer, s Sprite, caption string) error {
	w, h := d.Size()
	fillRect(d, 0, 0, w, h, Off)

	drawHead(d)
	fillRect(d, 0, tableY, w, 1, On)

	leftY, rightY := int16(pawUpY), int16(pawUpY)
	switch s {
	case TapLeft:
		leftY = pawDownY
	case TapRight:
		rightY = pawDownY
	}
	fillRect(d, leftPawX, leftY, pawW, pawH, On)
	fillRect(d, rightPawX, rightY, pawW, pawH, On)

	if caption != "" {
		tinyfont.WriteLine(d, font, 0, captionY, caption, On)
	}
	return d.Display()
}

// drawHead outlines the head with two ears, eyes and a nose.
func drawHead(d drivers.Displayer) {
	const x, y, w, h = 40, 10, 48, 24
	fillRect(d, x, y, w, 1, On)
	fillRect(d, x, y+h-1, w, 1, On)
	fillRect(d, x, y, 1, h, On)
	fillRect(d, x+w-1, y, 1, h, On)
	for i := int16(0); i < 6; i++ {
		d.SetPixel(x+i, y-6+i, On)
		d.SetPixel(x+12-i, y-6+i, On)
		d.SetPixel(x+w-1-i, y-6+i, On)
		d.SetPixel(x+w-13+i, y-6+i, On)
	}
	fillRect(d, x+12, y+8, 3, 3, On)
	fillRect(d, x+w-15, y+8, 3, 3, On)
	fillRect(d, x+w/2-1, y+14, 2, 2, On)
}

func fillRect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, c)
		}
	}
}
