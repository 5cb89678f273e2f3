//go:build !tinygo

package hal

import "image/color"

// pixel565 is one simulated OLED pixel. The panel is mono, but keeping the
// drawn colour lets the window tint it and lets tests tell colours apart.
type pixel565 uint16

func toPixel565(c color.RGBA) pixel565 {
	r := uint16(c.R>>3) & 0x1F
	g := uint16(c.G>>2) & 0x3F
	b := uint16(c.B>>3) & 0x1F
	return pixel565(r<<11 | g<<5 | b)
}

func (p pixel565) lit() bool { return p != 0 }

// scaled expands p to 8-bit channels and multiplies them by tint.
func (p pixel565) scaled(tint color.RGBA) (r, g, b uint8) {
	r = uint8(uint32((p>>11)&0x1F) * 255 / 31 * uint32(tint.R) / 255)
	g = uint8(uint32((p>>5)&0x3F) * 255 / 63 * uint32(tint.G) / 255)
	b = uint8(uint32(p&0x1F) * 255 / 31 * uint32(tint.B) / 255)
	return r, g, b
}
