package ssd1306

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Dev also implements the TinyGo drivers.Displayer interface so that
// tinydraw and tinyfont can render onto it.
var _ drivers.Displayer = (*Dev)(nil)

// Size returns the display size in pixels.
func (d *Dev) Size() (x, y int16) {
	return int16(d.rect.Dx()), int16(d.rect.Dy())
}

// SetPixel sets a pixel of the frame buffer. Colors with a luminance of 50%
// or more light the pixel; points outside the display are ignored, as are all
// points while the display is halted.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	if d.halted {
		return
	}
	d.buffer.Set(int(x), int(y), c)
}

// Display sends the frame buffer to the display.
func (d *Dev) Display() error {
	return d.Show()
}
