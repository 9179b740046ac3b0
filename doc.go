// Package ssd1306 controls a SSD1306 OLED display via SPI or I²C.
//
// The SSD1306 is a monochrome OLED controller with a 128×64 pixel RAM organised
// in 8 pages of 8 pixel rows. Each RAM byte holds a vertical strip of 8 pixels,
// least significant bit on top. This driver implements the display.Drawer
// interface from periph.io and the Displayer interface from tinygo.org/x/drivers.
//
// # Display Characteristics
//
// - 1 bit per pixel (on or off)
// - Resolutions up to 128×64 (typically 128×64, 128×32 or 64×48)
// - Hardware scrolling support (horizontal and diagonal)
// - Adjustable contrast (0-255)
// - Display inversion
// - Narrow panels are centred in the 128-column RAM automatically
//
// # Hardware Connection
//
// Connect the SSD1306 display via 4-wire SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	D0/CLK      → SPI Clock (SCLK)
//	D1/MOSI     → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RES         → Optional: GPIO for hardware reset
//
// Or via I²C, where the DC pin is not needed:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I²C Clock
//	SDA         → I²C Data
//
// The I²C address is 0x3C (DefaultAddress), or 0x3D when SA0 is tied high.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/monoblit/ssd1306"
//		"github.com/monoblit/ssd1306/font"
//		"github.com/monoblit/ssd1306/image1bit"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		dev, _ := ssd1306.NewI2C(bus, ssd1306.DefaultAddress, &ssd1306.Opts{W: 128, H: 64})
//		defer dev.Halt()
//
//		face, _ := font.NewFace(nil, image1bit.TopToBottomLSBFirst)
//		dev.DrawText(0, 0, face, "Hello", image1bit.Or)
//		dev.Show()
//	}
//
// # Frame Buffer
//
// Drawing happens in an in-memory image1bit.Bitmap returned by Buffer.
// DrawPixel, DrawBitmap, DrawText and Clear only modify that buffer; Show sends
// the smallest window of columns and pages that changed since the last
// transfer. Draw renders any image.Image into the buffer and calls Show.
//
// Bitmaps are merged on page boundaries, so the y coordinate given to
// DrawBitmap and DrawText must be a multiple of 8:
//
//	logo, _ := image1bit.FromBuffer(16, 16, logoBytes, image1bit.TopToBottomLSBFirst)
//	dev.DrawBitmap(56, 24, logo, image1bit.XOr)
//	dev.Show()
//
// Photos can be converted with dithering first:
//
//	bm, _ := image1bit.FromImage(photo, image1bit.TopToBottomLSBFirst,
//		&image1bit.ConvertOpts{W: 128, H: 64, Dither: true})
//	dev.Draw(dev.Bounds(), bm, image.Point{})
//
// # Full-Frame Update
//
// Write sends raw page data straight to the display:
//
//	pixels := make([]byte, 128*64/8) // 1024 bytes for 128×64
//	// ... fill pixels ...
//	dev.Write(pixels)
//
// # Hardware Scrolling
//
//	dev.StartScroll(ssd1306.ScrollLeft, 0, 7)
//	time.Sleep(5 * time.Second)
//	dev.StopScroll()
//
// The display RAM content is undefined after scrolling, so the first Show after
// StopScroll sends the whole frame.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
