// Package ssd1306 controls a SSD1306 monochrome OLED display via SPI or I²C.
//
// The SSD1306 drives up to 128x64 pixels stored as 8 pixel vertical pages.
// Common display resolutions are 128x64, 128x32 and 64x48.
//
// See the examples for how to use this package.
package ssd1306

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/monoblit/ssd1306/font"
	"github.com/monoblit/ssd1306/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultAddress is the I²C address used when the SA0 pin is low.
const DefaultAddress uint16 = 0x3C

// ramColumns is the width of the controller's display RAM.
const ramColumns = 128

var errHalted = errors.New("ssd1306: halted")

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 128, must be ≤128)
	H int // Height (default: 64, must be a multiple of 8 and ≤64)

	// Rotation and COM pin wiring
	Rotated       bool // 180° rotation
	Sequential    bool // Sequential COM pin configuration (most 128x32 panels)
	SwapTopBottom bool // Swap top/bottom display halves

	// Optional hardware reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)

	// IgnoreOutOfBounds drops DrawPixel calls outside the display instead of
	// returning an error.
	IgnoreOutOfBounds bool
}

// Dev is the device handle for the SSD1306 display.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI or I²C connection
	dc  gpio.PinOut // Data/Command pin, nil on I²C
	rst gpio.PinIO  // Reset pin (optional)

	// Display geometry
	rect         image.Rectangle
	columnOffset int // For centering narrow panels in the 128-column RAM

	// Pixel buffers
	buffer *image1bit.Bitmap // Current frame
	last   []byte            // Last transmitted frame for differential updates

	// State
	halted bool
	stale  bool // RAM content is unknown, the next Show sends the full frame
}

var _ display.Drawer = (*Dev)(nil)

// NewSPI creates a new SSD1306 device connected via 4-wire SPI.
//
// The SPI port is configured for 8MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use defaults (128x64 display).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("ssd1306: dc pin is required")
	}
	opts, err := checkOpts(opts)
	if err != nil {
		return nil, err
	}

	// SSD1306 supports up to 10MHz on SPI.
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return newDev(c, dc, opts)
}

// NewI2C creates a new SSD1306 device connected via I²C.
//
// addr is usually DefaultAddress (0x3C) or 0x3D. opts can be nil to use
// defaults (128x64 display).
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	opts, err := checkOpts(opts)
	if err != nil {
		return nil, err
	}
	return newDev(&i2c.Dev{Bus: b, Addr: addr}, nil, opts)
}

// checkOpts applies defaults and validates options.
func checkOpts(opts *Opts) (*Opts, error) {
	if opts == nil {
		opts = &Opts{W: 128, H: 64}
	}
	if opts.W <= 0 || opts.W > ramColumns {
		return nil, errors.New("ssd1306: width must be between 1 and 128")
	}
	if opts.H <= 0 || opts.H > 64 || opts.H%8 != 0 {
		return nil, errors.New("ssd1306: height must be a multiple of 8 between 8 and 64")
	}
	return opts, nil
}

func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	buffer, err := image1bit.FromBuffer(opts.W, opts.H, make([]byte, opts.W*opts.H/8), image1bit.TopToBottomLSBFirst)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	buffer.IgnoreOutOfBounds = opts.IgnoreOutOfBounds

	d := &Dev{
		c:            c,
		dc:           dc,
		rst:          opts.RST,
		rect:         image.Rect(0, 0, opts.W, opts.H),
		columnOffset: (ramColumns - opts.W) / 2,
		buffer:       buffer,
	}

	// Initialize the display
	if err := d.init(opts); err != nil {
		return nil, err
	}

	return d, nil
}

// initCmds returns the setup sequence for the display.
func initCmds(opts *Opts) []byte {
	// Segment remap and COM scan direction: adjust for rotation
	segRemap, comScan := byte(0xA1), byte(0xC8)
	if opts.Rotated {
		segRemap = 0xA0
		comScan = 0xC0
	}
	comPins := byte(0x12) // Alternative COM pin configuration
	if opts.Sequential {
		comPins = 0x02
	}
	if opts.SwapTopBottom {
		comPins |= 0x20
	}

	return []byte{
		0xAE,       // Display OFF
		0xD5, 0x80, // Clock divider and oscillator frequency
		0xA8, byte(opts.H - 1), // MUX ratio
		0xD3, 0x00, // Display offset
		0x40,       // Start line 0
		0x8D, 0x14, // Enable charge pump
		0x20, 0x00, // Horizontal addressing mode
		segRemap,
		comScan,
		0xDA, comPins, // COM pins hardware configuration
		0x81, 0xFF, // Contrast (max)
		0xD9, 0xF1, // Pre-charge period
		0xDB, 0x40, // VCOMH deselect level
		0xA4, // Resume display from RAM
		0xA6, // Normal display mode
		0x2E, // Deactivate scroll
		0xAF, // Display ON
	}
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST high: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := d.sendCommands(initCmds(opts)); err != nil {
		return err
	}

	// Clear display RAM
	if err := d.writeFullFrame(d.buffer.Buffer()); err != nil {
		return err
	}
	d.last = bytes.Clone(d.buffer.Buffer())
	return nil
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

// sendCommands sends a slice of command bytes.
func (d *Dev) sendCommands(cmds []byte) error {
	if d.dc == nil {
		// I²C control byte: Co=0, D/C#=0
		return d.tx(append([]byte{0x00}, cmds...))
	}
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return d.tx(cmds)
}

// sendData sends a slice of data bytes.
func (d *Dev) sendData(data []byte) error {
	if d.dc == nil {
		// I²C control byte: Co=0, D/C#=1
		return d.tx(append([]byte{0x40}, data...))
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return d.tx(data)
}

func (d *Dev) tx(w []byte) error {
	if err := d.c.Tx(w, nil); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return nil
}

// writeRect writes page data to a window of the display. x and width are in
// pixels, page and pages in 8 pixel pages.
func (d *Dev) writeRect(x, width, page, pages int, data []byte) error {
	colStart := byte(x + d.columnOffset)
	colEnd := byte(x + width - 1 + d.columnOffset)

	// Set addressing window
	commands := []byte{
		0x21, colStart, colEnd, // Column address
		0x22, byte(page), byte(page + pages - 1), // Page address
	}

	if err := d.sendCommands(commands); err != nil {
		return err
	}

	// Send pixel data
	return d.sendData(data)
}

// writeFullFrame writes the entire frame buffer to the display.
func (d *Dev) writeFullFrame(pixels []byte) error {
	return d.writeRect(0, d.rect.Dx(), 0, d.buffer.HeightInBytes(), pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Buffer returns the frame buffer. Changes are sent to the display by Show.
func (d *Dev) Buffer() *image1bit.Bitmap {
	return d.buffer
}

// Write writes raw pixel data to the display in TopToBottomLSBFirst page format.
// The data must be exactly d.rect.Dx() * d.rect.Dy() / 8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != len(d.buffer.Buffer()) {
		return 0, errors.New("ssd1306: invalid buffer size")
	}
	if err := d.writeFullFrame(pixels); err != nil {
		return 0, err
	}
	copy(d.buffer.Buffer(), pixels)
	copy(d.last, pixels)
	return len(pixels), nil
}

// Draw draws an image onto the display with differential update optimization.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	// Clip to display bounds
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: a full frame already in the controller's format
	if srcImg, ok := src.(*image1bit.Bitmap); ok && srcImg.Direction() == image1bit.TopToBottomLSBFirst {
		zeroPoint := image.Point{}
		if dst == d.rect && sp == zeroPoint && srcImg.Bounds() == d.rect {
			copy(d.buffer.Buffer(), srcImg.Buffer())
			return d.Show()
		}
	}

	// Slow path: render to buffer with differential updates
	draw.Draw(d.buffer, dst, src, sp, draw.Src)
	return d.Show()
}

// Show sends the frame buffer to the display. Only the smallest window of
// pages and columns that changed since the last transfer is sent.
func (d *Dev) Show() error {
	if d.halted {
		return errHalted
	}

	if d.stale {
		if err := d.writeFullFrame(d.buffer.Buffer()); err != nil {
			return err
		}
		copy(d.last, d.buffer.Buffer())
		d.stale = false
		return nil
	}

	// Calculate minimal bounding box of changed pages
	minCol, maxCol, minPage, maxPage := d.calculateDiff()
	if minCol > maxCol {
		// No changes
		return nil
	}

	// Extract changed region
	changedData := d.extractRegion(minCol, maxCol, minPage, maxPage)

	// Write to display
	if err := d.writeRect(minCol, maxCol-minCol+1, minPage, maxPage-minPage+1, changedData); err != nil {
		return err
	}

	copy(d.last, d.buffer.Buffer())
	return nil
}

// calculateDiff compares the current and last buffers to find the minimal
// changed region. Returns (minCol, maxCol, minPage, maxPage) or (1, 0, 0, 0) if no changes.
func (d *Dev) calculateDiff() (minCol, maxCol, minPage, maxPage int) {
	width := d.rect.Dx()
	pix := d.buffer.Buffer()

	minCol, maxCol = width, -1
	minPage, maxPage = d.buffer.HeightInBytes(), -1

	// Scan page by page to find differences
	for page := 0; page < d.buffer.HeightInBytes(); page++ {
		start := page * width
		end := start + width

		if bytes.Equal(d.last[start:end], pix[start:end]) {
			continue
		}
		minPage = min(minPage, page)
		maxPage = max(maxPage, page)

		// Scan columns within this page for precise boundaries
		for x := 0; x < width; x++ {
			if d.last[start+x] != pix[start+x] {
				minCol = min(minCol, x)
				maxCol = max(maxCol, x)
			}
		}
	}

	if maxCol < 0 {
		return 1, 0, 0, 0
	}
	return
}

// extractRegion extracts the page data for a rectangular region.
func (d *Dev) extractRegion(minCol, maxCol, minPage, maxPage int) []byte {
	width := d.rect.Dx()
	cols := maxCol - minCol + 1

	result := make([]byte, 0, cols*(maxPage-minPage+1))
	for page := minPage; page <= maxPage; page++ {
		start := page*width + minCol
		result = append(result, d.buffer.Buffer()[start:start+cols]...)
	}

	return result
}

// Clear turns off every pixel of the frame buffer. Call Show to update the display.
// It does nothing while the display is halted.
func (d *Dev) Clear() {
	if d.halted {
		return
	}
	d.buffer.Fill(false)
}

// DrawPixel lights or clears a single pixel of the frame buffer.
func (d *Dev) DrawPixel(x, y int, on bool) error {
	if d.halted {
		return errHalted
	}
	if err := d.buffer.SetPixel(x, y, on); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return nil
}

// DrawBitmap merges bm into the frame buffer with its top left corner at (x, y).
// y must be a multiple of 8 and bm must use TopToBottomLSBFirst order.
func (d *Dev) DrawBitmap(x, y int, bm *image1bit.Bitmap, mode image1bit.MergeMode) error {
	if d.halted {
		return errHalted
	}
	if err := d.buffer.MergeInto(x, y, bm, mode); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return nil
}

// DrawText renders text with face and merges it into the frame buffer at (x, y).
func (d *Dev) DrawText(x, y int, face *font.Face, text string, mode image1bit.MergeMode) error {
	if d.halted {
		return errHalted
	}
	bm, err := face.Bitmap(text)
	if err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	if bm == nil {
		return nil
	}
	return d.DrawBitmap(x, y, bm, mode)
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return errHalted
	}
	return d.sendCommands([]byte{0x81, contrast})
}

// Invert inverts the display colors (lit pixels become unlit and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.sendCommand(mode)
}

// Halt turns the display off. Every other operation fails with an error until
// Resume is called.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommand(0xAE) // Display OFF
}

// Resume turns a halted display back on. The next Show sends the full frame.
func (d *Dev) Resume() error {
	if err := d.sendCommand(0xAF); err != nil { // Display ON
		return err
	}
	d.halted = false
	d.stale = true
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollDirection selects the hardware scroll mode.
type ScrollDirection byte

const (
	ScrollLeft ScrollDirection = iota
	ScrollRight
	ScrollRightVertical // Vertical and right horizontal scroll
	ScrollLeftVertical  // Vertical and left horizontal scroll
)

// StartScroll starts hardware scrolling of pages startPage to endPage, which
// must be pages of the display (0 to H/8-1). Any running scroll is stopped first, as required by the datasheet to avoid
// RAM corruption.
func (d *Dev) StartScroll(dir ScrollDirection, startPage, endPage byte) error {
	if d.halted {
		return errHalted
	}
	if last := d.buffer.HeightInBytes() - 1; int(startPage) > last || int(endPage) > last || startPage > endPage {
		return errors.New("ssd1306: scroll page out of range")
	}
	if err := d.StopScroll(); err != nil {
		return err
	}

	var cmds []byte
	switch dir {
	case ScrollLeft, ScrollRight:
		cmd := byte(0x26) // Right
		if dir == ScrollLeft {
			cmd = 0x27
		}
		cmds = []byte{
			cmd,
			0x00,      // Dummy byte
			startPage, // Start page
			0x00,      // Interval: 5 frames
			endPage,   // End page
			0x00, 0xFF, // Dummy bytes
			0x2F, // Activate scroll
		}
	case ScrollRightVertical, ScrollLeftVertical:
		cmd := byte(0x29) // Vertical and right
		if dir == ScrollLeftVertical {
			cmd = 0x2A
		}
		cmds = []byte{
			0xA3, 0x00, byte(d.rect.Dy()), // Vertical scroll area
			cmd,
			0x00,      // Dummy byte
			startPage, // Start page
			0x00,      // Interval: 5 frames
			endPage,   // End page
			0x01,      // Vertical offset: 1 row
			0x2F,      // Activate scroll
		}
	default:
		return fmt.Errorf("ssd1306: unknown scroll direction %d", dir)
	}
	return d.sendCommands(cmds)
}

// StopScroll stops all scrolling. The next Show rewrites the whole display RAM.
func (d *Dev) StopScroll() error {
	if d.halted {
		return errHalted
	}
	if err := d.sendCommand(0x2E); err != nil { // Deactivate scroll
		return err
	}
	d.stale = true
	return nil
}
