// Package image1bit provides a 1-bit monochrome image format optimized for page-addressed displays.
//
// Each byte holds a vertical strip of 8 pixels (a page). The bit order within
// the strip is selected with a ByteDirection when the Bitmap is created.
package image1bit

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"
)

// Bit represents a monochrome pixel: true is lit (white), false is unlit (black).
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (c Bit) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit by thresholding its luminance at 50%.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// ByteDirection is the packing convention of pixels into bytes.
type ByteDirection uint8

const (
	LeftToRightLSBFirst ByteDirection = iota
	LeftToRightMSBFirst
	TopToBottomLSBFirst
	TopToBottomMSBFirst
)

var directionNames = [...]string{
	LeftToRightLSBFirst: "LeftToRightLSBFirst",
	LeftToRightMSBFirst: "LeftToRightMSBFirst",
	TopToBottomLSBFirst: "TopToBottomLSBFirst",
	TopToBottomMSBFirst: "TopToBottomMSBFirst",
}

func (d ByteDirection) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("ByteDirection(%d)", d)
}

// Supported reports whether Bitmaps can be built with direction d.
func (d ByteDirection) Supported() bool {
	_, err := d.msbTop()
	return err == nil
}

// msbTop reports whether the most significant bit of a byte is the topmost
// pixel of its page. Only the page (TopToBottom) directions are supported.
func (d ByteDirection) msbTop() (bool, error) {
	switch d {
	case TopToBottomLSBFirst:
		return false, nil
	case TopToBottomMSBFirst:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedDirection, d)
	}
}

// MergeMode is the operator applied per byte by MergeInto.
type MergeMode uint8

const (
	Copy MergeMode = iota
	And
	Or
	XOr
)

func (m MergeMode) String() string {
	switch m {
	case Copy:
		return "Copy"
	case And:
		return "And"
	case Or:
		return "Or"
	case XOr:
		return "XOr"
	}
	return fmt.Sprintf("MergeMode(%d)", m)
}

// InvertLSB reverses the bit order of b, turning an LSB-top page byte into an
// MSB-top one and back.
func InvertLSB(b byte) byte {
	return bits.Reverse8(b)
}

// pageCount returns the number of 8 pixel pages needed for height rows.
func pageCount(height int) int {
	return height/8 + (height%8+7)/8
}

// bufferSize returns the number of bytes of a width x height bitmap.
func bufferSize(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: negative size %dx%d", ErrSizeMismatch, width, height)
	}
	pages := pageCount(height)
	if pages != 0 && width > math.MaxInt/pages {
		return 0, fmt.Errorf("%w: %dx%d does not fit in memory", ErrSizeMismatch, width, height)
	}
	return width * pages, nil
}

// Bitmap is a 1-bit image stored as vertical pages of 8 pixels.
//
// The byte at index page*Width()+x holds pixels (x, page*8) to (x, page*8+7).
// A Bitmap is not safe for concurrent mutation.
type Bitmap struct {
	// IgnoreOutOfBounds makes Pixel and SetPixel silently clip coordinates
	// outside the bitmap instead of returning ErrOutOfBounds.
	IgnoreOutOfBounds bool

	buf    []byte
	w, h   int
	pages  int
	dir    ByteDirection
	msbTop bool
}

// FromBuffer wraps buf as a width x height bitmap without copying it.
//
// The caller keeps ownership of buf; it must outlive the Bitmap and be exactly
// width*ceil(height/8) bytes long.
func FromBuffer(width, height int, buf []byte, dir ByteDirection) (*Bitmap, error) {
	msbTop, err := dir.msbTop()
	if err != nil {
		return nil, err
	}
	size, err := bufferSize(width, height)
	if err != nil {
		return nil, err
	}
	if len(buf) != size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrSizeMismatch, len(buf), size, width, height)
	}
	return &Bitmap{buf: buf, w: width, h: height, pages: pageCount(height), dir: dir, msbTop: msbTop}, nil
}

// FromTemplate allocates a zero-filled width x height bitmap using the byte
// direction of tmpl. The returned Bitmap owns its buffer.
func FromTemplate(width, height int, tmpl *Bitmap) (*Bitmap, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: nil template", ErrUnsupportedDirection)
	}
	if _, err := tmpl.dir.msbTop(); err != nil {
		return nil, err
	}
	size, err := bufferSize(width, height)
	if err != nil {
		return nil, err
	}
	return FromBuffer(width, height, make([]byte, size), tmpl.dir)
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.w }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.h }

// HeightInBytes returns the number of 8 pixel pages.
func (b *Bitmap) HeightInBytes() int { return b.pages }

// Direction returns the byte direction fixed at construction.
func (b *Bitmap) Direction() ByteDirection { return b.dir }

// MSBTop reports whether bit 7 of each byte is the topmost pixel of its page.
func (b *Bitmap) MSBTop() bool { return b.msbTop }

// Buffer returns the backing store. Writes to it are visible in the Bitmap.
func (b *Bitmap) Buffer() []byte { return b.buf }

// ColorModel returns the color model of the image.
func (b *Bitmap) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.w, b.h)
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (b *Bitmap) At(x, y int) color.Color {
	return b.BitAt(x, y)
}

// BitAt returns the Bit at (x, y), Off when outside the bitmap.
func (b *Bitmap) BitAt(x, y int) Bit {
	if !b.in(x, y) {
		return Off
	}
	offset, mask := b.pixOffset(x, y)
	return b.buf[offset]&mask != 0
}

// Set sets the color of the pixel at (x, y). Points outside the bitmap are
// ignored, as required by draw.Image.
func (b *Bitmap) Set(x, y int, c color.Color) {
	if !b.in(x, y) {
		return
	}
	b.set(x, y, bool(BitModel.Convert(c).(Bit)))
}

// Pixel reports whether the pixel at (x, y) is lit.
func (b *Bitmap) Pixel(x, y int) (bool, error) {
	if !b.in(x, y) {
		if b.IgnoreOutOfBounds {
			return false, nil
		}
		return false, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, b.w, b.h)
	}
	offset, mask := b.pixOffset(x, y)
	return b.buf[offset]&mask != 0, nil
}

// SetPixel lights or clears the pixel at (x, y).
func (b *Bitmap) SetPixel(x, y int, on bool) error {
	if !b.in(x, y) {
		if b.IgnoreOutOfBounds {
			return nil
		}
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, b.w, b.h)
	}
	b.set(x, y, on)
	return nil
}

// Fill lights or clears every pixel, including the unused bits of the last page.
func (b *Bitmap) Fill(on bool) {
	v := byte(0)
	if on {
		v = 0xFF
	}
	for i := range b.buf {
		b.buf[i] = v
	}
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("image1bit.Bitmap{%dx%d %s}", b.w, b.h, b.dir)
}

func (b *Bitmap) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.w && y < b.h
}

func (b *Bitmap) set(x, y int, on bool) {
	offset, mask := b.pixOffset(x, y)
	if on {
		b.buf[offset] |= mask
	} else {
		b.buf[offset] &^= mask
	}
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
func (b *Bitmap) pixOffset(x, y int) (offset int, mask byte) {
	bit := uint(y % 8)
	if b.msbTop {
		bit = 7 - bit
	}
	return (y/8)*b.w + x, 1 << bit
}
