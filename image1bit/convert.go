package image1bit

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// ConvertOpts controls FromImage.
type ConvertOpts struct {
	// Target size in pixels. Zero keeps the source size; when only one of them
	// is zero it is derived from the source aspect ratio.
	W, H int

	// Dither reduces the image with Floyd-Steinberg error diffusion instead of
	// a plain 50% threshold.
	Dither bool
}

var monoPalette = []color.Color{color.Black, color.White}

// FromImage renders src into a newly allocated Bitmap using the given byte
// direction. opts can be nil to convert at the source size with a threshold.
func FromImage(src image.Image, dir ByteDirection, opts *ConvertOpts) (*Bitmap, error) {
	if _, err := dir.msbTop(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &ConvertOpts{}
	}
	sr := src.Bounds()
	if sr.Empty() {
		return nil, errors.New("image1bit: empty source image")
	}
	if opts.W < 0 || opts.H < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrSizeMismatch, opts.W, opts.H)
	}

	w, h := opts.W, opts.H
	switch {
	case w == 0 && h == 0:
		w, h = sr.Dx(), sr.Dy()
	case w == 0:
		w = max(1, sr.Dx()*h/sr.Dy())
	case h == 0:
		h = max(1, sr.Dy()*w/sr.Dx())
	}
	if w != sr.Dx() || h != sr.Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, sr, draw.Src, nil)
		src, sr = scaled, scaled.Bounds()
	}

	size, err := bufferSize(w, h)
	if err != nil {
		return nil, err
	}
	b, err := FromBuffer(w, h, make([]byte, size), dir)
	if err != nil {
		return nil, err
	}

	if opts.Dither {
		d := dither.NewDitherer(monoPalette)
		d.Matrix = dither.FloydSteinberg
		d.Serpentine = true
		p := d.DitherPaletted(src)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				b.set(x, y, p.ColorIndexAt(p.Rect.Min.X+x, p.Rect.Min.Y+y) == 1)
			}
		}
		return b, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.set(x, y, bool(BitModel.Convert(src.At(sr.Min.X+x, sr.Min.Y+y)).(Bit)))
		}
	}
	return b, nil
}
