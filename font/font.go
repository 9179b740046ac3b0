// Package font renders text into page-packed image1bit bitmaps.
//
// Glyphs are rasterized once from a golang.org/x/image/font.Face and cached;
// strings are composed by OR-merging the glyphs side by side.
package font

import (
	"fmt"
	"image"

	"github.com/monoblit/ssd1306/image1bit"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fallback is rendered for runes the face has no glyph for.
const fallback = '?'

// Face is a proportional bitmap font. It is not safe for concurrent use.
type Face struct {
	// Spacing is the number of blank columns inserted between glyphs.
	Spacing int

	face   xfont.Face
	dir    image1bit.ByteDirection
	ascent int
	height int
	glyphs map[rune]*glyph
}

// glyph is a rendered rune. The pen position is column left of bm; ink may
// start before it (negative left bearing) and run past advance.
type glyph struct {
	bm      *image1bit.Bitmap
	left    int
	advance int
}

// NewFace returns a Face rendering f in the given byte direction.
// f can be nil to use basicfont.Face7x13.
func NewFace(f xfont.Face, dir image1bit.ByteDirection) (*Face, error) {
	if !dir.Supported() {
		return nil, fmt.Errorf("font: %w: %s", image1bit.ErrUnsupportedDirection, dir)
	}
	if f == nil {
		f = basicfont.Face7x13
	}
	m := f.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	if height <= 0 {
		return nil, fmt.Errorf("font: invalid face height %d", height)
	}
	return &Face{
		face:   f,
		dir:    dir,
		ascent: ascent,
		height: height,
		glyphs: map[rune]*glyph{},
	}, nil
}

// ParseFace returns a Face rendering the TrueType or OpenType font in data at
// size points. Glyphs are anti-aliased by the rasterizer and thresholded at 50%.
func ParseFace(data []byte, size float64, dir image1bit.ByteDirection) (*Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	return NewFace(f, dir)
}

// Height returns the height of every glyph in pixels.
func (f *Face) Height() int {
	return f.height
}

// Direction returns the byte direction of the bitmaps produced by f.
func (f *Face) Direction() image1bit.ByteDirection {
	return f.dir
}

// Glyph returns the bitmap for r. The result is shared and must not be modified.
//
// The bitmap covers all of the glyph's ink, so it can be wider than the
// advance when the glyph overhangs its neighbours.
func (f *Face) Glyph(r rune) (*image1bit.Bitmap, error) {
	g, err := f.glyph(r)
	if err != nil {
		return nil, err
	}
	return g.bm, nil
}

func (f *Face) glyph(r rune) (*glyph, error) {
	if g, ok := f.glyphs[r]; ok {
		return g, nil
	}
	g, err := f.render(r)
	if err != nil {
		return nil, err
	}
	f.glyphs[r] = g
	return g, nil
}

// layout returns the pen position of every glyph of text relative to the
// leftmost inked or advanced column, and the total width.
func (f *Face) layout(text string) (glyphs []*glyph, xs []int, width int, err error) {
	pen, minX, maxX := 0, 0, 0
	for i, r := range []rune(text) {
		g, err := f.glyph(r)
		if err != nil {
			return nil, nil, 0, err
		}
		if i > 0 {
			pen += f.Spacing
		}
		minX = min(minX, pen-g.left)
		maxX = max(maxX, pen-g.left+g.bm.Width(), pen+g.advance)
		glyphs = append(glyphs, g)
		xs = append(xs, pen)
		pen += g.advance
	}
	for i := range xs {
		xs[i] -= minX
	}
	return glyphs, xs, maxX - minX, nil
}

// Width returns the width in pixels of text, spacing and overhanging ink
// included.
func (f *Face) Width(text string) int {
	_, _, w, err := f.layout(text)
	if err != nil {
		return 0
	}
	return w
}

// Bitmap renders text into a new bitmap of Width(text) x Height() pixels.
// It returns nil and no error when text has no width.
func (f *Face) Bitmap(text string) (*image1bit.Bitmap, error) {
	glyphs, xs, width, err := f.layout(text)
	if err != nil {
		return nil, err
	}
	if width == 0 {
		return nil, nil
	}

	canvas, err := image1bit.FromTemplate(width, f.height, glyphs[0].bm)
	if err != nil {
		return nil, err
	}
	for i, g := range glyphs {
		x := xs[i] - g.left
		if err := canvas.MergeInto(x, 0, g.bm, image1bit.Or); err != nil {
			return nil, fmt.Errorf("font: glyph %d at x=%d: %w", i, x, err)
		}
	}
	return canvas, nil
}

// render rasterizes r one page byte at a time. Rows outside the face's
// ascent and descent are not part of the line and are dropped.
func (f *Face) render(r rune) (*glyph, error) {
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.P(0, f.ascent), r)
	if !ok && r != fallback {
		dr, mask, maskp, advance, ok = f.face.Glyph(fixed.P(0, f.ascent), fallback)
	}
	if !ok {
		return nil, fmt.Errorf("font: no glyph for %q", r)
	}

	adv := advance.Ceil()
	left := max(0, -dr.Min.X)
	width := max(adv, dr.Max.X) + left
	pages := (f.height + 7) / 8
	buf := make([]byte, width*pages)
	msbTop := f.dir == image1bit.TopToBottomMSBFirst
	for page := 0; page < pages; page++ {
		for col := 0; col < width; col++ {
			x := col - left
			var v byte
			for bit := 0; bit < 8; bit++ {
				y := page*8 + bit
				if y >= f.height {
					break
				}
				if !image.Pt(x, y).In(dr) {
					continue
				}
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					v |= 1 << bit
				}
			}
			if msbTop {
				v = image1bit.InvertLSB(v)
			}
			buf[page*width+col] = v
		}
	}
	bm, err := image1bit.FromBuffer(width, f.height, buf, f.dir)
	if err != nil {
		return nil, err
	}
	return &glyph{bm: bm, left: left, advance: adv}, nil
}
