package image1bit

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

func TestBitRGBA(t *testing.T) {
	tests := []struct {
		name string
		bit  Bit
		want uint32
	}{
		{"off", Off, 0x0000},
		{"on", On, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.bit.RGBA()
			if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)",
					r, g, b, a, tt.want, tt.want, tt.want, uint32(0xFFFF))
			}
		})
	}
}

func TestBitModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Bit
	}{
		{"bit passthrough", On, On},
		{"black", color.Black, Off},
		{"white", color.White, On},
		{"dark gray", color.Gray{Y: 0x40}, Off},
		{"light gray", color.Gray{Y: 0xC0}, On},
		{"pure red", color.RGBA{0xFF, 0x00, 0x00, 0xFF}, Off},
		{"pure green", color.RGBA{0x00, 0xFF, 0x00, 0xFF}, On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BitModel.Convert(tt.input).(Bit); got != tt.want {
				t.Errorf("BitModel.Convert(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteDirectionString(t *testing.T) {
	if got := TopToBottomMSBFirst.String(); got != "TopToBottomMSBFirst" {
		t.Errorf("String() = %q", got)
	}
	if got := ByteDirection(9).String(); got != "ByteDirection(9)" {
		t.Errorf("String() = %q", got)
	}
	for _, d := range []ByteDirection{LeftToRightLSBFirst, LeftToRightMSBFirst, ByteDirection(9)} {
		if d.Supported() {
			t.Errorf("%v.Supported() = true", d)
		}
	}
	if !TopToBottomLSBFirst.Supported() || !TopToBottomMSBFirst.Supported() {
		t.Error("page directions must be supported")
	}
}

func TestFromBuffer(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		bufLen    int
		dir       ByteDirection
		wantErr   error
		wantPages int
	}{
		{"128x64", 128, 64, 1024, TopToBottomLSBFirst, nil, 8},
		{"128x32 msb", 128, 32, 512, TopToBottomMSBFirst, nil, 4},
		{"partial page", 10, 13, 20, TopToBottomLSBFirst, nil, 2},
		{"single row", 5, 1, 5, TopToBottomLSBFirst, nil, 1},
		{"empty", 0, 0, 0, TopToBottomLSBFirst, nil, 0},
		{"too small", 10, 13, 10, TopToBottomLSBFirst, ErrSizeMismatch, 0},
		{"too large", 8, 8, 9, TopToBottomLSBFirst, ErrSizeMismatch, 0},
		{"negative", -1, 8, 0, TopToBottomLSBFirst, ErrSizeMismatch, 0},
		{"size overflows", math.MaxInt/4 + 1, 64, 0, TopToBottomLSBFirst, ErrSizeMismatch, 0},
		{"height overflows", 16, math.MaxInt, 0, TopToBottomLSBFirst, ErrSizeMismatch, 0},
		{"left to right lsb", 8, 8, 8, LeftToRightLSBFirst, ErrUnsupportedDirection, 0},
		{"left to right msb", 8, 8, 8, LeftToRightMSBFirst, ErrUnsupportedDirection, 0},
		{"unknown direction", 8, 8, 8, ByteDirection(7), ErrUnsupportedDirection, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.bufLen)
			b, err := FromBuffer(tt.w, tt.h, buf, tt.dir)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FromBuffer() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if b.HeightInBytes() != tt.wantPages {
				t.Errorf("HeightInBytes() = %d, want %d", b.HeightInBytes(), tt.wantPages)
			}
			if len(b.Buffer()) != b.Width()*b.HeightInBytes() {
				t.Errorf("len(Buffer()) = %d, want %d", len(b.Buffer()), b.Width()*b.HeightInBytes())
			}
			if b.Direction() != tt.dir {
				t.Errorf("Direction() = %v, want %v", b.Direction(), tt.dir)
			}
			if b.MSBTop() != (tt.dir == TopToBottomMSBFirst) {
				t.Errorf("MSBTop() = %v for %v", b.MSBTop(), tt.dir)
			}
		})
	}
}

func TestFromBufferNoCopy(t *testing.T) {
	buf := make([]byte, 4)
	b, err := FromBuffer(4, 8, buf, TopToBottomLSBFirst)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetPixel(2, 0, true); err != nil {
		t.Fatal(err)
	}
	if buf[2] != 0x01 {
		t.Errorf("caller buffer[2] = 0x%02X, want 0x01", buf[2])
	}
	buf[3] = 0x80
	if on, _ := b.Pixel(3, 7); !on {
		t.Error("write to caller buffer not visible through Pixel(3, 7)")
	}
}

func TestPageCount(t *testing.T) {
	for h := 0; h <= 70; h++ {
		want := h / 8
		if h%8 != 0 {
			want++
		}
		if got := pageCount(h); got != want {
			t.Errorf("pageCount(%d) = %d, want %d", h, got, want)
		}
	}
	if got, want := pageCount(math.MaxInt), math.MaxInt/8+1; got != want {
		t.Errorf("pageCount(MaxInt) = %d, want %d", got, want)
	}
}

func TestFromTemplateOverflow(t *testing.T) {
	tmpl, err := FromBuffer(1, 8, []byte{0}, TopToBottomLSBFirst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromTemplate(math.MaxInt/8+1, 64, tmpl); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("FromTemplate() error = %v, want %v", err, ErrSizeMismatch)
	}
}

func TestFromTemplate(t *testing.T) {
	tmpl, err := FromBuffer(8, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}, TopToBottomMSBFirst)
	if err != nil {
		t.Fatal(err)
	}

	b, err := FromTemplate(20, 17, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if b.Direction() != TopToBottomMSBFirst || !b.MSBTop() {
		t.Errorf("direction = %v, want template direction", b.Direction())
	}
	if b.Width() != 20 || b.Height() != 17 || b.HeightInBytes() != 3 {
		t.Errorf("size = %dx%d (%d pages), want 20x17 (3 pages)", b.Width(), b.Height(), b.HeightInBytes())
	}
	if len(b.Buffer()) != 60 {
		t.Errorf("len(Buffer()) = %d, want 60", len(b.Buffer()))
	}
	for i, v := range b.Buffer() {
		if v != 0 {
			t.Fatalf("Buffer()[%d] = 0x%02X, want zero filled", i, v)
		}
	}

	if _, err := FromTemplate(8, 8, &Bitmap{dir: LeftToRightMSBFirst}); !errors.Is(err, ErrUnsupportedDirection) {
		t.Errorf("FromTemplate(left to right) error = %v, want ErrUnsupportedDirection", err)
	}
	if _, err := FromTemplate(8, 8, nil); !errors.Is(err, ErrUnsupportedDirection) {
		t.Errorf("FromTemplate(nil) error = %v, want ErrUnsupportedDirection", err)
	}
	if _, err := FromTemplate(8, -8, tmpl); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("FromTemplate(negative) error = %v, want ErrSizeMismatch", err)
	}
}

func TestPixelPacking(t *testing.T) {
	tests := []struct {
		dir  ByteDirection
		x, y int
		idx  int
		want byte
	}{
		{TopToBottomLSBFirst, 0, 0, 0, 0x01},
		{TopToBottomLSBFirst, 0, 7, 0, 0x80},
		{TopToBottomLSBFirst, 3, 2, 3, 0x04},
		{TopToBottomLSBFirst, 1, 8, 5, 0x01},
		{TopToBottomMSBFirst, 0, 0, 0, 0x80},
		{TopToBottomMSBFirst, 0, 7, 0, 0x01},
		{TopToBottomMSBFirst, 3, 2, 3, 0x20},
		{TopToBottomMSBFirst, 2, 15, 6, 0x01},
	}

	for _, tt := range tests {
		b, err := FromBuffer(4, 16, make([]byte, 8), tt.dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.SetPixel(tt.x, tt.y, true); err != nil {
			t.Fatal(err)
		}
		for i, v := range b.Buffer() {
			want := byte(0)
			if i == tt.idx {
				want = tt.want
			}
			if v != want {
				t.Errorf("%v SetPixel(%d, %d): Buffer()[%d] = 0x%02X, want 0x%02X", tt.dir, tt.x, tt.y, i, v, want)
			}
		}
	}
}

func TestPixelRoundTrip(t *testing.T) {
	for _, dir := range []ByteDirection{TopToBottomLSBFirst, TopToBottomMSBFirst} {
		t.Run(dir.String(), func(t *testing.T) {
			b, err := FromTemplate(13, 21, &Bitmap{dir: dir})
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < b.Height(); y++ {
				for x := 0; x < b.Width(); x++ {
					v := (x*7+y*3)%5 == 0
					if err := b.SetPixel(x, y, v); err != nil {
						t.Fatal(err)
					}
				}
			}
			for y := 0; y < b.Height(); y++ {
				for x := 0; x < b.Width(); x++ {
					want := (x*7+y*3)%5 == 0
					got, err := b.Pixel(x, y)
					if err != nil {
						t.Fatal(err)
					}
					if got != want {
						t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}
			// Clearing must not disturb the neighbours in the same byte.
			if err := b.SetPixel(0, 0, false); err != nil {
				t.Fatal(err)
			}
			if on, _ := b.Pixel(0, 0); on {
				t.Error("Pixel(0, 0) still set after clearing")
			}
			if on, _ := b.Pixel(0, 5); !on {
				t.Error("Pixel(0, 5) cleared as a side effect")
			}
		})
	}
}

func TestPixelOutOfBounds(t *testing.T) {
	b, err := FromTemplate(4, 4, &Bitmap{dir: TopToBottomLSBFirst})
	if err != nil {
		t.Fatal(err)
	}

	points := []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}}
	for _, p := range points {
		if err := b.SetPixel(p.X, p.Y, true); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetPixel(%v) error = %v, want ErrOutOfBounds", p, err)
		}
		if _, err := b.Pixel(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Pixel(%v) error = %v, want ErrOutOfBounds", p, err)
		}
	}

	b.IgnoreOutOfBounds = true
	for _, p := range points {
		if err := b.SetPixel(p.X, p.Y, true); err != nil {
			t.Errorf("SetPixel(%v) with IgnoreOutOfBounds error = %v", p, err)
		}
		if on, err := b.Pixel(p.X, p.Y); err != nil || on {
			t.Errorf("Pixel(%v) with IgnoreOutOfBounds = %v, %v, want false, nil", p, on, err)
		}
	}
	// Row 4 lives in the unused bits of page 0 and must stay untouched.
	for i, v := range b.Buffer() {
		if v != 0 {
			t.Errorf("Buffer()[%d] = 0x%02X after clipped writes, want 0", i, v)
		}
	}
}

func TestBitmapImageInterface(t *testing.T) {
	b, err := FromTemplate(16, 16, &Bitmap{dir: TopToBottomLSBFirst})
	if err != nil {
		t.Fatal(err)
	}
	var _ draw.Image = b

	if b.ColorModel() != BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
	if want := image.Rect(0, 0, 16, 16); b.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", b.Bounds(), want)
	}

	draw.Draw(b, image.Rect(4, 8, 8, 16), image.NewUniform(color.White), image.Point{}, draw.Src)
	for x := 4; x < 8; x++ {
		if got := b.Buffer()[16+x]; got != 0xFF {
			t.Errorf("page 1 column %d = 0x%02X, want 0xFF", x, got)
		}
	}
	if c := b.At(5, 9); c != On {
		t.Errorf("At(5, 9) = %v, want On", c)
	}
	if c := b.At(3, 9); c != Off {
		t.Errorf("At(3, 9) = %v, want Off", c)
	}
	if c := b.At(-1, 0); c != Off {
		t.Errorf("At(-1, 0) = %v, want Off", c)
	}

	// Set silently ignores points outside the image.
	b.Set(16, 0, color.White)
	b.Set(4, 9, color.Black)
	if b.BitAt(4, 9) != Off {
		t.Error("Set(4, 9, black) did not clear the pixel")
	}
}

func TestFill(t *testing.T) {
	b, err := FromTemplate(3, 10, &Bitmap{dir: TopToBottomMSBFirst})
	if err != nil {
		t.Fatal(err)
	}
	b.Fill(true)
	for i, v := range b.Buffer() {
		if v != 0xFF {
			t.Errorf("Buffer()[%d] = 0x%02X, want 0xFF", i, v)
		}
	}
	b.Fill(false)
	for i, v := range b.Buffer() {
		if v != 0 {
			t.Errorf("Buffer()[%d] = 0x%02X, want 0x00", i, v)
		}
	}
}

func TestInvertLSB(t *testing.T) {
	tests := []struct{ in, want byte }{
		{0x00, 0x00},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0F, 0xF0},
		{0xA5, 0xA5},
		{0x12, 0x48},
		{0xFF, 0xFF},
	}
	for _, tt := range tests {
		if got := InvertLSB(tt.in); got != tt.want {
			t.Errorf("InvertLSB(0x%02X) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
	for i := 0; i < 256; i++ {
		if got := InvertLSB(InvertLSB(byte(i))); got != byte(i) {
			t.Fatalf("InvertLSB twice on 0x%02X = 0x%02X", i, got)
		}
	}
}

func TestBitmapString(t *testing.T) {
	b, err := FromTemplate(128, 64, &Bitmap{dir: TopToBottomLSBFirst})
	if err != nil {
		t.Fatal(err)
	}
	want := "image1bit.Bitmap{128x64 TopToBottomLSBFirst}"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
