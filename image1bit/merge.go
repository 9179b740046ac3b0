package image1bit

import "fmt"

// combiners holds the per byte operator for each MergeMode.
var combiners = [...]func(dst, src []byte){
	Copy: func(dst, src []byte) { copy(dst, src) },
	And: func(dst, src []byte) {
		for i, v := range src {
			dst[i] &= v
		}
	},
	Or: func(dst, src []byte) {
		for i, v := range src {
			dst[i] |= v
		}
	},
	XOr: func(dst, src []byte) {
		for i, v := range src {
			dst[i] ^= v
		}
	},
}

// MergeInto combines src into b with its top left corner at (x, y).
//
// Both bitmaps must use the same page ByteDirection and y must be a multiple
// of 8. Columns past the right edge of b are clipped and source pages below
// the last page of b are dropped; neither is an error.
//
// On error b may have been partially modified.
func (b *Bitmap) MergeInto(x, y int, src *Bitmap, mode MergeMode) error {
	if _, err := b.dir.msbTop(); err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrDirectionMismatch)
	}
	if _, err := src.dir.msbTop(); err != nil {
		return err
	}
	if src.dir != b.dir {
		return fmt.Errorf("%w: merging %s into %s", ErrDirectionMismatch, src.dir, b.dir)
	}
	if x < 0 || y < 0 {
		return fmt.Errorf("%w: merge at (%d, %d)", ErrOutOfBounds, x, y)
	}
	if y%8 != 0 {
		return fmt.Errorf("%w: y=%d", ErrUnalignedMerge, y)
	}
	if x >= b.w {
		return nil
	}

	cols := min(src.w, b.w-x)
	page := y / 8
	for row := 0; row < src.pages; row++ {
		if page+row >= b.pages {
			break
		}
		dst := b.buf[b.w*(page+row)+x : b.w*(page+row+1)]
		s := src.buf[src.w*row : src.w*row+cols]
		if err := combine(s, dst, mode); err != nil {
			return err
		}
	}
	return nil
}

// combine applies mode to each byte of dst that overlaps src.
func combine(src, dst []byte, mode MergeMode) error {
	if len(src) > len(dst) {
		return fmt.Errorf("%w: %d > %d bytes", ErrLengthMismatch, len(src), len(dst))
	}
	if int(mode) >= len(combiners) {
		return fmt.Errorf("image1bit: unknown merge mode %s", mode)
	}
	combiners[mode](dst, src)
	return nil
}
