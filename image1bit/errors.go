package image1bit

import "errors"

// Errors returned by Bitmap construction, merging and pixel access.
// They are wrapped with extra detail, use errors.Is to test for them.
var (
	ErrUnsupportedDirection = errors.New("image1bit: byte direction not supported")
	ErrSizeMismatch         = errors.New("image1bit: buffer size mismatch")
	ErrDirectionMismatch    = errors.New("image1bit: byte direction mismatch")
	ErrUnalignedMerge       = errors.New("image1bit: merge not aligned on a page boundary")
	ErrLengthMismatch       = errors.New("image1bit: source longer than destination")
	ErrOutOfBounds          = errors.New("image1bit: coordinates out of bounds")
)
