// Package image1bit provides a 1-bit monochrome image format for page-addressed
// display controllers such as the SSD1306.
//
// Pixels are stored in vertical pages: each byte holds a column of 8 pixels and
// the bytes of one page are laid out left to right, followed by the next page.
//
// Memory layout example for a 4x16 image (2 pages) in TopToBottomLSBFirst order:
//
//	        x=0     x=1     x=2     x=3
//	page 0  buf[0]  buf[1]  buf[2]  buf[3]   rows 0-7  (bit 0 = row 0)
//	page 1  buf[4]  buf[5]  buf[6]  buf[7]   rows 8-15 (bit 0 = row 8)
//
// In TopToBottomMSBFirst order bit 7 holds the topmost row of a page instead.
// The LeftToRight orders are declared for completeness but not supported.
//
// This package provides:
//
// - Bit: A color type representing a lit or unlit pixel
// - BitModel: A color model for converting standard Go colors to Bit
// - Bitmap: An image.Image and draw.Image implementation with page merging
//
// Example usage:
//
//	// Wrap a 128x64 frame buffer owned by the caller
//	buf := make([]byte, 128*64/8)
//	frame, err := image1bit.FromBuffer(128, 64, buf, image1bit.TopToBottomLSBFirst)
//
//	// Blit a glyph at column 10, page 1
//	err = frame.MergeInto(10, 8, glyph, image1bit.Or)
//
//	// Use with standard Go image operations
//	draw.Draw(frame, frame.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
