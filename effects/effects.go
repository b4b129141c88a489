// Package effects implements the whole-buffer transforms: channel split,
// block pixelation, scramble/descramble, posterize and greyscale.
//
// Transforms that rearrange pixels return a new buffer and leave the input
// alone; the others rewrite the buffer in place.
package effects

import (
	"pixfx/pixbuf"
	"pixfx/types"

	"github.com/kovidgoyal/imaging"
)

// wrap is the non-negative modulus, so negative offsets wrap around.
func wrap(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// Split scatters each channel to a shifted coordinate: red moves left by
// distance, green moves up, blue moves right and down, alpha stays put.
// Channels nobody writes stay zero.
func Split(b *pixbuf.Buffer, distance int) *pixbuf.Buffer {
	out := pixbuf.New(b.Width, b.Height)
	if b.Empty() {
		return out
	}
	w, h := b.Width, b.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := b.At(x, y)
			/// write each channel straight into the pixel bytes, the other
			/// channels of those destinations belong to other source pixels
			out.Pix[offset(out, wrap(x-distance, w), y)] = src.R
			out.Pix[offset(out, x, wrap(y-distance, h))+1] = src.G
			out.Pix[offset(out, wrap(x+distance, w), wrap(y+distance, h))+2] = src.B
			out.Pix[offset(out, x, y)+3] = src.A
		}
	}
	return out
}

func offset(b *pixbuf.Buffer, x, y int) int {
	return (y*b.Width + x) * 4
}

// Pixelate replaces every complete size x size block with its mean colour.
// Partial blocks on the right and bottom edges are left alone. Alpha is kept
// per pixel.
func Pixelate(b *pixbuf.Buffer, size int) {
	if size < 1 {
		size = 1
	}
	blocksX := b.Width / size
	blocksY := b.Height / size
	area := float64(size * size)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			x0, y0 := bx*size, by*size
			var r, g, bl float64
			for y := y0; y < y0+size; y++ {
				for x := x0; x < x0+size; x++ {
					px := b.At(x, y)
					r += float64(px.R)
					g += float64(px.G)
					bl += float64(px.B)
				}
			}
			mean := types.Pixel{R: uint8(r / area), G: uint8(g / area), B: uint8(bl / area)}
			for y := y0; y < y0+size; y++ {
				for x := x0; x < x0+size; x++ {
					mean.A = b.At(x, y).A
					b.Set(x, y, mean)
				}
			}
		}
	}
}

// Scramble reads the buffer row-major and lays the pixels back out
// column-major: flat index i lands on (i/H, i%H).
func Scramble(b *pixbuf.Buffer) *pixbuf.Buffer {
	out := pixbuf.New(b.Width, b.Height)
	w, h := b.Width, b.Height
	for i := 0; i < w*h; i++ {
		out.Set(i/h, i%h, b.At(i%w, i/w))
	}
	return out
}

// Descramble undoes Scramble: it reads column-major and writes row-major.
func Descramble(b *pixbuf.Buffer) *pixbuf.Buffer {
	out := pixbuf.New(b.Width, b.Height)
	w, h := b.Width, b.Height
	for i := 0; i < w*h; i++ {
		out.Set(i%w, i/w, b.At(i/h, i%h))
	}
	return out
}

// FloorColour zeroes the low shift bits of R, G and B. A shift of 8 or more
// clears the colour entirely.
func FloorColour(b *pixbuf.Buffer, shift uint8) {
	if shift == 0 {
		return
	}
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = (b.Pix[i] >> shift) << shift
		b.Pix[i+1] = (b.Pix[i+1] >> shift) << shift
		b.Pix[i+2] = (b.Pix[i+2] >> shift) << shift
	}
}

// Greyscale replaces R, G and B with their Rec.601 luma, alpha untouched.
func Greyscale(b *pixbuf.Buffer) {
	if b.Empty() {
		return
	}
	grey := imaging.Grayscale(b.Image())
	copy(b.Pix, grey.Pix)
}
