// Package pixbuf holds the pixel grid every effect reads and rewrites.
package pixbuf

import (
	"fmt"
	"image"
	"image/draw"

	"pixfx/types"
)

// Buffer is a Width x Height grid of non-premultiplied RGBA pixels stored
// row-major, 4 bytes per pixel. The byte layout matches image.NRGBA so the
// buffer can be handed to image code without copying.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns a zeroed buffer. Negative dimensions are treated as 0.
func New(width, height int) *Buffer {
	width = max(width, 0)
	height = max(height, 0)
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Placeholder is the 1x1 opaque black buffer used when no image could be loaded.
func Placeholder() *Buffer {
	b := New(1, 1)
	b.Set(0, 0, types.Pixel{A: 255})
	return b
}

// FromImage copies any image into a new buffer with its origin moved to (0,0).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	/// draw does the colour model conversion for us
	draw.Draw(b.Image(), image.Rect(0, 0, b.Width, b.Height), img, bounds.Min, draw.Src)
	return b
}

// Image returns an NRGBA view that shares memory with the buffer.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Empty reports whether the buffer has no pixels at all.
func (b *Buffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("pixbuf: (%d,%d) out of range %dx%d", x, y, b.Width, b.Height))
	}
	return (y*b.Width + x) * 4
}

// At panics when (x, y) is outside the buffer.
func (b *Buffer) At(x, y int) types.Pixel {
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return types.Pixel{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set panics when (x, y) is outside the buffer.
func (b *Buffer) Set(x, y int, px types.Pixel) {
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	p[0] = px.R
	p[1] = px.G
	p[2] = px.B
	p[3] = px.A
}

// Equal compares dimensions and every pixel.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.Width != other.Width || b.Height != other.Height || len(b.Pix) != len(other.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}
