package patterns

import (
	"fmt"

	"pixfx/pixbuf"
	"pixfx/types"
)

/// a seam is one full scanline copied out of the buffer
/// rows run left to right, columns top to bottom

var Loader = map[types.Axis]func(b *pixbuf.Buffer) [][]types.Pixel{
	types.Horizontal: LoadRows,
	types.Vertical:   LoadColumns,
}
var Saver = map[types.Axis]func(b *pixbuf.Buffer, seams [][]types.Pixel){
	types.Horizontal: SaveRows,
	types.Vertical:   SaveColumns,
}

// Count is the number of scanlines along axis.
func Count(b *pixbuf.Buffer, axis types.Axis) int {
	if axis == types.Vertical {
		return b.Width
	}
	return b.Height
}

// Length is the number of pixels in one scanline along axis.
func Length(b *pixbuf.Buffer, axis types.Axis) int {
	if axis == types.Vertical {
		return b.Height
	}
	return b.Width
}

func coords(axis types.Axis, scanline, i int) (int, int) {
	if axis == types.Vertical {
		return scanline, i
	}
	return i, scanline
}

func checkScanline(b *pixbuf.Buffer, axis types.Axis, index int) {
	if index < 0 || index >= Count(b, axis) {
		panic(fmt.Sprintf("patterns: %s %d out of range [0,%d)", axis, index, Count(b, axis)))
	}
}

// LoadSeam copies pixels [from, to] of one scanline.
func LoadSeam(b *pixbuf.Buffer, axis types.Axis, index, from, to int) []types.Pixel {
	checkScanline(b, axis, index)
	seam := make([]types.Pixel, 0, max(to-from+1, 0))
	for i := from; i <= to; i++ {
		x, y := coords(axis, index, i)
		seam = append(seam, b.At(x, y))
	}
	return seam
}

// SaveSeam writes seam back starting at pixel from of one scanline.
func SaveSeam(b *pixbuf.Buffer, axis types.Axis, index, from int, seam []types.Pixel) {
	checkScanline(b, axis, index)
	for i, px := range seam {
		x, y := coords(axis, index, from+i)
		b.Set(x, y, px)
	}
}

func LoadRows(b *pixbuf.Buffer) [][]types.Pixel {
	rows := make([][]types.Pixel, b.Height)
	for y := 0; y < b.Height; y++ {
		rows[y] = LoadSeam(b, types.Horizontal, y, 0, b.Width-1)
	}
	return rows
}

func SaveRows(b *pixbuf.Buffer, rows [][]types.Pixel) {
	for y, row := range rows {
		SaveSeam(b, types.Horizontal, y, 0, row)
	}
}

func LoadColumns(b *pixbuf.Buffer) [][]types.Pixel {
	cols := make([][]types.Pixel, b.Width)
	for x := 0; x < b.Width; x++ {
		cols[x] = LoadSeam(b, types.Vertical, x, 0, b.Height-1)
	}
	return cols
}

func SaveColumns(b *pixbuf.Buffer, cols [][]types.Pixel) {
	for x, col := range cols {
		SaveSeam(b, types.Vertical, x, 0, col)
	}
}
