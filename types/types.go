package types

import (
	"fmt"
	"image/color"
)

/// shared value types, kept dependency-free so every package can use them

// MaxBrightness is the brightness of a fully white pixel (255*3)
const MaxBrightness = 765

// Pixel is a single non-premultiplied RGBA pixel
type Pixel struct {
	R, G, B, A uint8
}

// Brightness is R+G+B, in [0, 765]
func (p Pixel) Brightness() int {
	return int(p.R) + int(p.G) + int(p.B)
}

func (p Pixel) ToColor() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func PixelFromColor(c color.NRGBA) Pixel {
	return Pixel{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Run is a closed index interval [Start, End] along one scanline
type Run struct {
	Start int
	End   int
}

func (r Run) Len() int {
	return r.End - r.Start + 1
}

func (r Run) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// RunSet holds the runs of one scanline in scan order
type RunSet struct {
	Index int
	Runs  []Run
}

// Axis picks which scanlines get sorted
type Axis int

const (
	/// rows, left to right
	Horizontal Axis = iota
	/// columns, top to bottom
	Vertical
)

var AxisNames = map[string]Axis{
	"row":    Horizontal,
	"column": Vertical,
}

func (a Axis) String() string {
	if a == Vertical {
		return "column"
	}
	return "row"
}

func ParseAxis(s string) (Axis, error) {
	a, ok := AxisNames[s]
	if !ok {
		return Horizontal, fmt.Errorf("invalid axis %q [row, column]", s)
	}
	return a, nil
}

// ThresholdConfig selects which pixels form runs
type ThresholdConfig struct {
	/// in [0, 1]; values outside are accepted and just select everything or nothing
	Value float64
	/// true: brighter than Value, false: darker than Value
	Above bool
}
