package engine

import (
	"fmt"

	"pixfx/types"
)

// Request is one operation asked for during a tick. The concrete types below
// are the only implementations.
type Request interface {
	Name() string
}

type (
	Open       struct{ Path string }
	Save       struct{ Path string }
	Reset      struct{}
	Undo       struct{}
	Scramble   struct{}
	Descramble struct{}
	Greyscale  struct{}

	PixelSort struct {
		Threshold types.ThresholdConfig
		Reverse   bool
		Axis      types.Axis
		// Animate sorts one scanline per tick instead of all at once.
		Animate bool
	}

	Pixelate struct {
		// BlockSize is clamped to [1, max(1, H-1)].
		BlockSize int
	}

	ColourSplit struct{ Distance int }

	ColourFloor struct{ Shift uint8 }
)

func (Open) Name() string        { return "open" }
func (Save) Name() string        { return "save" }
func (Reset) Name() string       { return "reset" }
func (Undo) Name() string        { return "undo" }
func (Scramble) Name() string    { return "scramble" }
func (Descramble) Name() string  { return "descramble" }
func (Greyscale) Name() string   { return "greyscale" }
func (PixelSort) Name() string   { return "pixel_sort" }
func (Pixelate) Name() string    { return "pixelate" }
func (ColourSplit) Name() string { return "colour_split" }
func (ColourFloor) Name() string { return "colour_floor" }

// Params carries every tunable value; ParseRequest picks the ones an op needs.
type Params struct {
	Threshold types.ThresholdConfig
	Reverse   bool
	Axis      types.Axis
	Animate   bool
	Distance  int
	BlockSize int
	Shift     uint8
	Path      string
}

// RequestNames lists the names ParseRequest accepts.
var RequestNames = []string{
	"open", "save", "reset", "undo", "scramble", "descramble", "pixel_sort",
	"pixelate", "colour_split", "greyscale", "colour_floor",
}

var aliases = map[string]string{
	"sort":  "pixel_sort",
	"split": "colour_split",
	"floor": "colour_floor",
	"gray":  "greyscale",
	"grey":  "greyscale",
}

// ParseRequest builds the request called name from p.
func ParseRequest(name string, p Params) (Request, error) {
	if full, ok := aliases[name]; ok {
		name = full
	}
	switch name {
	case "open":
		return Open{Path: p.Path}, nil
	case "save":
		return Save{Path: p.Path}, nil
	case "reset":
		return Reset{}, nil
	case "undo":
		return Undo{}, nil
	case "scramble":
		return Scramble{}, nil
	case "descramble":
		return Descramble{}, nil
	case "greyscale":
		return Greyscale{}, nil
	case "pixel_sort":
		return PixelSort{Threshold: p.Threshold, Reverse: p.Reverse, Axis: p.Axis, Animate: p.Animate}, nil
	case "pixelate":
		return Pixelate{BlockSize: p.BlockSize}, nil
	case "colour_split":
		return ColourSplit{Distance: p.Distance}, nil
	case "colour_floor":
		return ColourFloor{Shift: p.Shift}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRequest, name)
}
