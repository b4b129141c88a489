package pixbuf_test

import (
	"image"
	"image/color"
	"testing"

	"pixfx/pixbuf"
	"pixfx/types"
)

func TestSetAt(t *testing.T) {
	b := pixbuf.New(3, 2)
	px := types.Pixel{R: 1, G: 2, B: 3, A: 4}
	b.Set(2, 1, px)
	if got := b.At(2, 1); got != px {
		t.Errorf("expected %v, got %v", px, got)
	}
	if got := b.At(0, 0); got != (types.Pixel{}) {
		t.Errorf("new buffer should be zeroed, got %v", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	b := pixbuf.New(2, 2)
	coords := [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}}
	for _, c := range coords {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("At(%d,%d) did not panic", c[0], c[1])
				}
			}()
			b.At(c[0], c[1])
		}()
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := pixbuf.New(2, 2)
	b.Set(0, 0, types.Pixel{R: 9, A: 255})
	c := b.Clone()
	c.Set(0, 0, types.Pixel{R: 1})
	if b.At(0, 0).R != 9 {
		t.Errorf("clone shares memory with its source")
	}
	if b.Equal(c) {
		t.Errorf("buffers should differ after writing to the clone")
	}
}

func TestFromImageMovesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	b := pixbuf.FromImage(src)
	if b.Width != 2 || b.Height != 1 {
		t.Fatalf("expected 2x1, got %dx%d", b.Width, b.Height)
	}
	want := types.Pixel{R: 10, G: 20, B: 30, A: 40}
	if got := b.At(1, 0); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestImageSharesMemory(t *testing.T) {
	b := pixbuf.New(2, 2)
	b.Image().SetNRGBA(1, 1, color.NRGBA{G: 77, A: 255})
	if b.At(1, 1).G != 77 {
		t.Errorf("NRGBA view does not alias the buffer")
	}
}

func TestPlaceholder(t *testing.T) {
	b := pixbuf.Placeholder()
	if b.Width != 1 || b.Height != 1 || b.Empty() {
		t.Fatalf("placeholder should be 1x1, got %dx%d", b.Width, b.Height)
	}
	if b.At(0, 0) != (types.Pixel{A: 255}) {
		t.Errorf("placeholder should be opaque black, got %v", b.At(0, 0))
	}
}
