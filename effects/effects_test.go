package effects_test

import (
	"crypto/rand"
	"testing"

	"pixfx/effects"
	"pixfx/pixbuf"
	"pixfx/types"
)

func genTestPic(w, h int, t *testing.T) *pixbuf.Buffer {
	input := pixbuf.New(w, h)
	n, err := rand.Read(input.Pix)
	if n != w*h*4 {
		t.Errorf("Read %d bytes, expected %d", n, w*h*4)
	} else if err != nil {
		t.Errorf("Error reading: %s", err)
	}
	return input
}

func enumerated(w, h int) *pixbuf.Buffer {
	b := pixbuf.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, types.Pixel{R: uint8(x + y*w), A: 255})
		}
	}
	return b
}

func TestScrambleLayout(t *testing.T) {
	b := enumerated(3, 2)
	s := effects.Scramble(b)
	for i := 0; i < 6; i++ {
		if got := s.At(i/2, i%2).R; got != uint8(i) {
			t.Errorf("flat %d should land on (%d,%d), found %d there", i, i/2, i%2, got)
		}
	}
	if !effects.Descramble(s).Equal(b) {
		t.Errorf("descramble did not restore the 3x2 layout")
	}
}

func TestScrambleRoundTrip(t *testing.T) {
	dims := [][2]int{{1, 1}, {4, 4}, {7, 3}, {2, 9}, {0, 5}, {16, 1}}
	for _, d := range dims {
		input := genTestPic(d[0], d[1], t)
		out := effects.Descramble(effects.Scramble(input))
		if !out.Equal(input) {
			t.Errorf("%dx%d: descramble(scramble(b)) != b", d[0], d[1])
		}
	}
}

func TestScrambleDoesNotTouchInput(t *testing.T) {
	input := genTestPic(5, 3, t)
	keep := input.Clone()
	effects.Scramble(input)
	effects.Descramble(input)
	if !input.Equal(keep) {
		t.Errorf("scramble/descramble modified their input")
	}
}

func TestSplitZeroIsIdentity(t *testing.T) {
	input := genTestPic(6, 4, t)
	if !effects.Split(input, 0).Equal(input) {
		t.Errorf("split with distance 0 should copy the buffer")
	}
}

func TestSplitOffsets(t *testing.T) {
	b := pixbuf.New(4, 3)
	b.Set(1, 1, types.Pixel{R: 10, G: 20, B: 30, A: 40})
	out := effects.Split(b, 2)

	if out.At(3, 1).R != 10 {
		t.Errorf("red should move to ((1-2) mod 4, 1) = (3,1), got %v", out.At(3, 1))
	}
	if out.At(1, 2).G != 20 {
		t.Errorf("green should move to (1, (1-2) mod 3) = (1,2), got %v", out.At(1, 2))
	}
	if out.At(3, 0).B != 30 {
		t.Errorf("blue should move to (3, 0), got %v", out.At(3, 0))
	}
	if out.At(1, 1).A != 40 {
		t.Errorf("alpha should stay at (1,1), got %v", out.At(1, 1))
	}
	if out.At(1, 1).R != 0 || out.At(1, 1).G != 0 || out.At(1, 1).B != 0 {
		t.Errorf("(1,1) should only carry alpha, got %v", out.At(1, 1))
	}
}

func TestSplitNegativeWraps(t *testing.T) {
	input := genTestPic(5, 4, t)
	for _, d := range []int{-3, -5, -7} {
		a := effects.Split(input, d)
		for y := 0; y < 4; y++ {
			for x := 0; x < 5; x++ {
				rx := ((x-d)%5 + 5) % 5
				if a.At(rx, y).R != input.At(x, y).R {
					t.Errorf("distance %d: red of (%d,%d) not at (%d,%d)", d, x, y, rx, y)
				}
			}
		}
	}
	full := effects.Split(input, 20)
	if !full.Equal(input) {
		t.Errorf("distance 20 on 5x4 wraps to 0 on both axes and should be the identity")
	}
}

func TestPixelateUniform(t *testing.T) {
	b := pixbuf.New(2, 2)
	c := types.Pixel{R: 12, G: 34, B: 56, A: 78}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			b.Set(x, y, c)
		}
	}
	keep := b.Clone()
	effects.Pixelate(b, 2)
	if !b.Equal(keep) {
		t.Errorf("uniform block changed: %v", b.Pix)
	}
}

func TestPixelateMeanTruncates(t *testing.T) {
	b := pixbuf.New(2, 1)
	b.Set(0, 0, types.Pixel{R: 1, G: 10, B: 255, A: 5})
	b.Set(1, 0, types.Pixel{R: 2, G: 11, B: 0, A: 6})
	/// height 1 < block 2, nothing to do
	effects.Pixelate(b, 2)
	if b.At(0, 0).R != 1 {
		t.Errorf("partial block should be skipped")
	}

	b = pixbuf.New(1, 2)
	b.Set(0, 0, types.Pixel{R: 1, G: 10, B: 255, A: 5})
	b.Set(0, 1, types.Pixel{R: 2, G: 11, B: 0, A: 6})
	effects.Pixelate(b, 1)
	if b.At(0, 0) != (types.Pixel{R: 1, G: 10, B: 255, A: 5}) {
		t.Errorf("block size 1 should be a no-op, got %v", b.At(0, 0))
	}

	b = pixbuf.New(2, 2)
	b.Set(0, 0, types.Pixel{R: 1, G: 10, B: 255, A: 5})
	b.Set(1, 0, types.Pixel{R: 2, G: 11, B: 0, A: 6})
	effects.Pixelate(b, 2)
	/// R: 3/4, G: 21/4, B: 255/4, all truncated
	want := []types.Pixel{{R: 0, G: 5, B: 63, A: 5}, {R: 0, G: 5, B: 63, A: 6}, {R: 0, G: 5, B: 63, A: 0}, {R: 0, G: 5, B: 63, A: 0}}
	got := []types.Pixel{b.At(0, 0), b.At(1, 0), b.At(0, 1), b.At(1, 1)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPixelateSkipsEdges(t *testing.T) {
	input := genTestPic(5, 7, t)
	b := input.Clone()
	effects.Pixelate(b, 2)
	for y := 0; y < 7; y++ {
		for x := 0; x < 5; x++ {
			if (x >= 4 || y >= 6) && b.At(x, y) != input.At(x, y) {
				t.Errorf("edge pixel (%d,%d) changed", x, y)
			}
		}
	}
	/// block bigger than the buffer
	c := input.Clone()
	effects.Pixelate(c, 8)
	if !c.Equal(input) {
		t.Errorf("block larger than the buffer should be a no-op")
	}
}

func TestFloorColour(t *testing.T) {
	b := pixbuf.New(1, 1)
	b.Set(0, 0, types.Pixel{R: 0xff, G: 0x81, B: 0x0f, A: 0x7f})
	effects.FloorColour(b, 4)
	if got := b.At(0, 0); got != (types.Pixel{R: 0xf0, G: 0x80, B: 0x00, A: 0x7f}) {
		t.Errorf("unexpected result %v", got)
	}
}

func TestFloorColourIdempotent(t *testing.T) {
	for shift := uint8(0); shift < 8; shift++ {
		once := genTestPic(8, 8, t)
		effects.FloorColour(once, shift)
		twice := once.Clone()
		effects.FloorColour(twice, shift)
		if !once.Equal(twice) {
			t.Errorf("shift %d: floor colour is not idempotent", shift)
		}
		distinct := map[uint8]bool{}
		for i := 0; i < len(once.Pix); i += 4 {
			distinct[once.Pix[i]] = true
		}
		if len(distinct) > 1<<(8-shift) {
			t.Errorf("shift %d: %d distinct red values, max %d", shift, len(distinct), 1<<(8-shift))
		}
	}
}

func TestGreyscale(t *testing.T) {
	b := pixbuf.New(2, 1)
	b.Set(0, 0, types.Pixel{R: 99, G: 99, B: 99, A: 10})
	b.Set(1, 0, types.Pixel{R: 255, G: 0, B: 0, A: 255})
	effects.Greyscale(b)
	if got := b.At(0, 0); got != (types.Pixel{R: 99, G: 99, B: 99, A: 10}) {
		t.Errorf("grey pixel should not change, got %v", got)
	}
	/// 0.299*255 = 76.245
	if got := b.At(1, 0); got != (types.Pixel{R: 76, G: 76, B: 76, A: 255}) {
		t.Errorf("expected luma 76, got %v", got)
	}
}
