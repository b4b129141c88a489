// Package history keeps a bounded undo stack of working-copy snapshots.
// Snapshots are zstd compressed; effect output tends to compress well.
package history

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"pixfx/pixbuf"
)

const DefaultDepth = 16

var ErrEmpty = errors.New("history: nothing to undo")

type snapshot struct {
	width  int
	height int
	data   []byte
}

// History is not safe for concurrent use; the engine drives it from one goroutine.
type History struct {
	depth     int
	snapshots []snapshot
	enc       *zstd.Encoder
	dec       *zstd.Decoder
}

func New(depth int) (*History, error) {
	if depth < 1 {
		depth = DefaultDepth
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedFastest),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &History{depth: depth, enc: enc, dec: dec}, nil
}

func (h *History) Len() int {
	return len(h.snapshots)
}

// Push stores a copy of b, dropping the oldest snapshot once full.
func (h *History) Push(b *pixbuf.Buffer) {
	if len(h.snapshots) == h.depth {
		h.snapshots[0] = snapshot{}
		h.snapshots = h.snapshots[1:]
	}
	s := snapshot{width: b.Width, height: b.Height}
	if len(b.Pix) > 0 {
		s.data = h.enc.EncodeAll(b.Pix, nil)
	}
	h.snapshots = append(h.snapshots, s)
}

// Pop returns the most recent snapshot as a new buffer.
func (h *History) Pop() (*pixbuf.Buffer, error) {
	n := len(h.snapshots)
	if n == 0 {
		return nil, ErrEmpty
	}
	s := h.snapshots[n-1]
	h.snapshots = h.snapshots[:n-1]

	pix := make([]byte, 0, s.width*s.height*4)
	if len(s.data) > 0 {
		var err error
		pix, err = h.dec.DecodeAll(s.data, pix)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
	}
	if len(pix) != s.width*s.height*4 {
		return nil, fmt.Errorf("history: snapshot holds %d bytes, expected %d", len(pix), s.width*s.height*4)
	}
	return &pixbuf.Buffer{Width: s.width, Height: s.height, Pix: pix}, nil
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.snapshots = nil
}

func (h *History) Close() {
	h.enc.Close()
	h.dec.Close()
}
