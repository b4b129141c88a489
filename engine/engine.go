// Package engine turns one requested operation per tick into a new working
// buffer, and keeps the animated pixel sort moving between ticks.
package engine

import (
	"errors"
	"fmt"

	"pixfx/effects"
	"pixfx/history"
	"pixfx/imageio"
	"pixfx/logging"
	"pixfx/pixbuf"
	"pixfx/scheduler"
)

var ErrUnknownRequest = errors.New("unknown request")

// ClampBlockSize limits a block size to [1, max(1, height-1)].
func ClampBlockSize(size, height int) int {
	return min(max(size, 1), max(1, height-1))
}

// Apply runs a pixel transform on a copy of b and returns the copy. b is
// never modified. Requests that need I/O or session state are rejected.
func Apply(b *pixbuf.Buffer, req Request) (*pixbuf.Buffer, error) {
	switch r := req.(type) {
	case Scramble:
		return effects.Scramble(b), nil
	case Descramble:
		return effects.Descramble(b), nil
	case ColourSplit:
		return effects.Split(b, r.Distance), nil
	}

	out := b.Clone()
	switch r := req.(type) {
	case PixelSort:
		scheduler.New().RunToCompletion(out, r.Axis, r.Threshold, r.Reverse)
	case Pixelate:
		effects.Pixelate(out, ClampBlockSize(r.BlockSize, b.Height))
	case ColourFloor:
		effects.FloorColour(out, r.Shift)
	case Greyscale:
		effects.Greyscale(out)
	default:
		return nil, fmt.Errorf("%w: %s is not a pixel transform", ErrUnknownRequest, req.Name())
	}
	return out, nil
}

// Session holds the loaded image, the working copy it is edited into and the
// sort scheduler. It is driven from a single goroutine.
type Session struct {
	original *pixbuf.Buffer
	working  *pixbuf.Buffer
	sched    *scheduler.Scheduler
	history  *history.History
	/// direction for the next animated scanline
	reverse bool
	log     *logging.Logger
}

// NewSession starts editing a copy of b.
func NewSession(b *pixbuf.Buffer, depth int) (*Session, error) {
	h, err := history.New(depth)
	if err != nil {
		return nil, err
	}
	return &Session{
		original: b,
		working:  b.Clone(),
		sched:    scheduler.New(),
		history:  h,
		log:      logging.Default(),
	}, nil
}

// OpenSession loads path. When that fails the session starts on a 1x1
// placeholder and the load error is returned alongside it.
func OpenSession(path string, depth int) (*Session, error) {
	b, loadErr := imageio.Load(path)
	if loadErr != nil {
		b = pixbuf.Placeholder()
	}
	s, err := NewSession(b, depth)
	if err != nil {
		return nil, err
	}
	return s, loadErr
}

func (s *Session) SetLogger(l *logging.Logger) {
	s.log = l
}

// Working is the current working copy. It is replaced, not mutated, by the
// transforms that build a new buffer, so callers must fetch it again after
// every Tick.
func (s *Session) Working() *pixbuf.Buffer {
	return s.working
}

func (s *Session) Original() *pixbuf.Buffer {
	return s.original
}

func (s *Session) SortState() scheduler.State {
	return s.sched.State()
}

// SortRemaining is the number of scanlines the animated sort still has to do.
func (s *Session) SortRemaining() int {
	return s.sched.Remaining()
}

func (s *Session) UndoDepth() int {
	return s.history.Len()
}

func (s *Session) Close() {
	s.history.Close()
}

// SetReverse changes the direction of the remaining scanlines of an animated
// sort. Rows already sorted keep their order.
func (s *Session) SetReverse(reverse bool) {
	s.reverse = reverse
}

// Tick applies req (nil for none) and then advances an animated sort by one
// scanline. changed reports whether the working copy may differ from the
// previous tick.
func (s *Session) Tick(req Request) (changed bool, err error) {
	if req != nil {
		changed, err = s.dispatch(req)
		if err != nil {
			s.log.Warnf("%s: %v", req.Name(), err)
		}
	}
	if s.sched.Active() {
		s.sched.Tick(s.working, s.reverse)
		changed = true
		if !s.sched.Active() {
			s.log.Infof("animated sort finished")
		}
	}
	return changed, err
}

func (s *Session) dispatch(req Request) (bool, error) {
	s.log.Debugf("request %s %+v", req.Name(), req)

	switch r := req.(type) {
	case Open:
		b, err := imageio.Load(r.Path)
		if err != nil {
			/// keep whatever we had, it is still a valid buffer
			return false, err
		}
		s.sched.Cancel()
		s.history.Clear()
		s.original = b
		s.working = b.Clone()
		s.log.Infof("opened %s (%dx%d)", r.Path, b.Width, b.Height)
		return true, nil

	case Save:
		if err := imageio.Save(r.Path, s.working); err != nil {
			return false, err
		}
		s.log.Infof("saved %s", r.Path)
		return false, nil

	case Reset:
		s.sched.Cancel()
		s.history.Push(s.working)
		s.working = s.original.Clone()
		return true, nil

	case Undo:
		b, err := s.history.Pop()
		if err != nil {
			return false, err
		}
		s.sched.Cancel()
		s.working = b
		return true, nil

	case PixelSort:
		s.history.Push(s.working)
		if r.Animate {
			s.reverse = r.Reverse
			s.sched.Plan(s.working, r.Axis, r.Threshold)
			s.log.Infof("sorting %d %ss", s.sched.Remaining(), r.Axis)
			return true, nil
		}
		s.sched.Cancel()
		s.sched.RunToCompletion(s.working, r.Axis, r.Threshold, r.Reverse)
		return true, nil
	}

	out, err := Apply(s.working, req)
	if err != nil {
		return false, err
	}
	s.history.Push(s.working)
	s.working = out
	return true, nil
}
