// Package scheduler runs the pixel sort either in one go or one scanline per
// tick, so a frontend can animate the sort between frames.
package scheduler

import (
	"pixfx/intervals"
	"pixfx/pixbuf"
	"pixfx/types"
)

type State int

const (
	Idle State = iota
	// Planned holds a queue that has not been ticked yet.
	Planned
	Draining
)

func (s State) String() string {
	switch s {
	case Planned:
		return "planned"
	case Draining:
		return "draining"
	}
	return "idle"
}

// Scheduler owns a queue of per-scanline runs. It never touches a buffer
// outside of RunToCompletion and Tick.
type Scheduler struct {
	state  State
	axis   types.Axis
	queue  []types.RunSet
	cursor int
}

func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) State() State {
	return s.state
}

// Active reports whether Tick still has scanlines to sort.
func (s *Scheduler) Active() bool {
	return s.state != Idle
}

// Remaining is the number of scanlines left in the queue.
func (s *Scheduler) Remaining() int {
	return len(s.queue) - s.cursor
}

// Plan snapshots b, finds the runs of every scanline and queues them. Any
// queue from an earlier plan is dropped.
func (s *Scheduler) Plan(b *pixbuf.Buffer, axis types.Axis, threshold types.ThresholdConfig) {
	snapshot := b.Clone()
	s.axis = axis
	s.queue = intervals.FindRuns(snapshot, axis, threshold)
	s.cursor = 0
	s.state = Planned
	if len(s.queue) == 0 {
		s.Cancel()
	}
}

// Cancel drops the queue and goes back to Idle.
func (s *Scheduler) Cancel() {
	s.queue = nil
	s.cursor = 0
	s.state = Idle
}

// Tick sorts the runs of the next queued scanline against b and reports
// whether more scanlines remain. It is a no-op while Idle.
func (s *Scheduler) Tick(b *pixbuf.Buffer, reverse bool) bool {
	if s.state == Idle {
		return false
	}
	s.state = Draining
	intervals.SortRunSet(b, s.axis, s.queue[s.cursor], reverse)
	s.cursor++
	if s.cursor >= len(s.queue) {
		s.Cancel()
		return false
	}
	return true
}

// RunToCompletion is Plan followed by Tick until Idle.
func (s *Scheduler) RunToCompletion(b *pixbuf.Buffer, axis types.Axis, threshold types.ThresholdConfig, reverse bool) {
	s.Plan(b, axis, threshold)
	for s.Tick(b, reverse) {
	}
}
