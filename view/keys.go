package view

import (
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"

	"pixfx/engine"
	"pixfx/types"
)

/// key bindings
/// op keys turn into a request, param keys edit v.params and return nil

const thresholdStep = 0.05

// prompt is a one line path editor in the status bar. cursor counts runes.
type prompt struct {
	active bool
	label  string
	buffer []rune
	cursor int
	// builds the request once enter is pressed
	submit func(path string) engine.Request
}

func (p *prompt) open(label, initial string, submit func(string) engine.Request) {
	p.active = true
	p.label = label
	p.buffer = []rune(initial)
	p.cursor = len(p.buffer)
	p.submit = submit
}

func (p *prompt) text() string {
	return string(p.buffer)
}

// handle edits the buffer and returns a request on enter
func (p *prompt) handle(ev *tcell.EventKey) engine.Request {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.active = false
	case tcell.KeyEnter:
		p.active = false
		return p.submit(p.text())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor > 0 {
			p.buffer = slices.Delete(p.buffer, p.cursor-1, p.cursor)
			p.cursor--
		}
	case tcell.KeyDelete:
		if p.cursor < len(p.buffer) {
			p.buffer = slices.Delete(p.buffer, p.cursor, p.cursor+1)
		}
	case tcell.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}
	case tcell.KeyRight:
		if p.cursor < len(p.buffer) {
			p.cursor++
		}
	case tcell.KeyHome:
		p.cursor = 0
	case tcell.KeyEnd:
		p.cursor = len(p.buffer)
	case tcell.KeyCtrlU:
		p.buffer = nil
		p.cursor = 0
	case tcell.KeyRune:
		p.buffer = slices.Insert(p.buffer, p.cursor, ev.Rune())
		p.cursor++
	}
	return nil
}

// handleKey maps a key to at most one request. quit is set for Esc/Ctrl-C
// outside the prompt.
func (v *Viewer) handleKey(ev *tcell.EventKey) (req engine.Request, quit bool) {
	if v.prompt.active {
		return v.prompt.handle(ev), false
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyRune:
	default:
		return nil, false
	}

	p := &v.params
	switch ev.Rune() {
	case 'q':
		return nil, true
	case 's':
		return engine.PixelSort{Threshold: p.Threshold, Reverse: p.Reverse, Axis: p.Axis}, false
	case 'S':
		return engine.PixelSort{Threshold: p.Threshold, Reverse: p.Reverse, Axis: p.Axis, Animate: true}, false
	case 'x':
		return engine.Scramble{}, false
	case 'X':
		return engine.Descramble{}, false
	case 'p':
		return engine.Pixelate{BlockSize: p.BlockSize}, false
	case 'c':
		return engine.ColourSplit{Distance: p.Distance}, false
	case 'g':
		return engine.Greyscale{}, false
	case 'f':
		return engine.ColourFloor{Shift: p.Shift}, false
	case 'R':
		return engine.Reset{}, false
	case 'u':
		return engine.Undo{}, false
	case 'o':
		v.prompt.open("open", p.Path, func(path string) engine.Request {
			v.params.Path = path
			return engine.Open{Path: path}
		})
	case 'w':
		v.prompt.open("save", v.savePath, func(path string) engine.Request {
			v.savePath = path
			return engine.Save{Path: path}
		})

	case '+', '=':
		p.Threshold.Value = stepThreshold(p.Threshold.Value, thresholdStep)
	case '-', '_':
		p.Threshold.Value = stepThreshold(p.Threshold.Value, -thresholdStep)
	case 'a':
		p.Threshold.Above = !p.Threshold.Above
	case 'r':
		p.Reverse = !p.Reverse
	case 'v':
		if p.Axis == types.Horizontal {
			p.Axis = types.Vertical
		} else {
			p.Axis = types.Horizontal
		}
	case '[':
		p.Distance--
	case ']':
		p.Distance++
	case '{':
		p.BlockSize = max(p.BlockSize-1, 1)
	case '}':
		p.BlockSize++
	case '<':
		if p.Shift > 0 {
			p.Shift--
		}
	case '>':
		if p.Shift < 7 {
			p.Shift++
		}
	}
	return nil, false
}

// stepThreshold moves the threshold slider, staying on the 0.05 grid in [0,1]
func stepThreshold(value, step float64) float64 {
	value = math.Round((value+step)/thresholdStep) * thresholdStep
	return min(max(value, 0), 1)
}
