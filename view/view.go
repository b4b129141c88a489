// Package view is the interactive terminal frontend: it polls keys through
// tcell, feeds one request per frame to an engine session and draws the
// working copy as sixel graphics.
package view

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-sixel"
	"golang.org/x/image/draw"

	"pixfx/engine"
	"pixfx/logging"
	"pixfx/pixbuf"
)

const statusHeight = 1

type Viewer struct {
	screen   tcell.Screen
	session  *engine.Session
	out      io.Writer
	charSize CharSize
	frame    time.Duration
	log      *logging.Logger

	params   engine.Params
	savePath string
	prompt   prompt
	/// set when the image needs to be sent again
	dirty bool
}

type Options struct {
	Params   engine.Params
	SavePath string
	CharSize CharSize
	Frame    time.Duration
	Logger   *logging.Logger
}

// New wires a viewer to an initialised screen. Sixel data goes to out,
// normally os.Stdout.
func New(screen tcell.Screen, session *engine.Session, out io.Writer, opts Options) *Viewer {
	if opts.Frame <= 0 {
		opts.Frame = 33 * time.Millisecond
	}
	if opts.CharSize.Width <= 0 || opts.CharSize.Height <= 0 {
		opts.CharSize = defaultCharSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.SavePath == "" {
		opts.SavePath = "sorted.png"
	}
	return &Viewer{
		screen:   screen,
		session:  session,
		out:      out,
		charSize: opts.CharSize,
		frame:    opts.Frame,
		log:      opts.Logger,
		params:   opts.Params,
		savePath: opts.SavePath,
		dirty:    true,
	}
}

// Run drives the frame loop until quit is pressed or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()

	v.log.Infof("press ESC to exit")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		req, quit := v.drain(events)
		if quit {
			return nil
		}
		if err := v.Frame(req); err != nil {
			return err
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done
// is closed.
func (v *Viewer) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			/// screen finalised
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// drain handles every queued event and keeps the first request of the frame.
func (v *Viewer) drain(events <-chan tcell.Event) (engine.Request, bool) {
	var req engine.Request
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, true
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				v.dirty = true
			case *tcell.EventKey:
				r, quit := v.handleKey(ev)
				if quit {
					return nil, true
				}
				if r == nil {
					continue
				}
				if req != nil {
					v.log.Debugf("dropping %s, %s already requested this frame", r.Name(), req.Name())
					continue
				}
				req = r
			}
		default:
			return req, false
		}
	}
}

// Frame runs one tick of the session and redraws what changed.
func (v *Viewer) Frame(req engine.Request) error {
	v.session.SetReverse(v.params.Reverse)
	changed, err := v.session.Tick(req)
	if err != nil {
		/// already logged by the session, the status bar shows it
		v.log.Debugf("frame: %v", err)
	}
	if changed {
		v.dirty = true
	}
	v.drawStatus()
	if v.dirty {
		if err := v.drawImage(v.session.Working()); err != nil {
			return fmt.Errorf("error encoding image to sixel: %w", err)
		}
		v.dirty = false
	}
	return nil
}

// imageArea is the pixel area above the status bar.
func (v *Viewer) imageArea() (int, int) {
	width, height := v.screen.Size()
	return width * v.charSize.Width, max(height-statusHeight, 0) * v.charSize.Height
}

// fit scales w x h to fit inside maxW x maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
}

func (v *Viewer) drawImage(b *pixbuf.Buffer) error {
	maxW, maxH := v.imageArea()
	newWidth, newHeight := fit(b.Width, b.Height, maxW, maxH)
	if newWidth == 0 || newHeight == 0 {
		return nil
	}

	/// nearest neighbour keeps pixelated blocks and sorted streaks crisp
	scaled := image.NewNRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), b.Image(), b.Image().Bounds(), draw.Src, nil)

	enc := sixel.NewEncoder(v.out)
	enc.Width = newWidth
	enc.Height = newHeight

	// Move cursor to top-left corner
	fmt.Fprint(v.out, "\033[H")
	return enc.Encode(scaled)
}

func (v *Viewer) statusLine() string {
	if v.prompt.active {
		return fmt.Sprintf("%s: %s", v.prompt.label, v.prompt.text())
	}
	p := v.params
	direction := "below"
	if p.Threshold.Above {
		direction = "above"
	}
	sortState := v.session.SortState().String()
	if v.session.SortRemaining() > 0 {
		sortState = fmt.Sprintf("%s %d", sortState, v.session.SortRemaining())
	}
	return fmt.Sprintf("thr %.2f %s rev=%v %s | dist %d block %d shift %d | sort %s | undo %d | %s",
		p.Threshold.Value, direction, p.Reverse, p.Axis,
		p.Distance, p.BlockSize, p.Shift,
		sortState, v.session.UndoDepth(), v.log.Ring().Last())
}

func (v *Viewer) drawStatus() {
	width, height := v.screen.Size()
	if height < 1 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	y := height - 1
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
	x := 0
	for _, ch := range v.statusLine() {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	if v.prompt.active {
		v.screen.ShowCursor(len(v.prompt.label)+2+v.prompt.cursor, y)
	} else {
		v.screen.HideCursor()
	}
	v.screen.Show()
}
