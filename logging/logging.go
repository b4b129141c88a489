package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type Severity int

const (
	DEBUG Severity = iota
	INFO
	WARN
	ERROR
)

func (s Severity) String() string {
	switch s {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	}
	return "ERROR"
}

var severityAttrs = map[Severity]color.Attribute{
	DEBUG: color.Faint,
	INFO:  color.FgGreen,
	WARN:  color.FgYellow,
	ERROR: color.FgRed,
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorsFor builds the level colours for out. Only terminals get escapes,
// whatever stdout happens to be.
func colorsFor(out io.Writer) map[Severity]*color.Color {
	enabled := isTerminal(out)
	colors := make(map[Severity]*color.Color, len(severityAttrs))
	for severity, attr := range severityAttrs {
		c := color.New(attr)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		colors[severity] = c
	}
	return colors
}

// LogBuffer keeps the most recent log lines for on-screen display.
type LogBuffer struct {
	messages []string
	limit    int
	mutex    sync.Mutex
}

func NewLogBuffer(limit int) *LogBuffer {
	return &LogBuffer{limit: limit}
}

// Write implements io.Writer; every call is stored as one line.
func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()

	message := strings.TrimSpace(cleanString(string(p)))
	if message != "" {
		lb.messages = append(lb.messages, message)
		if len(lb.messages) > lb.limit {
			lb.messages = lb.messages[1:]
		}
	}
	return len(p), nil
}

// Last returns the newest line, or "" when nothing was logged yet.
func (lb *LogBuffer) Last() string {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()
	if len(lb.messages) == 0 {
		return ""
	}
	return lb.messages[len(lb.messages)-1]
}

func (lb *LogBuffer) Messages() []string {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()
	out := make([]string, len(lb.messages))
	copy(out, lb.messages)
	return out
}

// cleanString drops control characters and ANSI colour escapes
func cleanString(s string) string {
	var result []rune
	escape := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			escape = true
		case escape:
			if r == 'm' {
				escape = false
			}
		case r >= 32 && r != 127 || r == '\t':
			result = append(result, r)
		}
	}
	return string(result)
}

// Logger writes "[LEVEL] message" lines, coloured when out is a terminal.
type Logger struct {
	mutex  sync.Mutex
	out    io.Writer
	colors map[Severity]*color.Color
	ring   *LogBuffer
	debug  bool
}

func New(out io.Writer) *Logger {
	return &Logger{out: out, colors: colorsFor(out), ring: NewLogBuffer(1000)}
}

var std = New(os.Stderr)

// Default is the process-wide logger.
func Default() *Logger {
	return std
}

// SetDebug enables or disables debug output
func (l *Logger) SetDebug(enabled bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.debug = enabled
}

// SetOutput redirects output. The ring keeps recording either way.
func (l *Logger) SetOutput(out io.Writer) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.out = out
	l.colors = colorsFor(out)
}

func (l *Logger) Ring() *LogBuffer {
	return l.ring
}

func (l *Logger) Log(severity Severity, format string, args ...any) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if severity == DEBUG && !l.debug {
		return
	}
	message := fmt.Sprintf("[%s] %s", severity, fmt.Sprintf(format, args...))
	l.ring.Write([]byte(message))
	if l.out != nil {
		fmt.Fprintln(l.out, l.colors[severity].Sprint(message))
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.Log(DEBUG, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Log(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Log(WARN, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Log(ERROR, format, args...) }

func Debugf(format string, args ...any) { std.Log(DEBUG, format, args...) }
func Infof(format string, args ...any)  { std.Log(INFO, format, args...) }
func Warnf(format string, args ...any)  { std.Log(WARN, format, args...) }
func Errorf(format string, args ...any) { std.Log(ERROR, format, args...) }
