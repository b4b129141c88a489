package view

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"pixfx/logging"
)

type CharSize struct {
	Width  int
	Height int
}

var defaultCharSize = CharSize{Width: 8, Height: 16}

// IsTerminal reports whether both stdin and stdout are attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectCharSize asks an xterm-compatible terminal for its cell size in
// pixels and falls back to 8x16. Must run before the screen is initialised,
// it reads the reply straight off stdin.
func DetectCharSize() CharSize {
	termType := os.Getenv("TERM")
	logging.Debugf("detected terminal type: %s", termType)

	if strings.HasPrefix(termType, "xterm") || strings.Contains(termType, "256color") {
		size, err := calibrateXterm()
		if err == nil {
			logging.Debugf("calibrated character size: %dx%d pixels", size.Width, size.Height)
			return size
		}
		logging.Warnf("calibration failed: %v, using %dx%d", err, defaultCharSize.Width, defaultCharSize.Height)
	}
	return defaultCharSize
}

func calibrateXterm() (CharSize, error) {
	// Query terminal size in characters
	charResponse, err := queryTerminal("\033[18t")
	if err != nil {
		return CharSize{}, fmt.Errorf("failed to query terminal size in characters: %w", err)
	}
	// Query terminal size in pixels
	pixelResponse, err := queryTerminal("\033[14t")
	if err != nil {
		return CharSize{}, fmt.Errorf("failed to query terminal size in pixels: %w", err)
	}
	return parseCalibration(charResponse, pixelResponse)
}

func parseCalibration(charResponse, pixelResponse string) (CharSize, error) {
	var charRows, charCols, pixelHeight, pixelWidth int
	if _, err := fmt.Sscanf(charResponse, "\033[8;%d;%dt", &charRows, &charCols); err != nil {
		return CharSize{}, fmt.Errorf("failed to parse character size response: %w", err)
	}
	if _, err := fmt.Sscanf(pixelResponse, "\033[4;%d;%dt", &pixelHeight, &pixelWidth); err != nil {
		return CharSize{}, fmt.Errorf("failed to parse pixel size response: %w", err)
	}
	if charRows <= 0 || charCols <= 0 || pixelHeight <= 0 || pixelWidth <= 0 {
		return CharSize{}, fmt.Errorf("terminal reported an empty size")
	}
	return CharSize{Width: pixelWidth / charCols, Height: pixelHeight / charRows}, nil
}

func queryTerminal(query string) (string, error) {
	if _, err := fmt.Fprint(os.Stdout, query); err != nil {
		return "", err
	}

	// Use a raw terminal to read the response
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	response := make([]byte, 32)
	n, err := os.Stdin.Read(response)
	if err != nil {
		return "", err
	}
	return string(response[:n]), nil
}
