// Package cli holds terminal styling shared by the command-line tools and
// the console log encoder.
package cli

import (
	"fmt"
	"os"
	"sync/atomic"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
)

// RGB represents a TrueColor
type RGB struct {
	R, G, B float64
}

var (
	Fast = RGB{40, 200, 90}
	Slow = RGB{230, 70, 50}
)

var colorEnabled atomic.Bool

func init() {
	_, noColor := os.LookupEnv("NO_COLOR")
	colorEnabled.Store(!noColor)
}

// Enabled reports whether ANSI styling is on.
func Enabled() bool {
	return colorEnabled.Load()
}

// SetEnabled overrides the NO_COLOR detection, e.g. for a --no-color flag.
func SetEnabled(on bool) {
	colorEnabled.Store(on)
}

// Style wraps text in a specific color code
func Style(text string, colorCode string) string {
	if !Enabled() {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, Reset)
}

// ColorizeRGB returns text wrapped in ANSI TrueColor escape codes
func ColorizeRGB(text string, c RGB) string {
	if !Enabled() {
		return text
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", int(c.R), int(c.G), int(c.B), text)
}

// Gradient colors text by linear interpolation between start and end.
// progress is clamped to [0, 1].
func Gradient(text string, start, end RGB, progress float64) string {
	if !Enabled() {
		return text
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	r := start.R + (end.R-start.R)*progress
	g := start.G + (end.G-start.G)*progress
	b := start.B + (end.B-start.B)*progress

	return ColorizeRGB(text, RGB{r, g, b})
}

func CheckMark() string {
	return Style("✔", Green)
}

func Arrow() string {
	return Style("➜", Blue)
}

func CrossMark() string {
	return Style("✘", Red)
}

func WarningSign() string {
	return Style("⚠", Yellow)
}
