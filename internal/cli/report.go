package cli

import (
	"fmt"
	"io"
	"strings"
)

// Header prints a bold title followed by a rule of the same width.
func Header(w io.Writer, title string) {
	fmt.Fprintln(w, Style(title, Bold))
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(title))))
}

// Outcome prints one "✔ label  detail" or "✘ label  detail" line.
func Outcome(w io.Writer, ok bool, label, detail string) {
	mark := CrossMark()
	if ok {
		mark = CheckMark()
	}
	if detail == "" {
		fmt.Fprintf(w, "  %s %s\n", mark, label)
		return
	}
	fmt.Fprintf(w, "  %s %s  %s\n", mark, label, Style(detail, Dim))
}

// Warn prints a warning line.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", WarningSign(), fmt.Sprintf(format, args...))
}

// Step prints a progress line.
func Step(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", Arrow(), fmt.Sprintf(format, args...))
}
