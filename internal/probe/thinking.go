package probe

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// SplitThinking separates the <think>...</think> blocks reasoning models emit
// from the visible answer. An unterminated block runs to the end of text.
func SplitThinking(text string) (answer, reasoning string) {
	var a, r strings.Builder
	for text != "" {
		start := strings.Index(text, thinkOpen)
		if start == -1 {
			a.WriteString(text)
			break
		}
		a.WriteString(text[:start])
		text = text[start+len(thinkOpen):]

		end := strings.Index(text, thinkClose)
		if end == -1 {
			r.WriteString(text)
			break
		}
		r.WriteString(text[:end])
		text = text[end+len(thinkClose):]
	}
	return a.String(), r.String()
}
