package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// jsonToken matches, in order: a quoted string optionally followed by a
// colon (an object key), the true/false/null literals, or a number.
var jsonToken = regexp.MustCompile(`"(?:\\u[0-9a-fA-F]{4}|\\[^u]|[^\\"])*"(?:\s*:)?|\b(?:true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?`)

// jsonColor picks the color for one token matched by jsonToken.
func jsonColor(tok string) string {
	switch {
	case tok[0] == '"':
		return Green
	case tok == "true", tok == "false":
		return Yellow
	case tok == "null":
		return Dim
	default:
		return Purple
	}
}

// HighlightJSON colors a JSON document for the terminal. Keys are blue, the
// colon after them stays plain.
func HighlightJSON(doc string) string {
	if !Enabled() {
		return doc
	}
	return jsonToken.ReplaceAllStringFunc(doc, func(tok string) string {
		if strings.HasSuffix(tok, ":") {
			return Blue + tok[:len(tok)-1] + Reset + ":"
		}
		return jsonColor(tok) + tok + Reset
	})
}

// WriteJSON writes v as indented, highlighted JSON followed by a newline.
// Raw []byte and string values are assumed to already be JSON.
func WriteJSON(w io.Writer, v any) error {
	var doc string
	switch t := v.(type) {
	case []byte:
		doc = string(t)
	case string:
		doc = t
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		doc = string(b)
	}
	_, err := fmt.Fprintln(w, HighlightJSON(doc))
	return err
}
