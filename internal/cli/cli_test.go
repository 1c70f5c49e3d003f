package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withColor(t *testing.T, on bool) {
	t.Helper()
	prev := Enabled()
	SetEnabled(on)
	t.Cleanup(func() { SetEnabled(prev) })
}

func TestStyle_Disabled(t *testing.T) {
	withColor(t, false)
	assert.Equal(t, "ok", Style("ok", Green))
	assert.Equal(t, "x", Gradient("x", Fast, Slow, 0.5))
	assert.Equal(t, `{"a":1}`, HighlightJSON(`{"a":1}`))
}

func TestStyle_Enabled(t *testing.T) {
	withColor(t, true)
	assert.Equal(t, Green+"ok"+Reset, Style("ok", Green))
	assert.Equal(t, "\033[38;2;40;200;90mx\033[0m", Gradient("x", Fast, Slow, -3))
	assert.Equal(t, "\033[38;2;230;70;50mx\033[0m", Gradient("x", Fast, Slow, 7))
}

func TestHighlightJSON(t *testing.T) {
	withColor(t, true)
	out := HighlightJSON(`{"ok":true,"n":3,"s":"x","z":null}`)
	assert.Contains(t, out, Blue+`"ok"`+Reset+":")
	assert.Contains(t, out, Yellow+"true"+Reset)
	assert.Contains(t, out, Purple+"3"+Reset)
	assert.Contains(t, out, Green+`"x"`+Reset)
	assert.Contains(t, out, Dim+"null"+Reset)
}

func TestReportHelpers(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer
	Header(&buf, "Groq")
	Outcome(&buf, true, "llama3-8b-8192", "0.41s")
	Outcome(&buf, false, "gemma-7b", "")
	Warn(&buf, "%d modelli", 2)
	Step(&buf, "salvo %s", "ok/groq.txt")

	assert.Equal(t, "Groq\n====\n  ✔ llama3-8b-8192  0.41s\n  ✘ gemma-7b\n⚠ 2 modelli\n➜ salvo ok/groq.txt\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer
	assert.NoError(t, WriteJSON(&buf, map[string]int{"n": 1}))
	assert.Equal(t, "{\n  \"n\": 1\n}\n", buf.String())

	buf.Reset()
	assert.NoError(t, WriteJSON(&buf, []byte(`{"raw":true}`)))
	assert.Equal(t, "{\"raw\":true}\n", buf.String())
}
