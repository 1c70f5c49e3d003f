package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequest_ToPayload(t *testing.T) {
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(`{"model":"m","messages":[{"role":"user","content":"hi"}],"stop":"END"}`), &req))

	p, err := req.ToPayload()
	require.NoError(t, err)
	assert.Equal(t, "m", p.Model())
	assert.Equal(t, "END", p["stop"])
	assert.NotContains(t, p, "temperature")
	assert.NotContains(t, p, "stream")
}
