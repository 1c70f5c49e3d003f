package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest_DecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := SendRequest(context.Background(), server.Client(), http.MethodPost, server.URL, BearerAuth("k"), map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestSendRequest_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "tokens", "code": "rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	err := GetJSON(context.Background(), server.Client(), server.URL+"/models?key=secret", nil, nil)
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "Rate limit reached", upstream.VendorMessage())
	assert.Equal(t, "rate_limit_exceeded", upstream.VendorCode())
	assert.NotContains(t, upstream.Error(), "secret")
}

func TestUpstreamError_BodyShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
		code interface{}
	}{
		{"gemini", `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`, "API key not valid", float64(400)},
		{"huggingface", `{"error": "Model is loading"}`, "Model is loading", 503},
		{"plain message", `{"message": "Unauthorized"}`, "Unauthorized", 503},
		{"not json", `<html>bad gateway</html>`, "", 503},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &UpstreamError{StatusCode: 503, Body: []byte(tc.body), URL: "http://x"}
			assert.Equal(t, tc.msg, e.VendorMessage())
			assert.Equal(t, tc.code, e.VendorCode())
		})
	}
}
