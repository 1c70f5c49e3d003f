package probe

import (
	"context"
	"testing"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestSplitThinking(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantAnswer    string
		wantReasoning string
	}{
		{"no thinking", "Hello world", "Hello world", ""},
		{"leading block", "<think>Reasoning here</think>Hello world", "Hello world", "Reasoning here"},
		{"trailing block", "Hello world<think>Reasoning here</think>", "Hello world", "Reasoning here"},
		{"two blocks", "<think>a</think>Hello<think>b</think> world", "Hello world", "ab"},
		{"unterminated", "Hi<think>still going", "Hi", "still going"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, reasoning := SplitThinking(tt.input)
			assert.Equal(t, tt.wantAnswer, answer)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}

func TestProbe_ThinkingOnlyReplyIsEmpty(t *testing.T) {
	client := &llmtest.MockClient{ID: "groq"}
	client.On("SendRequest", mock.Anything, llmtest.ForModel("r1")).Return(ok("<think>Dante era...</think>  "))
	client.On("SendRequest", mock.Anything, llmtest.ForModel("r1-answer")).Return(ok("<think>hmm</think>Dante"))

	p := New(zap.NewNop(), fastMode())
	clients := []llm.Client{client}

	thinking := p.Probe(context.Background(), "groq", clients, catalog.Entry{ID: "r1", Token: "128k"})
	assert.False(t, thinking.OK)
	assert.Equal(t, "Testo vuoto", thinking.Error)

	answered := p.Probe(context.Background(), "groq", clients, catalog.Entry{ID: "r1-answer", Token: "128k"})
	assert.True(t, answered.OK)
	assert.Equal(t, len("Dante"), answered.Chars)
}
