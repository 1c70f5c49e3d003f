// Package llmtest provides a testify mock of llm.Client.
package llmtest

import (
	"context"

	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
	ID string
}

func (m *MockClient) Name() string { return m.ID }

func (m *MockClient) SendRequest(ctx context.Context, p api.Payload) *api.Response {
	args := m.Called(ctx, p)
	return args.Get(0).(*api.Response)
}

func (m *MockClient) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	args := m.Called(ctx, model, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// ForModel matches payloads addressed to model.
func ForModel(model string) interface{} {
	return mock.MatchedBy(func(p api.Payload) bool { return p.Model() == model })
}
