// Package clientmock provides a testify mock of the provider client.
package clientmock

import (
	"context"
	"strings"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/stretchr/testify/mock"
)

type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) ListModels(ctx context.Context) ([]client.OpenAIModel, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]client.OpenAIModel)
	return models, args.Error(1)
}

func (m *MockChatClient) ChatStream(ctx context.Context, req *client.OpenAIChatRequest) (client.Stream, error) {
	args := m.Called(ctx, req)
	stream, _ := args.Get(0).(client.Stream)
	return stream, args.Error(1)
}

// ForLanguage matches a chat request whose system message names lang.
func ForLanguage(lang string) interface{} {
	return mock.MatchedBy(func(req *client.OpenAIChatRequest) bool {
		return len(req.Messages) > 0 &&
			req.Messages[0].Role == client.RoleSystem &&
			strings.Contains(req.Messages[0].Content, "only in "+lang+",")
	})
}
