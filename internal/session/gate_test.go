package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/api/server/client/clientmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// factoryFor returns a factory that hands out m and records the keys it saw.
func factoryFor(m *clientmock.MockChatClient, keys *[]string) ClientFactory {
	return func(apiKey string) client.ChatClientInterface {
		*keys = append(*keys, apiKey)
		return m
	}
}

func TestGate_ValidateSuccess(t *testing.T) {
	mockClient := new(clientmock.MockChatClient)
	mockClient.On("ListModels", mock.Anything).Return([]client.OpenAIModel{{ID: "gpt-4o"}}, nil).Once()

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	require.NoError(t, g.Validate(context.Background(), "sk-good"))

	assert.Equal(t, State{APIKey: "sk-good", Confirmed: true}, g.State())
	assert.Equal(t, []string{"sk-good"}, keys)
	mockClient.AssertExpectations(t)

	c, err := g.Client()
	require.NoError(t, err)
	assert.Equal(t, mockClient, c)
	assert.Equal(t, []string{"sk-good", "sk-good"}, keys)
}

func TestGate_ValidateRejected(t *testing.T) {
	rejected := &client.APIError{StatusCode: 401, Message: "Incorrect API key provided"}
	mockClient := new(clientmock.MockChatClient)
	mockClient.On("ListModels", mock.Anything).Return(nil, rejected).Once()

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	err := g.Validate(context.Background(), "sk-bad")
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, "Invalid API key: Incorrect API key provided (status 401)", err.Error())

	assert.False(t, g.Confirmed())
	assert.Empty(t, g.State().APIKey)

	_, err = g.Client()
	assert.ErrorIs(t, err, ErrNotConfirmed)
	mockClient.AssertNotCalled(t, "ChatStream", mock.Anything, mock.Anything)
}

func TestGate_ValidateNetworkFailure(t *testing.T) {
	mockClient := new(clientmock.MockChatClient)
	mockClient.On("ListModels", mock.Anything).Return(nil, errors.New("dial tcp: no such host")).Once()

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	err := g.Validate(context.Background(), "sk-any")
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.False(t, g.Confirmed())
}

func TestGate_EmptyKeyMakesNoCall(t *testing.T) {
	mockClient := new(clientmock.MockChatClient)

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	assert.ErrorIs(t, g.Validate(context.Background(), ""), ErrMissingKey)
	assert.Empty(t, keys)
	mockClient.AssertNotCalled(t, "ListModels", mock.Anything)
}

func TestGate_FailedRevalidationKeepsConfirmedKey(t *testing.T) {
	mockClient := new(clientmock.MockChatClient)
	mockClient.On("ListModels", mock.Anything).Return([]client.OpenAIModel{}, nil).Once()
	mockClient.On("ListModels", mock.Anything).Return(nil, errors.New("revoked")).Once()

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	require.NoError(t, g.Validate(context.Background(), "sk-first"))
	require.Error(t, g.Validate(context.Background(), "sk-second"))
	assert.Equal(t, State{APIKey: "sk-first", Confirmed: true}, g.State())
}

func TestGate_ResetIsIdempotent(t *testing.T) {
	mockClient := new(clientmock.MockChatClient)
	mockClient.On("ListModels", mock.Anything).Return([]client.OpenAIModel{}, nil)

	var keys []string
	g := NewGate(factoryFor(mockClient, &keys))

	g.Reset()
	assert.Equal(t, State{}, g.State())

	require.NoError(t, g.Validate(context.Background(), "sk-good"))
	g.Reset()
	assert.Equal(t, State{}, g.State())
	g.Reset()
	assert.Equal(t, State{}, g.State())

	_, err := g.Client()
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestState_StringHidesKey(t *testing.T) {
	s := State{APIKey: "sk-secret", Confirmed: true}
	assert.NotContains(t, fmt.Sprint(s), "sk-secret")
	assert.NotContains(t, fmt.Sprintf("%v", s), "sk-secret")
}
