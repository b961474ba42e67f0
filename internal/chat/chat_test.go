package chat

import (
	"testing"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"valid", Request{Model: "gpt-4o", Prompt: "hi", Lang1: "French", Lang2: "Spanish"}, nil},
		{"same language twice", Request{Model: "gpt-4", Prompt: "hi", Lang1: "German", Lang2: "German"}, nil},
		{"empty prompt", Request{Model: "gpt-4o", Prompt: "", Lang1: "French", Lang2: "Spanish"}, ErrEmptyPrompt},
		{"whitespace prompt is sent as typed", Request{Model: "gpt-4o", Prompt: " \n\t", Lang1: "French", Lang2: "Spanish"}, nil},
		{"unknown model", Request{Model: "gpt-9", Prompt: "hi", Lang1: "French", Lang2: "Spanish"}, ErrUnknownModel},
		{"unknown language", Request{Model: "gpt-4o", Prompt: "hi", Lang1: "Klingon", Lang2: "Spanish"}, ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLanguages(t *testing.T) {
	require.Len(t, Languages, 10)

	seen := make(map[string]bool)
	for _, l := range Languages {
		assert.False(t, seen[l.Name], "duplicate language %s", l.Name)
		seen[l.Name] = true
		assert.NotEqual(t, "und", l.Tag.String(), "language %s has no tag", l.Name)
	}

	fr, ok := LookupLanguage("French")
	require.True(t, ok)
	assert.Equal(t, "fr", fr.Tag.String())

	_, ok = LookupLanguage("french")
	assert.False(t, ok)
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("What is the capital of France?", "French")

	require.Len(t, msgs, 2)
	assert.Equal(t, client.RoleSystem, msgs[0].Role)
	assert.Equal(t, "You are a helpful assistant. Always respond only in French, regardless of the input language.", msgs[0].Content)
	assert.Equal(t, client.RoleUser, msgs[1].Role)
	assert.Equal(t, "What is the capital of France?\n\nPlease respond strictly in French.", msgs[1].Content)
}

func TestNewChatRequest(t *testing.T) {
	req := NewChatRequest("gpt-3.5-turbo", "hello", "Japanese")
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.True(t, req.Stream)
	assert.Len(t, req.Messages, 2)
}
