package chat

import (
	"fmt"

	"github.com/bz888/dualchat/internal/api/server/client"
)

// BuildMessages returns the system/user pair for one panel. The language is
// named in both turns to keep the model from answering in the prompt's language.
func BuildMessages(prompt, lang string) []client.OpenAIChatMessage {
	return []client.OpenAIChatMessage{
		{
			Role:    client.RoleSystem,
			Content: fmt.Sprintf("You are a helpful assistant. Always respond only in %s, regardless of the input language.", lang),
		},
		{
			Role:    client.RoleUser,
			Content: fmt.Sprintf("%s\n\nPlease respond strictly in %s.", prompt, lang),
		},
	}
}

// NewChatRequest builds the streaming completion request for one panel.
func NewChatRequest(model, prompt, lang string) *client.OpenAIChatRequest {
	return &client.OpenAIChatRequest{
		Model:    model,
		Messages: BuildMessages(prompt, lang),
		Stream:   true,
	}
}
