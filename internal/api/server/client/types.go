package client

type OpenAIChatRequest struct {
	Model    string              `json:"model"`
	Messages []OpenAIChatMessage `json:"messages"`
	Stream   bool                `json:"stream"` // Always true for streaming
}

type OpenAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIChatResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []OpenAIChatChoice `json:"choices"`
	Usage   *OpenAIUsage       `json:"usage,omitempty"`
	Error   *OpenAIErrorBody   `json:"error,omitempty"`
}

type OpenAIChatChoice struct {
	Delta        OpenAIChatDelta `json:"delta"`
	FinishReason *string         `json:"finish_reason,omitempty"`
	Index        int             `json:"index"`
}

type OpenAIChatDelta struct {
	Content *string `json:"content,omitempty"` // nil on role-only and final chunks
	Role    *string `json:"role,omitempty"`
}

type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type OpenAIErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type OpenAIModelsResponse struct {
	Object string        `json:"object"`
	Data   []OpenAIModel `json:"data"`
}

type OpenAIModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Wire types between the local server and its front-ends.

// KeyRequest is the body of POST /api/key.
type KeyRequest struct {
	APIKey string `json:"apiKey"`
}

// KeyResponse reports the session's credential state.
type KeyResponse struct {
	Confirmed bool `json:"confirmed"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Lang1  string `json:"lang1"`
	Lang2  string `json:"lang2"`
}

// ChatEvent is one NDJSON line of a /api/chat response. Exactly one of
// Text (with Panel), Done or Error is meaningful per line.
type ChatEvent struct {
	Panel int    `json:"panel,omitempty"`
	Text  string `json:"text,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// LanguageOption is a selectable target language.
type LanguageOption struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// OptionsResponse lists the choices offered by the request form.
type OptionsResponse struct {
	Models    []string         `json:"models"`
	Languages []LanguageOption `json:"languages"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Warning bool   `json:"warning,omitempty"`
}
