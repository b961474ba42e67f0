package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bz888/dualchat/internal/logger"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	maxErrorBody = 64 << 10
)

// OpenAIClient represents a client for the OpenAI API bound to one API key.
type OpenAIClient struct {
	Client
	apiKey string
}

var openAIConfig = ClientConfig{
	Scheme:     "https",
	Host:       "api.openai.com",
	BasePath:   "/v1",
	ModelsPath: "/models",
	ChatPath:   "/chat/completions",
}

// OpenAIConfig returns the OpenAI endpoint layout rooted at baseURL, e.g.
// "https://api.openai.com/v1". An empty baseURL gives the public API.
func OpenAIConfig(baseURL string) (ClientConfig, error) {
	if baseURL == "" {
		return openAIConfig, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return ClientConfig{}, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	cfg := openAIConfig
	cfg.Scheme = u.Scheme
	cfg.Host = u.Host
	cfg.BasePath = strings.TrimSuffix(u.Path, "/")
	return cfg, nil
}

// NewOpenAIClient creates a new OpenAI API client that authenticates with apiKey.
func NewOpenAIClient(config ClientConfig, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		Client: *NewClient(config),
		apiKey: apiKey,
	}
}

// ListModels fetches the models visible to the key. It is the cheapest
// authenticated call the API offers, so it doubles as key validation.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]OpenAIModel, error) {
	localLogger := logger.NewLogger("openai models")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GetModelsURL(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp)
		localLogger.Warn("Models request rejected:", apiErr.StatusCode, apiErr.Message)
		return nil, apiErr
	}

	var response OpenAIModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	return response.Data, nil
}

// ChatStream starts a streaming chat completion. The returned Stream must be
// closed by the caller.
func (c *OpenAIClient) ChatStream(ctx context.Context, data *OpenAIChatRequest) (Stream, error) {
	localLogger := logger.NewLogger("openai stream chat")

	body := *data
	body.Stream = true
	bts, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewBuffer(bts))
	if err != nil {
		localLogger.Error("Failed to build chat request:", err)
		return nil, err
	}
	c.setHeaders(request)
	request.Header.Set("Accept", "text/event-stream")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		defer response.Body.Close()
		apiErr := decodeAPIError(response)
		localLogger.Error("Received error response:", apiErr.StatusCode, apiErr.Message)
		return nil, apiErr
	}

	return newSSEStream(response.Body), nil
}

func (c *OpenAIClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// decodeAPIError reads the provider's {"error":{"message":...}} envelope.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unknown error"}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp struct {
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != nil {
		if errResp.Error.Message != "" {
			apiErr.Message = errResp.Error.Message
		}
		apiErr.Type = errResp.Error.Type
		if code, ok := errResp.Error.Code.(string); ok {
			apiErr.Code = code
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}
