package client

import (
	"context"
	"net/http"
	"net/url"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatClientInterface is the provider surface the rest of the app depends on:
// a read-only listing call and a streaming chat completion.
type ChatClientInterface interface {
	ListModels(ctx context.Context) ([]OpenAIModel, error)
	ChatStream(ctx context.Context, req *OpenAIChatRequest) (Stream, error)
}

// Client represents a client for the API
type Client struct {
	base      *url.URL
	http      *http.Client
	modelsUrl *url.URL
	chatUrl   *url.URL
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	Scheme     string
	Host       string
	BasePath   string
	ModelsPath string
	ChatPath   string
}

// NewClient creates a new API client with configurable base URL and endpoints
func NewClient(config ClientConfig) *Client {
	baseURL := &url.URL{Scheme: config.Scheme, Host: config.Host, Path: config.BasePath}
	return &Client{
		base:      baseURL,
		http:      &http.Client{},
		modelsUrl: baseURL.JoinPath(config.ModelsPath),
		chatUrl:   baseURL.JoinPath(config.ChatPath),
	}
}

func (c *Client) GetModelsURL() string {
	return c.modelsUrl.String()
}

func (c *Client) GetChatURL() string {
	return c.chatUrl.String()
}
