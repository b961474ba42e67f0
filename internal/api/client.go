package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	serverClient "github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/chat"
	"github.com/bz888/dualchat/internal/logger"
)

var ErrIncompleteStream = errors.New("stream ended before completion")

// ResponseError is a non-2xx reply or an error line from the local server.
type ResponseError struct {
	Status  int
	Message string
	Hint    string
	Warning bool
}

func (e *ResponseError) Error() string {
	return e.Message
}

// Client talks to the local dualchat server. It keeps the session cookie, so
// one Client is one session.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *logger.Logger
}

func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:   base,
		http:   &http.Client{Jar: jar},
		logger: logger.NewLogger("api client"),
	}, nil
}

// WaitReady polls /status until the server answers or ctx ends.
func (c *Client) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		resp, err := c.do(ctx, http.MethodGet, "/status", nil)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("server not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// ConfirmKey submits the key for validation.
func (c *Client) ConfirmKey(ctx context.Context, apiKey string) error {
	var out serverClient.KeyResponse
	return c.doJSON(ctx, http.MethodPost, "/api/key", serverClient.KeyRequest{APIKey: apiKey}, &out)
}

// ResetKey drops the session's key.
func (c *Client) ResetKey(ctx context.Context) error {
	var out serverClient.KeyResponse
	return c.doJSON(ctx, http.MethodDelete, "/api/key", nil, &out)
}

// Options fetches the selectable models and languages.
func (c *Client) Options(ctx context.Context) (*serverClient.OptionsResponse, error) {
	var out serverClient.OptionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat runs one submit and replays the NDJSON stream into display with the
// same contract as chat.Renderer: Update with full panel text, then exactly
// one Done or Fail. A rejected request returns its *ResponseError without
// touching display.
func (c *Client) Chat(ctx context.Context, req serverClient.ChatRequest, display chat.Display) error {
	c.logger.Info("Input model:", req.Model, "languages:", req.Lang1, "/", req.Lang2)

	resp, err := c.do(ctx, http.MethodPost, "/api/chat", req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Failed to close response body:", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return decodeResponseError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 512*1024)

	var panels [2]string
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var ev serverClient.ChatEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			err = fmt.Errorf("decode event: %w", err)
			display.Fail(err)
			return err
		}

		switch {
		case ev.Error != "":
			err := &ResponseError{Status: resp.StatusCode, Message: ev.Error, Hint: ev.Hint}
			display.Fail(err)
			return err
		case ev.Done:
			display.Done()
			return nil
		case ev.Panel == int(chat.First) || ev.Panel == int(chat.Second):
			side := chat.Side(ev.Panel)
			panels[side.Index()] += ev.Text
			display.Update(side, panels[side.Index()])
		default:
			c.logger.Warn("Ignoring event for panel", ev.Panel)
		}
	}

	err = ErrIncompleteStream
	if scanErr := scanner.Err(); scanErr != nil {
		err = fmt.Errorf("read stream: %w", scanErr)
	}
	display.Fail(err)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, data any) (*http.Response, error) {
	var body io.Reader
	if data != nil {
		bts, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(bts)
	}

	requestURL := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), body)
	if err != nil {
		return nil, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/x-ndjson")

	return c.http.Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, data, out any) error {
	resp, err := c.do(ctx, method, path, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeResponseError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeResponseError(resp *http.Response) *ResponseError {
	var body serverClient.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &ResponseError{Status: resp.StatusCode, Message: resp.Status}
	}
	return &ResponseError{Status: resp.StatusCode, Message: body.Error, Warning: body.Warning}
}
