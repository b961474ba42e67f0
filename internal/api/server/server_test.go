package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	Init()

	demo := &client.DemoClient{}
	store := session.NewStore(func(string) client.ChatClientInterface { return demo }, time.Hour)
	ts := httptest.NewServer(NewMux(store))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func TestStatus(t *testing.T) {
	ts, httpClient := newDemoServer(t)

	resp, err := httpClient.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var status statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.PortWorking)
	assert.True(t, status.ServerWorking)
}

func TestRoutes_MethodsAndPaths(t *testing.T) {
	ts, httpClient := newDemoServer(t)

	resp, err := httpClient.Get(ts.URL + "/api/chat")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = httpClient.Get(ts.URL + "/nowhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDemoFlow(t *testing.T) {
	ts, httpClient := newDemoServer(t)

	resp, err := httpClient.Post(ts.URL+"/api/key", "application/json", strings.NewReader(`{"apiKey":"anything"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = httpClient.Post(ts.URL+"/api/chat", "application/json",
		strings.NewReader(`{"model":"gpt-4o","prompt":"hello there","lang1":"French","lang2":"Japanese"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var panels [3]strings.Builder
	var done bool
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var ev client.ChatEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		require.Empty(t, ev.Error)
		if ev.Done {
			done = true
			continue
		}
		panels[ev.Panel].WriteString(ev.Text)
	}
	require.NoError(t, scanner.Err())

	assert.True(t, done)
	assert.Equal(t, "[gpt-4o demo] hello there Please respond strictly in French. ", panels[1].String())
	assert.Equal(t, "[gpt-4o demo] hello there Please respond strictly in Japanese. ", panels[2].String())
}

func TestNewClientFactory(t *testing.T) {
	Init()

	factory, err := NewClientFactory(Options{Demo: true})
	require.NoError(t, err)
	assert.IsType(t, &client.DemoClient{}, factory("k"))

	factory, err = NewClientFactory(Options{})
	require.NoError(t, err)
	assert.IsType(t, &client.OpenAIClient{}, factory("k"))

	_, err = NewClientFactory(Options{OpenAIBaseURL: "not a url"})
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	Init()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, Options{Addr: "127.0.0.1:0", Demo: true}) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
