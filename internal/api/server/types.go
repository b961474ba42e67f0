package server

import (
	"net/http"
	"time"
)

// Options configures one server process.
type Options struct {
	Addr          string
	OpenAIBaseURL string
	Demo          bool
	SessionTTL    time.Duration
}

// statusResponse is the body of GET /status.
type statusResponse struct {
	PortWorking   bool `json:"port_working"`
	ServerWorking bool `json:"server_working"`
	Sessions      int  `json:"sessions"`
}

// statusRecorder keeps the response code for the access log. It forwards
// Flush so streaming handlers still see an http.Flusher.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
