package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/chat"
	"github.com/bz888/dualchat/internal/logger"
)

// ChatHandler runs one submit for the caller's session and streams it back as
// NDJSON: one {"panel","text"} line per fragment, then {"done"} or a single
// {"error","hint"} line.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("chat handler")
	sess := h.session(w, r)

	var body client.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	req := chat.Request{Model: body.Model, Prompt: body.Prompt, Lang1: body.Lang1, Lang2: body.Lang2}
	if err := req.Validate(); err != nil {
		if errors.Is(err, chat.ErrEmptyPrompt) {
			writeWarning(w, http.StatusBadRequest, "Please enter a request.")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chatClient, err := sess.Gate.Client()
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	if !sess.TryBegin() {
		writeError(w, http.StatusConflict, "a request is already in progress")
		return
	}
	defer sess.End()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	display := newNDJSONDisplay(w, flusher)
	if _, err := chat.NewRenderer(chatClient, display).Run(r.Context(), req); err != nil {
		localLogger.Error("Session", sess.ID, "submit failed:", err)
	}
}

// ndjsonDisplay turns renderer callbacks into NDJSON lines. Panels are
// append-only, so each Update only ships the new suffix.
type ndjsonDisplay struct {
	encoder *json.Encoder
	flusher http.Flusher
	sent    [2]int
	err     error
}

func newNDJSONDisplay(w http.ResponseWriter, flusher http.Flusher) *ndjsonDisplay {
	return &ndjsonDisplay{encoder: json.NewEncoder(w), flusher: flusher}
}

func (d *ndjsonDisplay) Update(side chat.Side, text string) {
	i := side.Index()
	delta := text[d.sent[i]:]
	d.sent[i] = len(text)
	d.emit(client.ChatEvent{Panel: int(side), Text: delta})
}

func (d *ndjsonDisplay) Fail(err error) {
	event := client.ChatEvent{Error: err.Error(), Hint: chat.StreamHint}
	var streamErr *chat.StreamError
	if errors.As(err, &streamErr) {
		event.Hint = streamErr.Hint()
	}
	d.emit(event)
}

func (d *ndjsonDisplay) Done() {
	d.emit(client.ChatEvent{Done: true})
}

// emit stops writing after the first failure; the request context is
// cancelled when the client goes away and the renderer stops on its own.
func (d *ndjsonDisplay) emit(event client.ChatEvent) {
	if d.err != nil {
		return
	}
	if err := d.encoder.Encode(event); err != nil {
		d.err = err
		logger.NewLogger("chat handler").Warn("Failed to write event:", err)
		return
	}
	d.flusher.Flush()
}
