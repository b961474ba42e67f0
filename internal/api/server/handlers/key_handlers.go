package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/bz888/dualchat/internal/session"
)

// ConfirmKeyHandler validates a key against the provider and, on success,
// binds it to the caller's session.
func (h *Handler) ConfirmKeyHandler(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("key handler")
	sess := h.session(w, r)

	var req client.KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	err := sess.Gate.Validate(r.Context(), req.APIKey)
	switch {
	case err == nil:
		localLogger.Info("Session confirmed:", sess.ID)
		writeJSON(w, http.StatusOK, client.KeyResponse{Confirmed: true})
	case errors.Is(err, session.ErrMissingKey):
		writeWarning(w, http.StatusBadRequest, "Please enter your API key first.")
	default:
		localLogger.Warn("Session", sess.ID, "key rejected")
		writeError(w, http.StatusUnauthorized, err.Error())
	}
}

// ResetKeyHandler forgets the session's key.
func (h *Handler) ResetKeyHandler(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Gate.Reset()
	writeJSON(w, http.StatusOK, client.KeyResponse{Confirmed: false})
}

// KeyStatusHandler reports whether the session has a confirmed key.
func (h *Handler) KeyStatusHandler(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	writeJSON(w, http.StatusOK, client.KeyResponse{Confirmed: sess.Gate.Confirmed()})
}
