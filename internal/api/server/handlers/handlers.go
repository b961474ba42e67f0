package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/chat"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/bz888/dualchat/internal/session"
)

const sessionCookie = "dualchat_session"

type Handler struct {
	sessions *session.Store
}

func NewHandler(sessions *session.Store) *Handler {
	return &Handler{sessions: sessions}
}

// session returns the caller's session, starting a new one (and setting the
// cookie) when the request carries none or an expired one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := h.sessions.Get(cookie.Value); ok {
			return sess
		}
	}

	sess := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return sess
}

// OptionsHandler lists the models and languages the form offers.
func (h *Handler) OptionsHandler(w http.ResponseWriter, r *http.Request) {
	resp := client.OptionsResponse{Models: chat.Models}
	for _, l := range chat.Languages {
		resp.Languages = append(resp.Languages, client.LanguageOption{Name: l.Name, Tag: l.Tag.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.NewLogger("handlers").Error("Failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, client.ErrorResponse{Error: message})
}

func writeWarning(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, client.ErrorResponse{Error: message, Warning: true})
}
