package server

import (
	"net/http"

	"github.com/bz888/dualchat/internal/api/server/handlers"
	"github.com/bz888/dualchat/internal/session"
)

func registerRoutes(mux *http.ServeMux, handler *handlers.Handler, sessions *session.Store) {
	mux.HandleFunc("GET /{$}", handler.IndexHandler)
	mux.HandleFunc("GET /api/options", handler.OptionsHandler)
	mux.HandleFunc("GET /api/key", handler.KeyStatusHandler)
	mux.HandleFunc("POST /api/key", handler.ConfirmKeyHandler)
	mux.HandleFunc("DELETE /api/key", handler.ResetKeyHandler)
	mux.HandleFunc("POST /api/chat", handler.ChatHandler)
	mux.HandleFunc("GET /status", statusHandler(sessions))
}
