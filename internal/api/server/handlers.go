package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bz888/dualchat/internal/session"
)

func statusHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := statusResponse{
			PortWorking:   true,
			ServerWorking: true,
			Sessions:      sessions.Len(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			LocalLogger.Error("Failed to encode status:", err)
		}
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		LocalLogger.Info(r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
