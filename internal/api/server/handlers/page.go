package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/bz888/dualchat/internal/chat"
	"github.com/bz888/dualchat/internal/logger"
)

const keyPageURL = "https://platform.openai.com/account/api-keys"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Confirmed bool
	KeyURL    string
	Models    []string
	Languages []chat.Language
	Lang1     string
	Lang2     string
}

// IndexHandler renders the key step or, once the session is confirmed, the
// chat step.
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	data := pageData{
		Confirmed: sess.Gate.Confirmed(),
		KeyURL:    keyPageURL,
		Models:    chat.Models,
		Languages: chat.Languages,
		Lang1:     "English",
		Lang2:     "Spanish",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.NewLogger("page handler").Error("Failed to render page:", err)
	}
}
