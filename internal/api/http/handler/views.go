package handler

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

var views = mustParseViews()

func mustParseViews() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		parsed[name] = template.Must(template.New(name).ParseFS(templateFS, layoutFile, file))
	}
	return parsed
}

// page is the data every view receives.
type page struct {
	Title    string
	Flash    *flash.Message
	LoggedIn bool
	IsAdmin  bool
	Data     any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, view, title string, data any) {
	tmpl, ok := views[view]
	if !ok {
		h.logger.Error("HTTP handler: unknown view", "view", view)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := page{Title: title, Data: data}
	if msg, ok := flash.Pop(w, r); ok {
		p.Flash = &msg
	}
	if session, ok := h.contextManager.GetSessionFromContext(r.Context()); ok {
		p.LoggedIn = true
		p.IsAdmin = session.IsAdmin
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		h.logger.Error("HTTP handler: failed to render view",
			"view", view,
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) currentSession(r *http.Request) (model.Session, bool) {
	return h.contextManager.GetSessionFromContext(r.Context())
}
