package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists the renderable page templates. Each is parsed together with
// the shared layout partials.
var pages = []string{
	"devices.html",
	"edit_devices.html",
	"edit_pools.html",
	"edit_custom_owners.html",
}

var pageTemplates = mustParsePages()

func mustParsePages() map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed[page] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+page,
		))
	}
	return parsed
}

// render executes a page template. The page is rendered into a buffer first
// so a template error never produces a half-written response.
func (s *Server) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		s.logger.Error("unknown template", "page", page)
		writeInternalError(w, "internal server error")
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		s.logger.Error("template render failed", "page", page, "error", err)
		writeInternalError(w, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck // Best-effort write to response; connection may be closed
	buf.WriteTo(w)
}
