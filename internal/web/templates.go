// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/forgeline/console/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageNames lists every renderable page. Each page template defines a
// "content" block slotted into the shared layout.
var pageNames = []string{
	"landing",
	"login",
	"signup",
	"forgot_password",
	"verify_email",
	"dashboard",
	"users",
	"profile",
	"coming_soon",
}

// pageData is the view model every template receives.
type pageData struct {
	Title   string
	Session auth.State

	// Error is the banner message for a failed action.
	Error string

	// Fields maps field name to its validation message.
	Fields map[string]string

	// Form echoes submitted values back into the inputs.
	Form map[string]string

	// Data carries page-specific content (user lists, profiles, flow state).
	Data any
}

// templateSet holds the pre-parsed layout+page pairs.
type templateSet struct {
	pages map[string]*template.Template
	log   *slog.Logger
}

// newTemplateSet parses all embedded pages at startup so a broken template
// fails the process immediately, not on first render.
func newTemplateSet(log *slog.Logger) (*templateSet, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		parsed, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, err
		}
		pages[name] = parsed
	}
	return &templateSet{pages: pages, log: log}, nil
}

// render writes a page with the given status code. A render failure after
// headers are out is logged; there is nothing else to do at that point.
func (set *templateSet) render(writer http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := set.pages[page]
	if !ok {
		set.log.Error("template_missing", slog.String("page", page))
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(writer, "layout.html", data); err != nil {
		set.log.Error("template_render_failed",
			slog.String("page", page), slog.Any("error", err))
	}
}
