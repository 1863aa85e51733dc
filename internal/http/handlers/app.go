package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"mandala/internal/infra"
	"mandala/internal/providers/dalle"
	"mandala/internal/session"
)

//go:embed templates/index.go.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.go.html"))

// Generator is the outbound contract the controller depends on.
type Generator interface {
	Generate(ctx context.Context, credential, prompt string) (*dalle.Image, error)
}

// App bundles the dependencies shared by all handlers.
type App struct {
	Logger   infra.Logger
	Config   *infra.Config
	Sessions *session.Manager
	Images   Generator
}

func NewApp(logger infra.Logger, cfg *infra.Config, sessions *session.Manager, images Generator) *App {
	return &App{
		Logger:   logger,
		Config:   cfg,
		Sessions: sessions,
		Images:   images,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": code, "message": message})
}

func (a *App) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		a.Logger.Error().Err(err).Msg("render page")
	}
}
