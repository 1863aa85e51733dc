package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mandala/internal/http/handlers"
	"mandala/internal/middleware"
)

func NewRouter(app *handlers.App, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.Locale(app.Config.DefaultLocale, lookup))

	r.Get("/", app.Home)
	r.Post("/generate", app.Generate)
	r.Get("/download", app.Download)
	r.Get("/image", app.Image)
	r.Get("/v1/healthz", app.Health)

	return r
}
