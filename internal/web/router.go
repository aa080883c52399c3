package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the upload/progress/download endpoints with the standard
// middleware chain.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/upload", a.Upload)
	r.Get("/progress/{id}", a.Progress)
	r.Get("/download/{id}", a.Download)
	r.Get("/health", a.Health)

	return r
}
