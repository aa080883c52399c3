// Package web exposes the book generation workflow over a JSON HTTP API.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/shouni/go-storybook-kit/pkg/session"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

const maxUploadBytes = 16 << 20 // 16MB

// App bundles the handler dependencies.
type App struct {
	store     *session.Store
	manager   *workflow.Manager
	uploadDir string
}

// NewApp creates the handler container.
func NewApp(store *session.Store, manager *workflow.Manager, uploadDir string) *App {
	return &App{store: store, manager: manager, uploadDir: uploadDir}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) jsonError(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}
