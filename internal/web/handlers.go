package web

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// allowedExtensions mirrors the upload form's accepted image types.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Upload accepts a multipart submission, validates it synchronously and
// launches the generation pipeline in the background. The response carries
// the session token; the client polls Progress with it.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.jsonError(w, http.StatusRequestEntityTooLarge, "file too large (max 16MB)")
			return
		}
		a.jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.jsonError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		a.jsonError(w, http.StatusBadRequest, "no file selected")
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		a.jsonError(w, http.StatusBadRequest, "invalid file type: use png, jpg, jpeg, gif or webp")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.jsonError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		a.jsonError(w, http.StatusBadRequest, "uploaded file is not a valid image")
		return
	}

	storyType := r.FormValue("story_type")
	if a.manager.ClassifyStory(storyType) == workflow.StoryUnknown {
		a.jsonError(w, http.StatusBadRequest, fmt.Sprintf("unknown story type: %s", storyType))
		return
	}
	gender := r.FormValue("gender")
	if !domain.ValidGender(gender) {
		a.jsonError(w, http.StatusBadRequest, "gender must be Boy or Girl")
		return
	}

	token := uuid.NewString()
	uploadPath := filepath.Join(a.uploadDir, token+"_"+sanitizeFilename(header.Filename))
	if err := os.WriteFile(uploadPath, data, 0o644); err != nil {
		slog.Error("failed to store upload", "path", uploadPath, "error", err)
		a.jsonError(w, http.StatusInternalServerError, "failed to store uploaded file")
		return
	}

	a.manager.Launch(workflow.Request{
		Token:     token,
		ImagePath: uploadPath,
		StoryType: storyType,
		Gender:    gender,
		ChildName: r.FormValue("child_name"),
	})

	slog.Info("accepted book generation request",
		"token", token, "story_type", storyType, "gender", gender)
	a.json(w, http.StatusAccepted, map[string]string{
		"session_id": token,
		"message":    "Book generation started",
	})
}

// Progress returns the job record for a session token.
func (a *App) Progress(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "id")
	job, ok := a.store.Get(token)
	if !ok {
		a.jsonError(w, http.StatusNotFound, "session not found")
		return
	}
	a.json(w, http.StatusOK, job)
}

// Download streams the finished PDF as an attachment. Incomplete jobs are a
// client error, not a not-found: the session exists, the book does not yet.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "id")
	job, ok := a.store.Get(token)
	if !ok {
		a.jsonError(w, http.StatusNotFound, "session not found")
		return
	}
	if !job.Completed {
		a.jsonError(w, http.StatusBadRequest, "book is not ready yet")
		return
	}
	if _, err := os.Stat(job.ArtifactPath); err != nil {
		a.jsonError(w, http.StatusNotFound, "book file no longer exists")
		return
	}

	filename := fmt.Sprintf("fairy_tale_book_%s.pdf", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, job.ArtifactPath)
}

// Health is the static liveness probe.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storybook-kit",
	})
}

// sanitizeFilename keeps only the base name and replaces anything outside
// [A-Za-z0-9._-] so the stored name is safe on any filesystem.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, base)
}
