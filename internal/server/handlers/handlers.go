// Package handlers contains the HTTP handlers for the gradeplane API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"gradeplane/internal/grader"
	"gradeplane/internal/store"
	"gradeplane/pkg/api"
)

// Upload limits, matching what the mobile client enforces.
const (
	MaxImagesPerUpload = 10
	MaxImageSize       = 10 << 20 // bytes
)

// allowedExtensions are the accepted upload file extensions.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// GradingService is the part of the grader the handlers depend on.
type GradingService interface {
	CreatePlan(ctx context.Context, name, description, prompt string) (*store.Plan, error)
	UpdatePrompt(ctx context.Context, plan, prompt string) (*store.Plan, error)
	CreateRecord(ctx context.Context, plan, student string, images []grader.UploadImage) (string, error)
	Regrade(ctx context.Context, plan string, recordIDs []string) (int, error)
	DeleteRecord(ctx context.Context, plan, recordID string) error
}

// Handlers holds all HTTP handlers and their dependencies. Reads go straight
// to the store; every mutation goes through the grading service.
type Handlers struct {
	store  store.Store
	grader GradingService
	log    *slog.Logger
}

// New creates a new Handlers instance.
func New(st store.Store, svc GradingService, log *slog.Logger) *Handlers {
	return &Handlers{store: st, grader: svc, log: log}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.httpError(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// A helper to write standard JSON responses.
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJSON(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}
