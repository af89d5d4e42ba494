package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"gradeplane/internal/grader"
	"gradeplane/internal/store"
	"gradeplane/pkg/api"
)

// Upload handles POST /plans/{plan}/upload. The multipart form carries a
// "student" field and one or more "images" files. The record is created
// pending and its grading runs after this response returns.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	plan := r.PathValue("plan")

	if err := r.ParseMultipartForm(MaxImagesPerUpload * MaxImageSize); err != nil {
		h.httpError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	student := strings.TrimSpace(r.FormValue("student"))
	if student == "" {
		h.httpError(w, "Student name is required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		h.httpError(w, "At least one image is required", http.StatusBadRequest)
		return
	}
	if len(files) > MaxImagesPerUpload {
		h.httpError(w, fmt.Sprintf("At most %d images per upload", MaxImagesPerUpload), http.StatusBadRequest)
		return
	}

	images := make([]grader.UploadImage, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			h.httpError(w, fmt.Sprintf("Unsupported image format %q", ext), http.StatusBadRequest)
			return
		}
		if fh.Size > MaxImageSize {
			h.httpError(w, fmt.Sprintf("Image %s exceeds the %dMB size limit", fh.Filename, MaxImageSize>>20), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			h.httpError(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.httpError(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		images = append(images, grader.UploadImage{Ext: ext, Data: data})
	}

	recordID, err := h.grader.CreateRecord(r.Context(), plan, student, images)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Plan not found", http.StatusNotFound)
			return
		}
		h.httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondJSON(w, http.StatusOK, api.UploadResponse{
		RecordID: recordID,
		Status:   string(store.StatusPending),
	})
}

// ListRecords handles GET /plans/{plan}/records. Returns list-view
// summaries, newest first.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plan := r.PathValue("plan")

	if _, err := h.store.GetPlan(ctx, plan); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Plan not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to read plan", http.StatusInternalServerError)
		return
	}

	records, err := h.store.ListRecords(ctx, plan)
	if err != nil {
		h.httpError(w, "Failed to list records", http.StatusInternalServerError)
		return
	}

	resp := api.RecordListResponse{Records: []api.RecordSummary{}}
	for _, rec := range records {
		resp.Records = append(resp.Records, api.RecordSummary{
			ID:           rec.ID,
			Student:      rec.Student,
			Status:       string(rec.Status),
			RegradeCount: rec.RegradeCount,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetRecord handles GET /plans/{plan}/records/{id}. Clients poll this
// endpoint to observe grading progress.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	plan := r.PathValue("plan")
	id := r.PathValue("id")

	rec, err := h.store.GetRecord(r.Context(), plan, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Record not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to read record", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, api.RecordResponse{Record: toAPIRecord(rec)})
}

// DeleteRecord handles DELETE /plans/{plan}/records/{id}.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plan := r.PathValue("plan")
	id := r.PathValue("id")

	rec, err := h.store.GetRecord(ctx, plan, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Record not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to read record", http.StatusInternalServerError)
		return
	}

	if err := h.grader.DeleteRecord(ctx, plan, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Record not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, api.DeleteRecordResponse{
		RecordID:    id,
		Student:     rec.Student,
		ImagesCount: len(rec.Images),
	})
}

// Regrade handles POST /plans/{plan}/regrade.
func (h *Handlers) Regrade(w http.ResponseWriter, r *http.Request) {
	plan := r.PathValue("plan")

	var req api.RegradeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.httpError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	count, err := h.grader.Regrade(r.Context(), plan, req.RecordIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Plan not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to regrade", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, api.RegradeResponse{Count: count})
}

func toAPIRecord(rec *store.Record) api.Record {
	return api.Record{
		ID:             rec.ID,
		Student:        rec.Student,
		Images:         rec.Images,
		Status:         string(rec.Status),
		OCRText:        rec.OCRText,
		Result:         rec.Result,
		PreviousResult: rec.PreviousResult,
		RegradeCount:   rec.RegradeCount,
		Error:          rec.Error,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
