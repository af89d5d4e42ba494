package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gradeplane/internal/store"
	"gradeplane/pkg/api"
)

// CreatePlan handles POST /plans.
func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.grader.CreatePlan(r.Context(), req.PlanName, req.Description, req.Prompt)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			h.httpError(w, "Plan already exists", http.StatusConflict)
			return
		}
		if errors.Is(err, store.ErrInvalidName) {
			h.httpError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.httpError(w, "Failed to create plan", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, toAPIPlan(plan, 0))
}

// ListPlans handles GET /plans.
func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plans, err := h.store.ListPlans(ctx)
	if err != nil {
		h.httpError(w, "Failed to list plans", http.StatusInternalServerError)
		return
	}

	resp := api.PlanListResponse{Plans: []api.Plan{}}
	for _, plan := range plans {
		records, err := h.store.ListRecords(ctx, plan.Name)
		if err != nil {
			h.log.Warn("cannot count records", "plan", plan.Name, "error", err)
		}
		resp.Plans = append(resp.Plans, toAPIPlan(plan, len(records)))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetPlan handles GET /plans/{plan}. The response includes per-status
// record counts for the teacher's dashboard.
func (h *Handlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("plan")

	plan, err := h.store.GetPlan(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Plan not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to read plan", http.StatusInternalServerError)
		return
	}

	records, err := h.store.ListRecords(ctx, name)
	if err != nil {
		h.httpError(w, "Failed to read records", http.StatusInternalServerError)
		return
	}

	stats := map[string]int{
		"total":      len(records),
		"pending":    0,
		"processing": 0,
		"done":       0,
		"failed":     0,
	}
	for _, rec := range records {
		stats[string(rec.Status)]++
	}

	h.respondJSON(w, http.StatusOK, api.PlanDetailResponse{
		Plan:  toAPIPlan(plan, len(records)),
		Stats: stats,
	})
}

// UpdatePrompt handles PUT /plans/{plan}/prompt.
func (h *Handlers) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("plan")

	var req api.UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.grader.UpdatePrompt(r.Context(), name, req.Prompt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Plan not found", http.StatusNotFound)
			return
		}
		h.httpError(w, "Failed to update prompt", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, toAPIPlan(plan, 0))
}

func toAPIPlan(plan *store.Plan, recordCount int) api.Plan {
	return api.Plan{
		PlanName:    plan.Name,
		Description: plan.Description,
		Prompt:      plan.Prompt,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
		RecordCount: recordCount,
	}
}
