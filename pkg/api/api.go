// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the server.
package api

import "time"

// CreatePlanRequest is the request body for creating a grading plan.
type CreatePlanRequest struct {
	PlanName    string `json:"plan_name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Plan represents a grading plan in API responses.
type Plan struct {
	PlanName    string     `json:"plan_name"`
	Description string     `json:"description"`
	Prompt      string     `json:"prompt"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	RecordCount int        `json:"record_count,omitempty"`
}

// PlanListResponse is the response body for listing plans.
type PlanListResponse struct {
	Plans []Plan `json:"plans"`
}

// PlanDetailResponse is the response body for a single plan, including
// per-status record counts.
type PlanDetailResponse struct {
	Plan  Plan           `json:"plan"`
	Stats map[string]int `json:"stats"`
}

// UpdatePromptRequest is the request body for replacing a plan's prompt.
type UpdatePromptRequest struct {
	Prompt string `json:"prompt"`
}

// UploadResponse is the response body after a homework upload.
type UploadResponse struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
}

// RecordSummary is the list-view subset of a record.
type RecordSummary struct {
	ID           string    `json:"id"`
	Student      string    `json:"student"`
	Status       string    `json:"status"`
	RegradeCount int       `json:"regrade_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordListResponse is the response body for listing a plan's records.
type RecordListResponse struct {
	Records []RecordSummary `json:"records"`
}

// Record is the full record document in API responses. Clients poll Status
// until it reaches done or failed.
type Record struct {
	ID             string    `json:"id"`
	Student        string    `json:"student"`
	Images         []string  `json:"images"`
	Status         string    `json:"status"`
	OCRText        string    `json:"ocr_text,omitempty"`
	Result         string    `json:"result"`
	PreviousResult string    `json:"previous_result,omitempty"`
	RegradeCount   int       `json:"regrade_count"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecordResponse is the response body for a single record.
type RecordResponse struct {
	Record Record `json:"record"`
}

// DeleteRecordResponse is the response body after deleting a record.
type DeleteRecordResponse struct {
	RecordID    string `json:"record_id"`
	Student     string `json:"student"`
	ImagesCount int    `json:"images_count"`
}

// RegradeRequest is the request body for bulk regrading. A nil RecordIDs
// regrades every record of the plan.
type RegradeRequest struct {
	RecordIDs []string `json:"record_ids,omitempty"`
}

// RegradeResponse is the response body after a regrade request.
type RegradeResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
