// Package store contains the persistence layer for gradeplane.
package store

import (
	"fmt"
	"strings"
	"time"
)

// Plan is a grading plan: a named assignment with its grading prompt.
// JSON field names match the on-disk document format and must not change.
type Plan struct {
	Name        string     `json:"plan_name"`
	Description string     `json:"description"`
	Prompt      string     `json:"prompt"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Record is one student's submission within a plan, tracked through the
// grading lifecycle. Image paths are relative to the plan's directory and
// listed in upload order.
type Record struct {
	ID             string       `json:"id"`
	Student        string       `json:"student"`
	Images         []string     `json:"images"`
	Status         RecordStatus `json:"status"`
	OCRText        string       `json:"ocr_text,omitempty"`
	Result         string       `json:"result"`
	PreviousResult string       `json:"previous_result,omitempty"`
	RegradeCount   int          `json:"regrade_count"`
	Error          string       `json:"error,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// RecordStatus represents the state of a record in the grading lifecycle.
type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"
	StatusProcessing RecordStatus = "processing"
	StatusDone       RecordStatus = "done"
	StatusFailed     RecordStatus = "failed"
)

// ValidatePlanName checks that a plan name is usable as a storage key.
// Names containing path separators would escape the plan's directory in the
// filesystem backend.
func ValidatePlanName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: must not contain path separators", ErrInvalidName)
	}
	return nil
}
