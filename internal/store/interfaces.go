package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a plan, record or image does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a plan whose name is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrInvalidName is returned when a plan name fails validation.
var ErrInvalidName = errors.New("invalid plan name")

// PlanStore handles persistence of plan configuration documents.
type PlanStore interface {
	// CreatePlan persists a new plan. Returns ErrAlreadyExists if the name
	// is taken.
	CreatePlan(ctx context.Context, plan *Plan) error

	// GetPlan returns the plan with the given name, or ErrNotFound.
	GetPlan(ctx context.Context, name string) (*Plan, error)

	// ListPlans returns all plans.
	ListPlans(ctx context.Context) ([]*Plan, error)

	// UpdatePlan replaces an existing plan document. Returns ErrNotFound if
	// the plan does not exist.
	UpdatePlan(ctx context.Context, plan *Plan) error
}

// RecordStore handles persistence of grading records. Reads and writes are
// whole-document replace operations; callers own read-modify-write cycles.
type RecordStore interface {
	// SaveRecord writes a record document, creating or replacing it.
	SaveRecord(ctx context.Context, plan string, rec *Record) error

	// GetRecord returns a record by id, or ErrNotFound.
	GetRecord(ctx context.Context, plan, id string) (*Record, error)

	// ListRecords returns all records of a plan.
	ListRecords(ctx context.Context, plan string) ([]*Record, error)

	// DeleteRecord removes a record document. Returns ErrNotFound if the
	// record does not exist.
	DeleteRecord(ctx context.Context, plan, id string) error
}

// ImageStore handles the binary blobs referenced by records, addressed by
// a path relative to the plan.
type ImageStore interface {
	WriteImage(ctx context.Context, plan, path string, data []byte) error
	ReadImage(ctx context.Context, plan, path string) ([]byte, error)
	DeleteImage(ctx context.Context, plan, path string) error
}

// Store combines the persistence interfaces backed by a single engine.
type Store interface {
	PlanStore
	RecordStore
	ImageStore

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
