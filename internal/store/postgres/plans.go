package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gradeplane/internal/store"
)

// CreatePlan inserts a new plan row. A unique violation on the name maps to
// store.ErrAlreadyExists.
func (s *Store) CreatePlan(ctx context.Context, plan *store.Plan) error {
	if err := store.ValidatePlanName(plan.Name); err != nil {
		return err
	}
	query := `
		INSERT INTO plans (name, description, prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		plan.Name,
		plan.Description,
		plan.Prompt,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return store.ErrAlreadyExists
	}
	return err
}

// GetPlan returns a plan by name.
func (s *Store) GetPlan(ctx context.Context, name string) (*store.Plan, error) {
	query := "SELECT name, description, prompt, created_at, updated_at FROM plans WHERE name = $1"

	var plan store.Plan
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&plan.Name,
		&plan.Description,
		&plan.Prompt,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %q: %w", name, err)
	}
	return &plan, nil
}

// ListPlans returns all plans, newest first.
func (s *Store) ListPlans(ctx context.Context) ([]*store.Plan, error) {
	query := "SELECT name, description, prompt, created_at, updated_at FROM plans ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*store.Plan
	for rows.Next() {
		var plan store.Plan
		if err := rows.Scan(&plan.Name, &plan.Description, &plan.Prompt, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// UpdatePlan replaces an existing plan row.
func (s *Store) UpdatePlan(ctx context.Context, plan *store.Plan) error {
	query := `
		UPDATE plans SET description = $2, prompt = $3, updated_at = $4
		WHERE name = $1
	`
	res, err := s.db.ExecContext(ctx, query, plan.Name, plan.Description, plan.Prompt, plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update plan %q: %w", plan.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
