package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gradeplane/internal/store"
)

const recordColumns = "id, student, images, status, ocr_text, result, previous_result, regrade_count, error, created_at, updated_at"

// SaveRecord upserts a record row. The image list is stored as a JSON array,
// preserving upload order.
func (s *Store) SaveRecord(ctx context.Context, plan string, rec *store.Record) error {
	query := `
		INSERT INTO records (plan_name, id, student, images, status, ocr_text, result, previous_result, regrade_count, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (plan_name, id) DO UPDATE SET
			student = EXCLUDED.student,
			images = EXCLUDED.images,
			status = EXCLUDED.status,
			ocr_text = EXCLUDED.ocr_text,
			result = EXCLUDED.result,
			previous_result = EXCLUDED.previous_result,
			regrade_count = EXCLUDED.regrade_count,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at
	`
	imagesJSON, err := json.Marshal(rec.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query,
		plan,
		rec.ID,
		rec.Student,
		imagesJSON,
		rec.Status,
		rec.OCRText,
		rec.Result,
		rec.PreviousResult,
		rec.RegradeCount,
		rec.Error,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save record %s/%s: %w", plan, rec.ID, err)
	}
	return nil
}

// GetRecord returns a record by id.
func (s *Store) GetRecord(ctx context.Context, plan, id string) (*store.Record, error) {
	query := "SELECT " + recordColumns + " FROM records WHERE plan_name = $1 AND id = $2"

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, plan, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s/%s: %w", plan, id, err)
	}
	return rec, nil
}

// ListRecords returns all records of a plan, newest first.
func (s *Store) ListRecords(ctx context.Context, plan string) ([]*store.Record, error) {
	query := "SELECT " + recordColumns + " FROM records WHERE plan_name = $1 ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, plan)
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", plan, err)
	}
	defer rows.Close()

	var records []*store.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record row.
func (s *Store) DeleteRecord(ctx context.Context, plan, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE plan_name = $1 AND id = $2", plan, id)
	if err != nil {
		return fmt.Errorf("delete record %s/%s: %w", plan, id, err)
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

// WriteImage upserts an image blob.
func (s *Store) WriteImage(ctx context.Context, plan, path string, data []byte) error {
	query := `
		INSERT INTO images (plan_name, path, data) VALUES ($1, $2, $3)
		ON CONFLICT (plan_name, path) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := s.db.ExecContext(ctx, query, plan, path, data); err != nil {
		return fmt.Errorf("write image %s/%s: %w", plan, path, err)
	}
	return nil
}

// ReadImage returns an image blob.
func (s *Store) ReadImage(ctx context.Context, plan, path string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM images WHERE plan_name = $1 AND path = $2", plan, path).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read image %s/%s: %w", plan, path, err)
	}
	return data, nil
}

// DeleteImage removes an image blob. Deleting a missing image is not an error.
func (s *Store) DeleteImage(ctx context.Context, plan, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM images WHERE plan_name = $1 AND path = $2", plan, path); err != nil {
		return fmt.Errorf("delete image %s/%s: %w", plan, path, err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*store.Record, error) {
	var rec store.Record
	var imagesJSON []byte
	err := row.Scan(
		&rec.ID,
		&rec.Student,
		&imagesJSON,
		&rec.Status,
		&rec.OCRText,
		&rec.Result,
		&rec.PreviousResult,
		&rec.RegradeCount,
		&rec.Error,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &rec.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return &rec, nil
}
