// Package fsstore implements the store interfaces on the local filesystem.
//
// Layout under the data directory:
//
//	<data>/<plan>/config.json        plan configuration
//	<data>/<plan>/records/<id>.json  one document per record
//	<data>/<plan>/images/...         uploaded image blobs
//
// Documents are written to a temp file and renamed into place, so readers
// never observe a partial write.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gradeplane/internal/store"
)

// Store is the filesystem-backed implementation of store.Store.
type Store struct {
	dataDir string
}

// New creates the data directory if needed and returns the store.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) planDir(plan string) string {
	return filepath.Join(s.dataDir, plan)
}

func (s *Store) configPath(plan string) string {
	return filepath.Join(s.planDir(plan), "config.json")
}

func (s *Store) recordsDir(plan string) string {
	return filepath.Join(s.planDir(plan), "records")
}

func (s *Store) recordPath(plan, id string) string {
	return filepath.Join(s.recordsDir(plan), id+".json")
}

// CreatePlan writes the plan's config document and creates its directories.
func (s *Store) CreatePlan(ctx context.Context, plan *store.Plan) error {
	if err := store.ValidatePlanName(plan.Name); err != nil {
		return err
	}
	if _, err := os.Stat(s.configPath(plan.Name)); err == nil {
		return store.ErrAlreadyExists
	}
	for _, dir := range []string{s.recordsDir(plan.Name), filepath.Join(s.planDir(plan.Name), "images")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create plan dirs: %w", err)
		}
	}
	return writeJSON(s.configPath(plan.Name), plan)
}

// GetPlan loads a plan's config document.
func (s *Store) GetPlan(ctx context.Context, name string) (*store.Plan, error) {
	if err := store.ValidatePlanName(name); err != nil {
		return nil, store.ErrNotFound
	}
	var plan store.Plan
	if err := readJSON(s.configPath(name), &plan); err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read plan %q: %w", name, err)
	}
	return &plan, nil
}

// ListPlans scans the data directory for plan configs, newest first.
// Directories without a config.json are not plans and are skipped, as are
// configs that fail to parse.
func (s *Store) ListPlans(ctx context.Context) ([]*store.Plan, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var plans []*store.Plan
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var plan store.Plan
		if err := readJSON(s.configPath(e.Name()), &plan); err != nil {
			continue
		}
		plans = append(plans, &plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// UpdatePlan replaces an existing plan's config document.
func (s *Store) UpdatePlan(ctx context.Context, plan *store.Plan) error {
	if _, err := s.GetPlan(ctx, plan.Name); err != nil {
		return err
	}
	return writeJSON(s.configPath(plan.Name), plan)
}

// SaveRecord writes a record document, replacing any existing one.
func (s *Store) SaveRecord(ctx context.Context, plan string, rec *store.Record) error {
	if err := os.MkdirAll(s.recordsDir(plan), 0o755); err != nil {
		return fmt.Errorf("create records dir: %w", err)
	}
	return writeJSON(s.recordPath(plan, rec.ID), rec)
}

// GetRecord loads a record document.
func (s *Store) GetRecord(ctx context.Context, plan, id string) (*store.Record, error) {
	var rec store.Record
	if err := readJSON(s.recordPath(plan, id), &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read record %s/%s: %w", plan, id, err)
	}
	return &rec, nil
}

// ListRecords loads all record documents of a plan, newest first.
// Unparseable documents are skipped.
func (s *Store) ListRecords(ctx context.Context, plan string) ([]*store.Record, error) {
	entries, err := os.ReadDir(s.recordsDir(plan))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read records dir: %w", err)
	}
	var records []*store.Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var rec store.Record
		if err := readJSON(filepath.Join(s.recordsDir(plan), e.Name()), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteRecord removes a record document.
func (s *Store) DeleteRecord(ctx context.Context, plan, id string) error {
	if err := os.Remove(s.recordPath(plan, id)); err != nil {
		if os.IsNotExist(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("delete record %s/%s: %w", plan, id, err)
	}
	return nil
}

// WriteImage stores an image blob at a plan-relative path.
func (s *Store) WriteImage(ctx context.Context, plan, path string, data []byte) error {
	full := filepath.Join(s.planDir(plan), filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write image %s/%s: %w", plan, path, err)
	}
	return nil
}

// ReadImage loads an image blob.
func (s *Store) ReadImage(ctx context.Context, plan, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.planDir(plan), filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read image %s/%s: %w", plan, path, err)
	}
	return data, nil
}

// DeleteImage removes an image blob. Deleting a missing image is not an error.
func (s *Store) DeleteImage(ctx context.Context, plan, path string) error {
	err := os.Remove(filepath.Join(s.planDir(plan), filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image %s/%s: %w", plan, path, err)
	}
	return nil
}

// Ping verifies the data directory is accessible.
func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dataDir)
	return err
}

// Close is a no-op for the filesystem backend.
func (s *Store) Close() error { return nil }

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
