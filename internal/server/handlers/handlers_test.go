package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gradeplane/internal/grader"
	"gradeplane/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock Store
type mockStore struct {
	// Plan Hooks
	getPlanResp   *store.Plan
	getPlanErr    error
	listPlansResp []*store.Plan
	listPlansErr  error

	// Record Hooks
	getRecordResp   *store.Record
	getRecordErr    error
	listRecordsResp []*store.Record
	listRecordsErr  error

	pingErr error
}

func (m *mockStore) CreatePlan(ctx context.Context, plan *store.Plan) error { return nil }

func (m *mockStore) GetPlan(ctx context.Context, name string) (*store.Plan, error) {
	return m.getPlanResp, m.getPlanErr
}

func (m *mockStore) ListPlans(ctx context.Context) ([]*store.Plan, error) {
	return m.listPlansResp, m.listPlansErr
}

func (m *mockStore) UpdatePlan(ctx context.Context, plan *store.Plan) error { return nil }

func (m *mockStore) SaveRecord(ctx context.Context, plan string, rec *store.Record) error {
	return nil
}

func (m *mockStore) GetRecord(ctx context.Context, plan, id string) (*store.Record, error) {
	return m.getRecordResp, m.getRecordErr
}

func (m *mockStore) ListRecords(ctx context.Context, plan string) ([]*store.Record, error) {
	return m.listRecordsResp, m.listRecordsErr
}

func (m *mockStore) DeleteRecord(ctx context.Context, plan, id string) error { return nil }

func (m *mockStore) WriteImage(ctx context.Context, plan, path string, data []byte) error {
	return nil
}

func (m *mockStore) ReadImage(ctx context.Context, plan, path string) ([]byte, error) {
	return nil, store.ErrNotFound
}

func (m *mockStore) DeleteImage(ctx context.Context, plan, path string) error { return nil }

func (m *mockStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockStore) Close() error { return nil }

// Mock GradingService
type mockGrader struct {
	createPlanResp   *store.Plan
	createPlanErr    error
	updatePromptResp *store.Plan
	updatePromptErr  error
	createRecordResp string
	createRecordErr  error
	regradeResp      int
	regradeErr       error
	deleteRecordErr  error

	// Spies (to verify arguments passed by handlers)
	capturedStudent   string
	capturedImages    []grader.UploadImage
	capturedRecordIDs []string
}

func (m *mockGrader) CreatePlan(ctx context.Context, name, description, prompt string) (*store.Plan, error) {
	if m.createPlanErr != nil {
		return nil, m.createPlanErr
	}
	if m.createPlanResp != nil {
		return m.createPlanResp, nil
	}
	return &store.Plan{Name: name, Description: description, Prompt: prompt, CreatedAt: time.Now()}, nil
}

func (m *mockGrader) UpdatePrompt(ctx context.Context, plan, prompt string) (*store.Plan, error) {
	if m.updatePromptErr != nil {
		return nil, m.updatePromptErr
	}
	if m.updatePromptResp != nil {
		return m.updatePromptResp, nil
	}
	return &store.Plan{Name: plan, Prompt: prompt, CreatedAt: time.Now()}, nil
}

func (m *mockGrader) CreateRecord(ctx context.Context, plan, student string, images []grader.UploadImage) (string, error) {
	m.capturedStudent = student
	m.capturedImages = images
	return m.createRecordResp, m.createRecordErr
}

func (m *mockGrader) Regrade(ctx context.Context, plan string, recordIDs []string) (int, error) {
	m.capturedRecordIDs = recordIDs
	return m.regradeResp, m.regradeErr
}

func (m *mockGrader) DeleteRecord(ctx context.Context, plan, recordID string) error {
	return m.deleteRecordErr
}
