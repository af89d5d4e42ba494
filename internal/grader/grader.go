// Package grader contains the homework processing pipeline: it owns the
// record lifecycle and orchestrates the OCR and grading-model calls.
package grader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gradeplane/internal/llm"
	"gradeplane/internal/ocr"
	"gradeplane/internal/store"
)

// Scheduler enqueues a pipeline invocation to run after the current request
// has returned.
type Scheduler interface {
	Enqueue(plan, recordID string)
}

// UploadImage is one image of an upload, already validated by the caller.
type UploadImage struct {
	// Ext is the lowercased file extension including the dot.
	Ext  string
	Data []byte
}

// Service drives records through the grading lifecycle. All mutations of a
// record after creation happen here or in Regrade; callers must not schedule
// two invocations for the same record concurrently.
type Service struct {
	store store.Store
	ocr   ocr.Client
	llm   llm.Grader
	sched Scheduler
	log   *slog.Logger

	gradingTimeout time.Duration

	// Record ids are millisecond timestamps; mu and lastID keep them
	// unique and monotonic when uploads land in the same millisecond.
	mu     sync.Mutex
	lastID int64
}

// New creates the grading service.
func New(st store.Store, oc ocr.Client, grader llm.Grader, sched Scheduler, log *slog.Logger, gradingTimeout time.Duration) *Service {
	if gradingTimeout <= 0 {
		gradingTimeout = 60 * time.Second
	}
	return &Service{
		store:          st,
		ocr:            oc,
		llm:            grader,
		sched:          sched,
		log:            log,
		gradingTimeout: gradingTimeout,
	}
}

// CreatePlan validates the name and persists a new plan.
func (s *Service) CreatePlan(ctx context.Context, name, description, prompt string) (*store.Plan, error) {
	name = strings.TrimSpace(name)
	if err := store.ValidatePlanName(name); err != nil {
		return nil, err
	}
	plan := &store.Plan{
		Name:        name,
		Description: description,
		Prompt:      prompt,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePrompt replaces a plan's grading prompt and stamps updated_at.
func (s *Service) UpdatePrompt(ctx context.Context, planName, prompt string) (*store.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planName)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	plan.Prompt = prompt
	plan.UpdatedAt = &now
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// CreateRecord stores the uploaded images, persists a pending record and
// enqueues its pipeline invocation. Returns the new record id.
func (s *Service) CreateRecord(ctx context.Context, planName, student string, images []UploadImage) (string, error) {
	if _, err := s.store.GetPlan(ctx, planName); err != nil {
		return "", err
	}
	student = strings.TrimSpace(student)
	if student == "" {
		return "", fmt.Errorf("student name must not be empty")
	}
	if len(images) == 0 {
		return "", fmt.Errorf("at least one image is required")
	}

	id := s.nextID()
	paths := make([]string, 0, len(images))
	for i, img := range images {
		path := fmt.Sprintf("images/%s_%d%s", id, i+1, img.Ext)
		if err := s.store.WriteImage(ctx, planName, path, img.Data); err != nil {
			return "", err
		}
		paths = append(paths, path)
	}

	now := time.Now()
	rec := &store.Record{
		ID:        id,
		Student:   student,
		Images:    paths,
		Status:    store.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveRecord(ctx, planName, rec); err != nil {
		return "", err
	}

	s.sched.Enqueue(planName, id)
	return id, nil
}

// Process runs one pipeline invocation for a record. It is the only mover
// of the pending -> processing -> done/failed transitions. It never returns
// an error: the invocation runs detached from any caller, so every failure
// is captured on the record itself (or, failing that, in the log).
func (s *Service) Process(ctx context.Context, planName, recordID string) {
	tracer := otel.Tracer("grader")
	ctx, span := tracer.Start(ctx, "process_record",
		trace.WithAttributes(
			attribute.String("plan", planName),
			attribute.String("record.id", recordID),
		),
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
	defer span.End()

	log := s.log.With("plan", planName, "record_id", recordID)

	rec, err := s.store.GetRecord(ctx, planName, recordID)
	if err != nil {
		log.Error("cannot load record for processing", "error", err)
		return
	}

	// Persist the processing state immediately so status polls observe
	// progress.
	rec.Status = store.StatusProcessing
	rec.UpdatedAt = time.Now()
	if err := s.store.SaveRecord(ctx, planName, rec); err != nil {
		log.Error("cannot mark record processing", "error", err)
		return
	}

	if err := s.grade(ctx, planName, rec, log); err != nil {
		span.RecordError(err)
		log.Warn("grading failed", "error", err)
		s.markFailed(planName, recordID, err, log)
		return
	}
	log.Info("grading done")
}

// grade performs the OCR and grading stages and persists the terminal done
// state. Any returned error sends the record to failed.
func (s *Service) grade(ctx context.Context, planName string, rec *store.Record, log *slog.Logger) error {
	plan, err := s.store.GetPlan(ctx, planName)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	// Stage 1: OCR each image in stored order. Individual failures are
	// downgraded to a placeholder section; only a total absence of
	// recognized text aborts the record.
	sections := make([]string, 0, len(rec.Images))
	recognized := 0
	for i, path := range rec.Images {
		label := fmt.Sprintf("[Image %d]", i+1)

		data, err := s.store.ReadImage(ctx, planName, path)
		if err != nil {
			log.Warn("cannot read image", "image", i+1, "error", err)
			sections = append(sections, fmt.Sprintf("%s\n(recognition failed: %v)", label, err))
			continue
		}

		text, err := s.ocr.Recognize(ctx, data)
		if err != nil {
			log.Warn("ocr failed", "image", i+1, "error", err)
			sections = append(sections, fmt.Sprintf("%s\n(recognition failed: %v)", label, err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Warn("ocr returned no text", "image", i+1)
			continue
		}

		sections = append(sections, label+"\n"+text)
		recognized++
	}
	if recognized == 0 {
		return fmt.Errorf("ocr recognized no text in any image")
	}

	ocrText := strings.Join(sections, "\n\n")

	// Stage 2: one bounded completion call against the grading model.
	prompt := fmt.Sprintf("%s\n\n[Student Homework]\n%s\n", plan.Prompt, ocrText)

	gradeCtx, cancel := context.WithTimeout(ctx, s.gradingTimeout)
	defer cancel()
	result, err := s.llm.Complete(gradeCtx, prompt)
	if err != nil {
		return fmt.Errorf("grading call: %w", err)
	}

	rec.Status = store.StatusDone
	rec.OCRText = ocrText
	rec.Result = result
	rec.Error = ""
	rec.UpdatedAt = time.Now()
	if err := s.store.SaveRecord(ctx, planName, rec); err != nil {
		return fmt.Errorf("persist result: %w", err)
	}
	return nil
}

// markFailed best-effort marks the record failed with the triggering
// message. The record is reloaded first so fields computed during the failed
// invocation are not persisted. If even this fails there is only a log
// trail; nothing is raised further.
func (s *Service) markFailed(planName, recordID string, cause error, log *slog.Logger) {
	ctx := context.Background()
	rec, err := s.store.GetRecord(ctx, planName, recordID)
	if err != nil {
		log.Error("cannot load record to mark failed", "error", err)
		return
	}
	rec.Status = store.StatusFailed
	rec.Error = cause.Error()
	rec.UpdatedAt = time.Now()
	if err := s.store.SaveRecord(ctx, planName, rec); err != nil {
		log.Error("cannot mark record failed", "error", err)
	}
}

// Regrade re-queues records of a plan. An empty id selection means every
// record of the plan. Records with a result get it archived
// into previous_result (one generation of history), the status reset to
// pending and the regrade counter incremented. Ids that do not exist are
// skipped. Returns the number of records re-queued.
func (s *Service) Regrade(ctx context.Context, planName string, recordIDs []string) (int, error) {
	if _, err := s.store.GetPlan(ctx, planName); err != nil {
		return 0, err
	}

	if len(recordIDs) == 0 {
		records, err := s.store.ListRecords(ctx, planName)
		if err != nil {
			return 0, err
		}
		for _, rec := range records {
			recordIDs = append(recordIDs, rec.ID)
		}
	}

	count := 0
	for _, id := range recordIDs {
		rec, err := s.store.GetRecord(ctx, planName, id)
		if err != nil {
			if err != store.ErrNotFound {
				s.log.Warn("regrade: cannot load record", "plan", planName, "record_id", id, "error", err)
			}
			continue
		}

		if rec.Result != "" {
			rec.PreviousResult = rec.Result
		}
		rec.Status = store.StatusPending
		rec.Result = ""
		rec.Error = ""
		rec.RegradeCount++
		rec.UpdatedAt = time.Now()
		if err := s.store.SaveRecord(ctx, planName, rec); err != nil {
			s.log.Warn("regrade: cannot save record", "plan", planName, "record_id", id, "error", err)
			continue
		}

		s.sched.Enqueue(planName, id)
		count++
	}
	return count, nil
}

// DeleteRecord removes a record and its images. Image deletion is
// best-effort: a failed image delete is logged and the record document is
// removed regardless.
func (s *Service) DeleteRecord(ctx context.Context, planName, recordID string) error {
	rec, err := s.store.GetRecord(ctx, planName, recordID)
	if err != nil {
		return err
	}
	for _, path := range rec.Images {
		if err := s.store.DeleteImage(ctx, planName, path); err != nil {
			s.log.Warn("cannot delete image", "plan", planName, "record_id", recordID, "path", path, "error", err)
		}
	}
	return s.store.DeleteRecord(ctx, planName, recordID)
}

func (s *Service) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
