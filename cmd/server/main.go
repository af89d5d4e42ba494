// Package main is the entry point for the gradeplane server: it serves the
// teacher/student HTTP API and runs the grading pipeline workers in the same
// process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"gradeplane/internal/config"
	"gradeplane/internal/dispatcher"
	"gradeplane/internal/grader"
	"gradeplane/internal/llm"
	"gradeplane/internal/logger"
	"gradeplane/internal/observability"
	"gradeplane/internal/ocr"
	"gradeplane/internal/server"
	"gradeplane/internal/server/handlers"
	"gradeplane/internal/store"
	"gradeplane/internal/store/fsstore"
	"gradeplane/internal/store/postgres"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting (postgres backend only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()
	ctx := context.Background()

	// Select the storage backend: PostgreSQL when a DATABASE_URL is
	// configured, otherwise JSON documents under the data directory.
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if *migrateFlag {
			log.Println("Running database migrations...")
			if err := postgres.Migrate(pg.DB()); err != nil {
				log.Fatalf("Migration failed: %v", err)
			}
			log.Println("Migrations completed successfully")
		}
		st = pg
		log.Println("Using postgres store")
	} else {
		fs, err := fsstore.New(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data dir: %v", err)
		}
		st = fs
		log.Printf("Using filesystem store (data dir: %s)", cfg.DataDir)
	}
	defer st.Close()

	// OCR provider selection is fail-fast: a typo'd provider name or
	// missing credentials should not surface one record at a time.
	ocrClient, err := ocr.New(ocr.Config{
		Provider:           cfg.OCRProvider,
		TencentSecretID:    cfg.TencentSecretID,
		TencentSecretKey:   cfg.TencentSecretKey,
		TencentRegion:      cfg.TencentRegion,
		BaiduAPIKey:        cfg.BaiduAPIKey,
		BaiduSecretKey:     cfg.BaiduSecretKey,
		AliAccessKeyID:     cfg.AliAccessKeyID,
		AliAccessKeySecret: cfg.AliAccessKeySecret,
	})
	if err != nil {
		log.Fatalf("Failed to create OCR client: %v", err)
	}
	log.Printf("Using %s ocr provider", cfg.OCRProvider)

	grading, err := llm.New(llm.Config{
		Provider:       cfg.GraderProvider,
		DeepSeekAPIKey: cfg.DeepSeekAPIKey,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModel:    cfg.GeminiModel,
		Timeout:        cfg.GradingTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create grading client: %v", err)
	}
	log.Printf("Using %s grading provider", cfg.GraderProvider)

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, "gradeplane-server", cfg.OTELEndpoint)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	disp := dispatcher.New(cfg.DispatcherWorkers, cfg.DispatcherQueueSize, slogger)
	svc := grader.New(st, ocrClient, grading, disp, slogger, cfg.GradingTimeout)

	// Observable gauge for the backlog of unstarted pipeline invocations.
	meter := otel.Meter("gradeplane-server")
	_, err = meter.Int64ObservableGauge("gradeplane.dispatcher.queue.depth",
		metric.WithDescription("Current number of queued grading tasks"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(int64(disp.Depth()))
			return nil
		}),
	)
	if err != nil {
		log.Printf("Failed to register queue depth metric: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go disp.Run(runCtx, svc.Process)

	h := handlers.New(st, svc, slogger)
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := server.New(addr, h, slogger, server.Options{
		MetricsHandler:  metricsHandler,
		UploadRateLimit: cfg.UploadRateLimit,
		UploadRateBurst: cfg.UploadRateBurst,
	})

	go func() {
		log.Printf("Gradeplane server starting on %s", addr)
		if err := srv.Run(runCtx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Let in-flight gradings reach a terminal state before exiting.
	cancel()
	<-disp.Done()
	log.Println("Server exited properly")
}
