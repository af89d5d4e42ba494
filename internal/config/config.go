// Package config handles environment variable loading for ports, storage,
// provider credentials and pipeline tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the application.
type Config struct {
	// HTTP server port
	HTTPPort int

	// Root directory of the filesystem store
	DataDir string

	// When set, the PostgreSQL backend is used instead of the filesystem
	DatabaseURL string

	// OCR provider selection (tencent, baidu, ali) and credentials
	OCRProvider        string
	TencentSecretID    string
	TencentSecretKey   string
	TencentRegion      string
	BaiduAPIKey        string
	BaiduSecretKey     string
	AliAccessKeyID     string
	AliAccessKeySecret string

	// Grading model selection (deepseek, gemini) and credentials
	GraderProvider string
	DeepSeekAPIKey string
	GeminiAPIKey   string
	GeminiModel    string

	// Upper bound on a single grading call
	GradingTimeout time.Duration

	// Background pipeline worker pool
	DispatcherWorkers   int
	DispatcherQueueSize int

	// Upload rate limiting (requests per second, burst); 0 disables
	UploadRateLimit int
	UploadRateBurst int

	// OTLP collector endpoint for traces
	OTELEndpoint string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:            8000,
		DataDir:             "./data",
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		OCRProvider:         "tencent",
		TencentSecretID:     os.Getenv("TENCENT_SECRET_ID"),
		TencentSecretKey:    os.Getenv("TENCENT_SECRET_KEY"),
		TencentRegion:       "ap-guangzhou",
		BaiduAPIKey:         os.Getenv("BAIDU_API_KEY"),
		BaiduSecretKey:      os.Getenv("BAIDU_SECRET_KEY"),
		AliAccessKeyID:      os.Getenv("ALI_ACCESS_KEY_ID"),
		AliAccessKeySecret:  os.Getenv("ALI_ACCESS_KEY_SECRET"),
		GraderProvider:      "deepseek",
		DeepSeekAPIKey:      os.Getenv("DEEPSEEK_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         os.Getenv("GEMINI_MODEL"),
		GradingTimeout:      60 * time.Second,
		DispatcherWorkers:   4,
		DispatcherQueueSize: 256,
		UploadRateLimit:     0,
		UploadRateBurst:     10,
		OTELEndpoint:        "localhost:4317",
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.HTTPPort = p
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("OCR_PROVIDER"); v != "" {
		cfg.OCRProvider = v
	}
	if v := os.Getenv("TENCENT_REGION"); v != "" {
		cfg.TencentRegion = v
	}

	if v := os.Getenv("GRADER_PROVIDER"); v != "" {
		cfg.GraderProvider = v
	}

	if v := os.Getenv("GRADING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GRADING_TIMEOUT: %w", err)
		}
		cfg.GradingTimeout = d
	}

	if v := os.Getenv("DISPATCHER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DISPATCHER_WORKERS: %q", v)
		}
		cfg.DispatcherWorkers = n
	}

	if v := os.Getenv("DISPATCHER_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DISPATCHER_QUEUE_SIZE: %q", v)
		}
		cfg.DispatcherQueueSize = n
	}

	if v := os.Getenv("UPLOAD_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid UPLOAD_RATE_LIMIT: %q", v)
		}
		cfg.UploadRateLimit = n
	}
	if v := os.Getenv("UPLOAD_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid UPLOAD_RATE_BURST: %q", v)
		}
		cfg.UploadRateBurst = n
	}

	if v := os.Getenv("OTEL_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}

	return cfg, nil
}
