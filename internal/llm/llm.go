// Package llm provides clients for the grading model: a single-turn text
// completion over the plan prompt plus the recognized homework text.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Grader performs one text completion call against the grading model.
type Grader interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Error is a failed grading call; for HTTP backends it carries the vendor's
// status code and response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("grading model: status %d: %s", e.StatusCode, e.Message)
	}
	return "grading model: " + e.Message
}

// Config selects and configures the grading model backend.
type Config struct {
	Provider string

	DeepSeekAPIKey string
	DeepSeekURL    string

	GeminiAPIKey string
	GeminiModel  string

	// Timeout bounds a single grading call.
	Timeout time.Duration
}

// New creates the configured grading client. A missing API key is not a
// startup error: it surfaces on the first call, so a credential added later
// does not require failing uploads that are already stored.
func New(cfg Config) (Grader, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	switch cfg.Provider {
	case "deepseek":
		return NewDeepSeek(cfg.DeepSeekAPIKey, cfg.DeepSeekURL, cfg.Timeout), nil
	case "gemini":
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown grading provider %q (supported: deepseek, gemini)", cfg.Provider)
	}
}
