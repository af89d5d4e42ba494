// Package ocr provides the OCR provider abstraction and its vendor backends.
package ocr

import (
	"context"
	"errors"
	"fmt"
)

// Client recognizes text in an image. Implementations wrap one vendor API
// and own that vendor's authentication scheme.
type Client interface {
	// Recognize extracts text from raw image bytes.
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ErrNotImplemented marks a provider that is declared but has no working
// backend yet. It is returned per call rather than silently yielding empty
// text.
var ErrNotImplemented = errors.New("not implemented")

// Error is a recognition failure with the provider that produced it.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s ocr: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s ocr: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config selects and configures the OCR provider.
type Config struct {
	Provider string

	TencentSecretID  string
	TencentSecretKey string
	TencentRegion    string

	BaiduAPIKey    string
	BaiduSecretKey string

	AliAccessKeyID     string
	AliAccessKeySecret string
}

// New creates the configured OCR client. The provider set is closed; an
// unknown name or missing credentials fail here so the process refuses to
// start misconfigured.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "tencent":
		if cfg.TencentSecretID == "" || cfg.TencentSecretKey == "" {
			return nil, fmt.Errorf("tencent ocr requires TENCENT_SECRET_ID and TENCENT_SECRET_KEY")
		}
		return NewTencent(cfg.TencentSecretID, cfg.TencentSecretKey, cfg.TencentRegion), nil
	case "baidu":
		if cfg.BaiduAPIKey == "" || cfg.BaiduSecretKey == "" {
			return nil, fmt.Errorf("baidu ocr requires BAIDU_API_KEY and BAIDU_SECRET_KEY")
		}
		return NewBaidu(cfg.BaiduAPIKey, cfg.BaiduSecretKey), nil
	case "ali":
		if cfg.AliAccessKeyID == "" || cfg.AliAccessKeySecret == "" {
			return nil, fmt.Errorf("ali ocr requires ALI_ACCESS_KEY_ID and ALI_ACCESS_KEY_SECRET")
		}
		return NewAli(cfg.AliAccessKeyID, cfg.AliAccessKeySecret), nil
	default:
		return nil, fmt.Errorf("unknown ocr provider %q (supported: tencent, baidu, ali)", cfg.Provider)
	}
}
