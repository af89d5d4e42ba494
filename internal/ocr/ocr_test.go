package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestNew_ProviderSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "tencent",
			cfg:  Config{Provider: "tencent", TencentSecretID: "id", TencentSecretKey: "key"},
		},
		{
			name:    "tencent missing credentials",
			cfg:     Config{Provider: "tencent"},
			wantErr: true,
		},
		{
			name: "baidu",
			cfg:  Config{Provider: "baidu", BaiduAPIKey: "k", BaiduSecretKey: "s"},
		},
		{
			name:    "baidu missing credentials",
			cfg:     Config{Provider: "baidu", BaiduAPIKey: "k"},
			wantErr: true,
		},
		{
			name: "ali",
			cfg:  Config{Provider: "ali", AliAccessKeyID: "id", AliAccessKeySecret: "secret"},
		},
		{
			name:    "ali missing credentials",
			cfg:     Config{Provider: "ali"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "azure"},
			wantErr: true,
		},
		{
			name:    "empty provider",
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client == nil {
				t.Error("expected a client")
			}
		})
	}
}

func TestAliRecognize_NotImplemented(t *testing.T) {
	a := NewAli("id", "secret")

	_, err := a.Recognize(context.Background(), []byte("fake-image"))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}

	var ocrErr *Error
	if !errors.As(err, &ocrErr) || ocrErr.Provider != "ali" {
		t.Errorf("expected ali provider error, got %v", err)
	}
}

func TestTencentDefaultRegion(t *testing.T) {
	c := NewTencent("id", "key", "")
	if c.region != "ap-guangzhou" {
		t.Errorf("expected default region ap-guangzhou, got %s", c.region)
	}
}
