package ocr

import "context"

// Ali is the Alibaba Cloud OCR backend. The provider is part of the closed
// provider set but has no working implementation yet; every call reports
// ErrNotImplemented instead of returning empty text.
type Ali struct {
	accessKeyID     string
	accessKeySecret string
}

// NewAli creates the Alibaba Cloud OCR placeholder client.
func NewAli(accessKeyID, accessKeySecret string) *Ali {
	return &Ali{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
	}
}

func (a *Ali) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", &Error{Provider: "ali", Message: "provider not implemented", Err: ErrNotImplemented}
}
