package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Baidu calls the Baidu general OCR API. Authentication is a bearer token
// obtained through a client-credentials exchange; the token is cached for the
// lifetime of the client.
type Baidu struct {
	apiKey    string
	secretKey string

	tokenURL   string
	ocrURL     string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

// NewBaidu creates a Baidu OCR client.
func NewBaidu(apiKey, secretKey string) *Baidu {
	return &Baidu{
		apiKey:    apiKey,
		secretKey: secretKey,
		tokenURL:  "https://aip.baidubce.com/oauth/2.0/token",
		ocrURL:    "https://aip.baidubce.com/rest/2.0/ocr/v1/general_basic",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Recognize submits the image and joins the recognized words.
func (b *Baidu) Recognize(ctx context.Context, image []byte) (string, error) {
	token, err := b.getAccessToken(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{"image": {base64.StdEncoding.EncodeToString(image)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.ocrURL+"?access_token="+url.QueryEscape(token),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Provider: "baidu", Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: "baidu", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		ErrorCode   int    `json:"error_code"`
		ErrorMsg    string `json:"error_msg"`
		WordsResult []struct {
			Words string `json:"words"`
		} `json:"words_result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &Error{Provider: "baidu", Message: "malformed response", Err: err}
	}
	if result.ErrorCode != 0 {
		return "", &Error{Provider: "baidu", Message: fmt.Sprintf("%d: %s", result.ErrorCode, result.ErrorMsg)}
	}

	lines := make([]string, 0, len(result.WordsResult))
	for _, w := range result.WordsResult {
		lines = append(lines, w.Words)
	}
	return strings.Join(lines, "\n"), nil
}

// getAccessToken returns the cached token or performs the credential
// exchange. A failed exchange is retried on the next call.
func (b *Baidu) getAccessToken(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.accessToken != "" {
		return b.accessToken, nil
	}

	params := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {b.apiKey},
		"client_secret": {b.secretKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &Error{Provider: "baidu", Message: "build token request", Err: err}
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: "baidu", Message: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.AccessToken == "" {
		return "", &Error{Provider: "baidu", Message: fmt.Sprintf("token exchange failed: %s", body)}
	}

	b.accessToken = result.AccessToken
	return b.accessToken, nil
}
