package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultDeepSeekURL = "https://api.deepseek.com/v1/chat/completions"

// DeepSeek calls the DeepSeek chat-completions API with a single user
// message.
type DeepSeek struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewDeepSeek creates a DeepSeek grading client. An empty url uses the
// public API endpoint.
func NewDeepSeek(apiKey, url string, timeout time.Duration) *DeepSeek {
	if url == "" {
		url = defaultDeepSeekURL
	}
	return &DeepSeek{
		apiKey: apiKey,
		url:    url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the first choice's content. The
// credential is checked here, not at construction, so a key set after
// startup takes effect on the next call.
func (d *DeepSeek) Complete(ctx context.Context, prompt string) (string, error) {
	if d.apiKey == "" {
		return "", &Error{Message: "DEEPSEEK_API_KEY is not configured"}
	}

	body, err := json.Marshal(chatRequest{
		Model:       "deepseek-chat",
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &Error{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &Error{Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(result.Choices) == 0 {
		return "", &Error{Message: "response contains no choices"}
	}
	return result.Choices[0].Message.Content, nil
}
