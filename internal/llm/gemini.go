package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini calls the Google Gemini API for grading.
type Gemini struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini grading client. An empty model defaults to
// gemini-1.5-flash.
func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// Complete sends the prompt as a single text part and returns the first
// candidate's text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", &Error{Message: "GEMINI_API_KEY is not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", &Error{Message: "create client: " + err.Error()}
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &Error{Message: err.Error()}
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &Error{Message: "empty response"}
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}
