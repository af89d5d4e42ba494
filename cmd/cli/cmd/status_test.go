package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gradeplane/pkg/api"

	"github.com/spf13/viper"
)

func TestStatusCommand_Done(t *testing.T) {
	resetViper()

	now := time.Now().UTC()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET method, got %s", r.Method)
		}
		if r.URL.Path != "/plans/math-week3/records/1756300000123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(api.RecordResponse{Record: api.Record{
			ID:        "1756300000123",
			Student:   "Zhang San",
			Images:    []string{"images/1756300000123_0.jpg"},
			Status:    "done",
			OCRText:   "1 + 1 = 2",
			Result:    "Grade: A. All answers correct.",
			CreatedAt: now.Add(-2 * time.Minute),
			UpdatedAt: now,
		}})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"status", "math-week3", "1756300000123"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Zhang San") {
		t.Errorf("expected student name in output, got: %s", output)
	}
	if !strings.Contains(output, "done") {
		t.Errorf("expected status in output, got: %s", output)
	}
	if !strings.Contains(output, "Grade: A") {
		t.Errorf("expected grading result in output, got: %s", output)
	}
}

func TestStatusCommand_Failed(t *testing.T) {
	resetViper()

	now := time.Now().UTC()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(api.RecordResponse{Record: api.Record{
			ID:        "1756300000456",
			Student:   "Li Si",
			Images:    []string{"images/1756300000456_0.jpg"},
			Status:    "failed",
			Error:     "ocr recognized no text in any image",
			CreatedAt: now,
			UpdatedAt: now,
		}})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"status", "math-week3", "1756300000456"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "failed") {
		t.Errorf("expected failed status in output, got: %s", output)
	}
	if !strings.Contains(output, "ocr recognized no text") {
		t.Errorf("expected error message in output, got: %s", output)
	}
}

func TestStatusCommand_NotFound(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Record not found"))
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"status", "math-week3", "no-such-record"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Error (404)") {
		t.Errorf("expected 404 error in output, got: %s", output)
	}
}
