package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake-image-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestUploadCommand_Success(t *testing.T) {
	resetViper()

	dir := t.TempDir()
	page1 := writeTestImage(t, dir, "page1.jpg")
	page2 := writeTestImage(t, dir, "page2.png")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/plans/math-week3/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("student"); got != "Zhang San" {
			t.Errorf("expected student=Zhang San, got %q", got)
		}
		if files := r.MultipartForm.File["images"]; len(files) != 2 {
			t.Errorf("expected 2 image files, got %d", len(files))
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"record_id": "1756300000123",
			"status":    "pending",
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"upload", "math-week3", page1, page2, "--student", "Zhang San"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Homework uploaded") {
		t.Errorf("expected success message, got: %s", output)
	}
	if !strings.Contains(output, "1756300000123") {
		t.Errorf("expected record ID in output, got: %s", output)
	}
}

func TestUploadCommand_MissingStudent(t *testing.T) {
	resetViper()

	// Reset flags from previous tests
	uploadCmd.Flags().Set("student", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called when validation fails")
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"upload", "math-week3", "page1.jpg"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "--student is required") {
		t.Errorf("expected student required error, got: %s", output)
	}
}

func TestUploadCommand_MissingFile(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called when the file cannot be read")
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"upload", "math-week3", "/nonexistent/page1.jpg", "--student", "Zhang San"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "failed to open") {
		t.Errorf("expected file open error, got: %s", output)
	}
}

func TestUploadCommand_PlanNotFound(t *testing.T) {
	resetViper()

	dir := t.TempDir()
	page1 := writeTestImage(t, dir, "page1.jpg")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Plan not found"))
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"upload", "no-such-plan", page1, "--student", "Zhang San"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Error (404)") {
		t.Errorf("expected 404 error in output, got: %s", output)
	}
}
