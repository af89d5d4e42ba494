package store

import (
	"errors"
	"testing"
)

func TestValidatePlanName(t *testing.T) {
	tests := []struct {
		name     string
		planName string
		wantErr  bool
	}{
		{"simple", "math-week3", false},
		{"unicode", "数学作业", false},
		{"spaces inside", "math week 3", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanName(tt.planName)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName for %q, got %v", tt.planName, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.planName, err)
			}
		})
	}
}
