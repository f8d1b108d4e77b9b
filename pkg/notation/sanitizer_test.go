package notation

import (
	"strings"
	"testing"
)

func TestSanitize_SizeLimit(t *testing.T) {
	// Default Limit is 4096
	limit := 4096

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := Sanitize(input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Sanitize() expected error for size %d, got nil", tt.inputSize)
				}
			} else {
				if err != nil {
					t.Errorf("Sanitize() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestSanitize_StripsWhitespaceAndControls(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "q0,q1", "q0,q1"},
		{"Spaces", "q0, q1 ,q2", "q0,q1,q2"},
		{"Newlines And Tabs", "q0:a->q1,\n\tq1:b->q2", "q0:a->q1,q1:b->q2"},
		{"ANSI Code", "\x1b[31mq0", "[31mq0"}, // ESC removed
		{"Null Byte", "q\x000", "q0"},
		{"Epsilon Kept", "q0:ε->q1", "q0:ε->q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	_, err := Sanitize("q0\xff")
	if err != ErrInvalidUTF8 {
		t.Errorf("Expected ErrInvalidUTF8, got %v", err)
	}
}

func TestSanitize_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	if _, err := Sanitize("123456789"); err == nil {
		t.Error("Expected error with lowered limit")
	}
	if _, err := Sanitize("12345678"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
