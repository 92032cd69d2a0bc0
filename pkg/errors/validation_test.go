package errors

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"spanish", "¡Hola! ¿Cómo estás?", false},
		{"emoji", "😊 🌊 💚", false},
		{"at limit", strings.Repeat("á", MaxTextRunes), false},

		{"too long", strings.Repeat("a", MaxTextRunes+1), true},
		{"null byte", "foo\x00bar", true},
		{"invalid utf8", "foo\xffbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateSymbols(t *testing.T) {
	if err := ValidateSymbols([]string{"😊", "🌊"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSymbols(nil); err != nil {
		t.Errorf("empty list should be valid: %v", err)
	}
	if err := ValidateSymbols(make([]string, MaxSymbols+1)); err == nil {
		t.Error("expected error for too many symbols")
	}
	if err := ValidateSymbols([]string{"ok", "\x00"}); err == nil {
		t.Error("expected error for null byte symbol")
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2c7a8e-5b1d-4c7e-9a0b-1d2e3f4a5b6c", false},
		{"default", "default", false},
		{"dots and underscores", "user_1.web", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxSessionIDLen+1), true},
		{"path traversal", "a..b", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"space", "a b", true},
		{"emoji", "😊", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"trace", "trazo_20240301_123000.png", false},
		{"plain", "rio.png", false},

		{"empty", "", true},
		{"with path /", "path/to/file.png", true},
		{"with path \\", "path\\to\\file.png", true},
		{"hidden file", ".hidden.png", true},
		{"control", "a\nb.png", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://api.openai.com/v1", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"redis://localhost:6379", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
