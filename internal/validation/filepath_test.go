package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAndSanitize(t *testing.T) {
	v := NewFilePathValidator()
	home, _ := os.UserHomeDir()

	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{name: "empty path", input: "", shouldError: true},
		{name: "null byte", input: "/tmp/a\x00b", shouldError: true},
		{name: "traversal", input: "~/.lumen/../.ssh/id_rsa", shouldError: true},
		{name: "control character", input: "/tmp/a\x01b", shouldError: true},
		{name: "bare tilde user", input: "~root/.lumen/x.log", shouldError: true},
		{name: "outside allowed dirs", input: "/etc/passwd", shouldError: true},
		{
			name:     "home expansion inside app dir",
			input:    "~/.lumen/lumen.log",
			expected: filepath.Join(home, ".lumen", "lumen.log"),
		},
		{
			name:     "temp dir allowed",
			input:    filepath.Join(os.TempDir(), "lumen.log"),
			expected: filepath.Join(os.TempDir(), "lumen.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndSanitize(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValidateAndSanitizePermissive(t *testing.T) {
	v := NewPermissiveFilePathValidator()

	got, err := v.ValidateAndSanitize("logs/lumen.log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join("logs", "lumen.log") {
		t.Errorf("expected relative path to stay relative, got %q", got)
	}

	if _, err := v.ValidateAndSanitize("/etc/lumen.log"); err != nil {
		t.Errorf("permissive validator should allow any directory: %v", err)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	v := NewPermissiveFilePathValidator()

	target := filepath.Join(dir, "nested", "lumen.log")
	got, err := v.ValidateFile(target, true)
	if err != nil {
		t.Fatalf("ValidateFile() error = %v", err)
	}
	if got != target {
		t.Errorf("expected %q, got %q", target, got)
	}
	if info, statErr := os.Stat(filepath.Dir(target)); statErr != nil || !info.IsDir() {
		t.Error("expected parent directory to be created")
	}

	if _, err := v.ValidateFile(dir, false); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("expected directory rejection, got %v", err)
	}
}

func TestIsPathSafe(t *testing.T) {
	tests := map[string]bool{
		"/tmp/lumen.log":          true,
		"~/.lumen/lumen.log":      true,
		"../secret":               false,
		"..\\secret":              false,
		"/tmp/\x00":               false,
		strings.Repeat("a", 4097): false,
	}
	for path, want := range tests {
		if got := IsPathSafe(path); got != want {
			t.Errorf("IsPathSafe(%q) = %v, want %v", path, got, want)
		}
	}
}
