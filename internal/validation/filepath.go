package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePathValidator checks local paths the app writes to (log file,
// generated config) before they are opened.
type FilePathValidator struct {
	// AllowedBaseDirs restricts writes to these directories; empty allows all.
	AllowedBaseDirs []string
	// AllowRelativePaths keeps relative paths relative instead of resolving them
	AllowRelativePaths bool
	MaxPathLength      int
}

// NewFilePathValidator restricts paths to the app's own directories and the
// system temp dir.
func NewFilePathValidator() *FilePathValidator {
	homeDir, _ := os.UserHomeDir()
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".lumen"),
			filepath.Join(homeDir, ".config", "lumen"),
			os.TempDir(),
		},
		MaxPathLength: 4096,
	}
}

// NewPermissiveFilePathValidator allows any directory.
func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowRelativePaths: true,
		MaxPathLength:      4096,
	}
}

// ValidateAndSanitize expands ~, cleans the path and checks it against the
// allowed directories.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if !IsPathSafe(path) {
		return "", fmt.Errorf("path contains unsafe sequences")
	}
	for _, r := range path {
		if r < 32 && r != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	if !v.AllowRelativePaths && !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	if err := v.validateBaseDirs(path); err != nil {
		return "", err
	}
	return path, nil
}

func (v *FilePathValidator) validateBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	for _, baseDir := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(baseDir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, absPath)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
}

// ValidateFile validates path and rejects existing directories. When
// createParent is set the parent directory is created.
func (v *FilePathValidator) ValidateFile(path string, createParent bool) (string, error) {
	validated, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}

	if info, statErr := os.Stat(validated); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", validated)
	}

	if createParent {
		if mkErr := os.MkdirAll(filepath.Dir(validated), 0o755); mkErr != nil {
			return "", fmt.Errorf("creating parent directory: %w", mkErr)
		}
	}
	return validated, nil
}

// IsPathSafe performs a quick safety check on a path without full validation
func IsPathSafe(path string) bool {
	if strings.Contains(path, "\x00") {
		return false
	}
	if strings.Contains(path, "../") || strings.Contains(path, "..\\") {
		return false
	}
	return len(path) <= 4096
}
