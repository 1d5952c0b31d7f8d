package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves the app's default file locations through a validator.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

// NewPermissivePathHandler is used when the user points a flag or config
// key at an arbitrary location.
func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

// LogPath validates userPath (or the default ~/.lumen/lumen.log) and makes
// sure its directory exists.
func (ph *PathHandler) LogPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".lumen", "lumen.log")
	}
	return ph.validator.ValidateFile(userPath, true)
}

// ConfigPath validates userPath (or the default config location).
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".config", "lumen", "config.toml")
	}
	return ph.validator.ValidateFile(userPath, false)
}
