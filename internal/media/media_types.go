package media

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type Type int

const (
	TypeImage Type = iota
	TypeUnknown
)

func (t Type) String() string {
	if t == TypeImage {
		return "image"
	}
	return "unknown"
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Image     TypeConfig                `toml:"image"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing media_types.toml: %w", err)
	}
	return &TypeDetector{config: &config}, nil
}

// DetectType classifies url by extension, then by known catalog URL patterns.
func (d *TypeDetector) DetectType(url string) Type {
	lower := strings.ToLower(url)

	if ext := extension(lower); ext != "" && contains(d.config.Image.Extensions, ext) {
		return TypeImage
	}

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		for _, pattern := range d.config.Image.URLPatterns {
			if strings.Contains(lower, pattern) {
				return TypeImage
			}
		}
	}

	return TypeUnknown
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

// extension returns the file extension of the path part of url, without the dot.
func extension(url string) string {
	if i := strings.IndexAny(url, "?#"); i != -1 {
		url = url[:i]
	}
	slash := strings.LastIndex(url, "/")
	dot := strings.LastIndex(url, ".")
	if dot == -1 || dot < slash {
		return ""
	}
	return url[dot+1:]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
