package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/lumen/internal/validation"
)

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Log   LogConfig   `mapstructure:"log"`
	UI    UIConfig    `mapstructure:"ui"`
	Media MediaConfig `mapstructure:"media"`
	Keys  KeyConfig   `mapstructure:"keys"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gte=0"`
	UserAgent   string        `mapstructure:"user_agent"`
	MediaType   string        `mapstructure:"media_type"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" validate:"omitempty,hexcolor|numeric"`
	Secondary  string `mapstructure:"secondary" validate:"omitempty,hexcolor|numeric"`
	Accent     string `mapstructure:"accent" validate:"omitempty,hexcolor|numeric"`
	Background string `mapstructure:"background" validate:"omitempty,hexcolor|numeric"`
	Surface    string `mapstructure:"surface" validate:"omitempty,hexcolor|numeric"`
	Text       string `mapstructure:"text" validate:"omitempty,hexcolor|numeric"`
	Muted      string `mapstructure:"muted" validate:"omitempty,hexcolor|numeric"`
	Error      string `mapstructure:"error" validate:"omitempty,hexcolor|numeric"`
	Success    string `mapstructure:"success" validate:"omitempty,hexcolor|numeric"`
}

type DetailConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width" validate:"gte=0"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width" validate:"gte=0"`
}

type MediaConfig struct {
	Darwin        MediaViewers `mapstructure:"darwin"`
	Linux         MediaViewers `mapstructure:"linux"`
	Windows       MediaViewers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaViewers struct {
	Image []string `mapstructure:"image"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" validate:"omitempty,oneof=ctrl alt"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Filter    string `mapstructure:"filter"`
	Gallery   string `mapstructure:"gallery"`
	OpenImage string `mapstructure:"open_image"`
	Dismiss   string `mapstructure:"dismiss"`
	Back      string `mapstructure:"back"`
	Help      string `mapstructure:"help"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".lumen", "lumen.log")

	return &Config{
		API: APIConfig{
			BaseURL:     "https://images-api.nasa.gov",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "lumen/1.0 (https://github.com/pders01/lumen)",
			MediaType:   "image",
		},
		Log: LogConfig{
			Level: "off",
			File:  logPath,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#3944D7",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#0B0D21",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
			},
		},
		Media: MediaConfig{
			Darwin: MediaViewers{
				Image: []string{"open"},
			},
			Linux: MediaViewers{
				Image: []string{"feh", "imv", "eog", "xdg-open"},
			},
			Windows: MediaViewers{
				Image: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "s",
				Filter:    "f",
				Gallery:   "g",
				OpenImage: "o",
				Dismiss:   "d",
				Back:      "esc",
				Help:      "?",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("log", cfg.Log)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "lumen")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LUMEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The API endpoint may legitimately be a local mock, so only the
	// structural checks apply here.
	baseURL, err := validation.NewPermissiveCatalogURLValidator().ValidateAndNormalize(config.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api.base_url: %w", err)
	}
	config.API.BaseURL = baseURL

	if err := Validate(&config); err != nil {
		return nil, err
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
		"media_type":   config.API.MediaType,
	}

	v.Set("api", apiCfg)
	v.Set("log", config.Log)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultConfigPath is where GenerateDefaultConfig writes when no path is given.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lumen", "config.toml")
}
