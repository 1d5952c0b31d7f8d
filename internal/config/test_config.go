package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:0",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "lumen-test/1.0",
			MediaType:   "image",
		},
		Log:   LogConfig{Level: "off"},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
	}
}
