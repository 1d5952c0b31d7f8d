package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/lumen/internal/config"
)

func TestShowBanner(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, Tagline) {
		t.Errorf("Expected banner to contain %q, got: %s", Tagline, out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "✦") {
		t.Errorf("Expected banner to contain separator symbols, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "▀████▀") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage("ctrl+s")

	if !strings.Contains(result, "ctrl+s focuses the search box") {
		t.Errorf("Expected welcome message to mention the search key, got: %s", result)
	}
	if !strings.Contains(result, "▀████▀") {
		t.Errorf("Expected welcome message to contain logo elements, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 5 {
		t.Errorf("Expected 5 logo lines, got %d", len(LogoLines))
	}
	if len(BannerColors) != 5 {
		t.Errorf("Expected 5 banner colors, got %d", len(BannerColors))
	}
}

func TestApplyTheme(t *testing.T) {
	oldPrimary, oldError := PrimaryColor, ErrorColor
	t.Cleanup(func() {
		PrimaryColor, ErrorColor = oldPrimary, oldError
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#123456"})

	if PrimaryColor != lipgloss.Color("#123456") {
		t.Errorf("PrimaryColor = %v, want #123456", PrimaryColor)
	}
	if ErrorColor != oldError {
		t.Errorf("empty color should keep the default, got %v", ErrorColor)
	}
}
