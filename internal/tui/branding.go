package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/lumen/internal/config"
)

const AppName = "lumen"

// LogoLines is the block-letter logo shown on the welcome screen and banner.
var LogoLines = []string{
	"██      ██  ██ ███▄ ▄███ ██████ ███▄  ██",
	"██      ██  ██ ██ ▀█▀ ██ ██     ██▀█▄ ██",
	"██      ██  ██ ██     ██ █████  ██ ▀█▄██",
	"██      ██  ██ ██     ██ ██     ██   ▀██",
	"██████  ▀████▀ ██     ██ ██████ ██    ██",
}

const Tagline = "NASA Image Library Search"

// Banner gradient colors, deep space to sunlit limb
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#3944D7"),
	lipgloss.Color("#5B6CF0"),
	lipgloss.Color("#8EA2FF"),
	lipgloss.Color("#FC3D21"),
	lipgloss.Color("#FFB547"),
}

var (
	PrimaryColor   = lipgloss.Color("#3944D7") // NASA blue
	SecondaryColor = lipgloss.Color("#8EA2FF")
	AccentColor    = lipgloss.Color("#FC3D21") // NASA red

	BackgroundColor = lipgloss.Color("#0B0D21")
	SurfaceColor    = lipgloss.Color("#1B1F3B")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	HighlightColor = lipgloss.Color("#FFB547")
	ErrorColor     = lipgloss.Color("#EF4444")
	SuccessColor   = lipgloss.Color("#10B981")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	HelpStyle          lipgloss.Style
	MetaStyle          lipgloss.Style
	ErrorBannerStyle   lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	MetaStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(ErrorColor).
		Bold(true).
		Padding(0, 1)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(HighlightColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

// ApplyTheme overrides the palette with the configured colors. Empty values
// keep the built-in color.
func ApplyTheme(colors config.UIColors) {
	set := func(dst *lipgloss.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	set(&PrimaryColor, colors.Primary)
	set(&SecondaryColor, colors.Secondary)
	set(&AccentColor, colors.Accent)
	set(&BackgroundColor, colors.Background)
	set(&SurfaceColor, colors.Surface)
	set(&TextColor, colors.Text)
	set(&MutedColor, colors.Muted)
	set(&ErrorColor, colors.Error)
	set(&SuccessColor, colors.Success)
	buildStyles()
}

func GetWelcomeMessage(searchKey string) string {
	return GetCompactBanner(fmt.Sprintf("Type a keyword and press enter • %s focuses the search box", searchKey))
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("%s %s", Tagline, versionTag))
	} else {
		lines = append(lines, Tagline)
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("✦ · ✧ · ✦")

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(separator))
}
