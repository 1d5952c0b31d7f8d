package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pders01/lumen/internal/catalog"
	"github.com/pders01/lumen/internal/config"
	"github.com/pders01/lumen/internal/debuglog"
	"github.com/pders01/lumen/internal/media"
	"github.com/pders01/lumen/internal/tui"
	"github.com/pders01/lumen/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Search the NASA Image and Video Library from your terminal",
	Long: `lumen searches the NASA Image and Video Library by keyword and year range,
shows matching items with their metadata and opens images in an external viewer.

LUMEN_CONFIG and LUMEN_LOG_LEVEL (also read from a .env file) stand in for
--config and --log-level.`,
	SilenceUsage:     true,
	PersistentPreRun: loadEnv,
	RunE:             runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lumen %s\n", Version)
		fmt.Println(tui.Tagline)
		fmt.Println("github.com/pders01/lumen")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/lumen/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		configFile := config.DefaultConfigPath()
		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error or off (overrides config)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadEnv reads a .env file if present and fills flags the user left unset.
func loadEnv(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("LUMEN_CONFIG")
	}
	if logLevel == "" {
		logLevel = os.Getenv("LUMEN_LOG_LEVEL")
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		p, err := validation.NewPermissivePathHandler().ConfigPath(configPath)
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setupLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer debuglog.Close()

	if !quiet {
		tui.ShowBanner(Version)
	}

	debuglog.WithFields(map[string]interface{}{
		"version": Version,
		"catalog": cfg.API.BaseURL,
	}).Infof("starting")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app := tui.NewApp(cfg, catalog.NewClient(cfg), media.NewLauncher(cfg))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// setupLogging applies the --log-level flag over the configured level and
// opens the log file when logging is on.
func setupLogging(cfg *config.Config) error {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}

	lvl := debuglog.ParseLogLevel(level)
	if lvl == debuglog.LevelOff {
		return debuglog.Setup(lvl)
	}

	path, err := validation.NewPermissivePathHandler().LogPath(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	return debuglog.Setup(lvl, path)
}
