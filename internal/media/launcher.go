package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/lumen/internal/config"
	"github.com/pders01/lumen/internal/debuglog"
	"github.com/pders01/lumen/internal/validation"
)

// Launcher opens gallery images in an external viewer.
type Launcher struct {
	imageViewer   string
	defaultOpener string
	registry      *PlayerRegistry
	detector      *TypeDetector
	validator     *validation.CatalogURLValidator
	start         func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		debuglog.Warnf("player definitions unavailable: %v", err)
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media types unavailable: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	defaultOpener := cfg.Media.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = detector.GetDefaultOpener()
	}

	var viewers config.MediaViewers
	switch runtime.GOOS {
	case "linux":
		viewers = cfg.Media.Linux
	case "windows":
		viewers = cfg.Media.Windows
	default:
		viewers = cfg.Media.Darwin
	}

	imageViewer := registry.FindAvailablePlayer(viewers.Image)
	if imageViewer == "" {
		imageViewer = defaultOpener
	}

	return &Launcher{
		imageViewer:   imageViewer,
		defaultOpener: defaultOpener,
		registry:      registry,
		detector:      detector,
		validator:     validation.NewCatalogURLValidator(),
		start:         startDetached,
	}
}

// Viewer is the program used for images.
func (l *Launcher) Viewer() string { return l.imageViewer }

// Open validates url and starts the viewer for it without waiting.
func (l *Launcher) Open(url string) error {
	safe, err := l.validator.ValidateAndNormalize(url)
	if err != nil {
		return fmt.Errorf("refusing to open %q: %w", url, err)
	}

	mediaType := l.detector.DetectType(safe)
	playerName := l.defaultOpener
	if mediaType == TypeImage {
		playerName = l.imageViewer
	}
	if playerName == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := l.registry.GetCommand(playerName, mediaType, safe)
	if err != nil {
		debuglog.Debugf("%v, starting %s without arguments", err, playerName)
		cmd = exec.Command(playerName, safe)
	}

	debuglog.WithFields(map[string]interface{}{
		"viewer": playerName,
		"type":   mediaType.String(),
	}).Infof("opening %s", safe)

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}
	return nil
}

// startDetached starts GUI applications and reaps them in the background.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
