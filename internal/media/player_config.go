package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/lumen/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how an image viewer should be invoked
type PlayerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Image       *ViewerArgs `toml:"image,omitempty"`
}

// ViewerArgs holds the arguments passed before the URL
type ViewerArgs struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// PlayersConfig holds all player definitions
type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry manages player definitions
type PlayerRegistry struct {
	players map[string]PlayerDefinition
}

// NewPlayerRegistry creates a registry from the embedded definitions merged
// with ~/.config/lumen/players.toml when present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	registry, err := parseRegistry(playersTOML)
	if err != nil {
		return nil, err
	}

	if home, err := os.UserHomeDir(); err == nil {
		registry.loadUserConfig(filepath.Join(home, ".config", "lumen", "players.toml"))
	}
	return registry, nil
}

func parseRegistry(data []byte) (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	if config.Players == nil {
		config.Players = make(map[string]PlayerDefinition)
	}
	return &PlayerRegistry{players: config.Players}, nil
}

// loadUserConfig merges definitions from path; user entries win.
func (r *PlayerRegistry) loadUserConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var userConfig PlayersConfig
	if err := toml.Unmarshal(data, &userConfig); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range userConfig.Players {
		r.players[name] = def
	}
}

// GetCommand builds the command that opens url with playerName.
func (r *PlayerRegistry) GetCommand(playerName string, mediaType Type, url string) (*exec.Cmd, error) {
	player, exists := r.players[playerName]
	if !exists {
		// If player not defined, use it with no special args
		return exec.Command(playerName, url), nil
	}

	if !contains(player.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", playerName, runtime.GOOS)
	}

	if mediaType != TypeImage || player.Image == nil {
		return nil, fmt.Errorf("%s doesn't support %s", playerName, mediaType)
	}

	args := append(r.getArgs(player.Image), url)
	return exec.Command(playerName, args...), nil
}

// getArgs returns the appropriate args for the current platform
func (r *PlayerRegistry) getArgs(config *ViewerArgs) []string {
	if config == nil {
		return nil
	}

	var platformArgs []string
	switch runtime.GOOS {
	case "darwin":
		platformArgs = config.ArgsDarwin
	case "linux":
		platformArgs = config.ArgsLinux
	case "windows":
		platformArgs = config.ArgsWindows
	}
	if len(platformArgs) > 0 {
		return append([]string(nil), platformArgs...)
	}
	return append([]string(nil), config.Args...)
}

// IsPlayerAvailable checks if a player is installed
func (r *PlayerRegistry) IsPlayerAvailable(playerName string) bool {
	_, err := exec.LookPath(playerName)
	return err == nil
}

// FindAvailablePlayer finds the first available player from a list
func (r *PlayerRegistry) FindAvailablePlayer(players []string) string {
	for _, player := range players {
		if r.IsPlayerAvailable(player) {
			return player
		}
	}
	return ""
}
