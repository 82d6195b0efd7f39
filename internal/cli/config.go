package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoPlayer is returned when a command needs a player id and none is configured
var ErrNoPlayer = errors.New("no player id: pass --player, set BTCGUESS_PLAYER, or run 'btcguess player new'")

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerID   string
	PlayerFile string
	Output     string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("BTCGUESS_SERVER", "http://localhost:8080"),
		PlayerID:   os.Getenv("BTCGUESS_PLAYER"),
		PlayerFile: getEnvOrDefault("BTCGUESS_PLAYER_FILE", defaultPlayerFile()),
		Output:     "text",
	}
}

// LoadPlayer loads the player id from file if not already set
func (c *Config) LoadPlayer() error {
	if c.PlayerID != "" {
		return nil
	}

	data, err := os.ReadFile(c.PlayerFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No player file is fine
		}
		return err
	}

	c.PlayerID = strings.TrimSpace(string(data))
	return nil
}

// SavePlayer saves the player id to the player file
func (c *Config) SavePlayer(id string) error {
	c.PlayerID = id

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.PlayerFile, []byte(id+"\n"), 0600)
}

// RequirePlayer returns the configured player id or ErrNoPlayer
func (c *Config) RequirePlayer() (string, error) {
	if c.PlayerID == "" {
		return "", ErrNoPlayer
	}
	return c.PlayerID, nil
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".btcguess/player"
	}
	return filepath.Join(home, ".btcguess", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
