package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Username  string
	UserFile  string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("DICEGAME_SERVER", "http://localhost:8080"),
		Username:  os.Getenv("DICEGAME_USER"),
		UserFile:  getEnvOrDefault("DICEGAME_USER_FILE", defaultUserFile()),
		Output:    "text",
	}
}

// LoadUsername loads the saved username if none was given
func (c *Config) LoadUsername() error {
	if c.Username != "" {
		return nil
	}

	data, err := os.ReadFile(c.UserFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not logged in yet
		}
		return err
	}

	c.Username = strings.TrimSpace(string(data))
	return nil
}

// SaveUsername remembers the username for later commands
func (c *Config) SaveUsername(username string) error {
	c.Username = username

	dir := filepath.Dir(c.UserFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.UserFile, []byte(username), 0600)
}

func defaultUserFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dicegame/user"
	}
	return filepath.Join(home, ".dicegame", "user")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
