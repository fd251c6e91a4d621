package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// StorageConfig selects where the task list is persisted
type StorageConfig struct {
	Backend  string `toml:"backend"`   // sqlite, file, memory; empty tries each in turn
	Path     string `toml:"path"`      // sqlite database
	FilePath string `toml:"file_path"` // JSON slot file for the file backend
	Slot     string `toml:"slot"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `toml:"level"`
	Path   string `toml:"path"` // empty disables logging
	Pretty bool   `toml:"pretty"`
}

// UIConfig holds display preferences
type UIConfig struct {
	DefaultFilter string `toml:"default_filter"`
	TimeFormat    string `toml:"time_format"`
	Mascot        bool   `toml:"mascot"`
}

// Default returns the default configuration
func Default() *Config {
	dir := configDir()
	return &Config{
		Storage: StorageConfig{
			Backend:  "sqlite",
			Path:     filepath.Join(dir, "tasks.db"),
			FilePath: filepath.Join(dir, "tasks.json"),
			Slot:     "tasks",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "tasks-tui.log"),
		},
		UI: UIConfig{
			DefaultFilter: "all",
			TimeFormat:    "Mon Jan 2 2006 15:04",
			Mascot:        true,
		},
	}
}

// Path returns the standard config file location
func Path() string {
	return filepath.Join(configDir(), "config.toml")
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file, return defaults
		return cfg, nil
	}

	// Read and parse config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in paths
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Storage.FilePath = expandPath(cfg.Storage.FilePath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	return cfg, nil
}

// configDir returns ~/.config/tasks-tui
func configDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "tasks-tui")
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	if err := os.MkdirAll(configDir(), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return c.SaveTo(Path())
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
