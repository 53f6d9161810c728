package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the AssetView configuration
type Config struct {
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Dataset  Dataset  `yaml:"dataset"`
	View     View     `yaml:"view"`
	Security Security `yaml:"security"`
	Sessions Sessions `yaml:"sessions"`
	Logging  Logging  `yaml:"logging"`
}

// Dataset describes where the stock CSV comes from. URL wins over Path.
type Dataset struct {
	Path      string `yaml:"path"`
	URL       string `yaml:"url"`
	Delimiter string `yaml:"delimiter"`
}

// View contains view engine settings
type View struct {
	PageSize    int  `yaml:"page_size"`
	NumericSort bool `yaml:"numeric_sort"`
}

// Security contains the login credentials and session lifetime
type Security struct {
	Email      string        `yaml:"email"`
	Password   string        `yaml:"password"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Sessions selects the session store
type Sessions struct {
	DataDir  string `yaml:"data_dir"`
	InMemory bool   `yaml:"in_memory"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Port: 8080,
		Bind: "127.0.0.1",
		Dataset: Dataset{
			Path:      "./all_stocks.csv",
			Delimiter: ",",
		},
		View: View{
			PageSize:    50,
			NumericSort: false,
		},
		Security: Security{
			Email:      "test@example.com",
			Password:   "password",
			SessionTTL: 12 * time.Hour,
		},
		Sessions: Sessions{
			DataDir: "./data/sessions",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration can be used to start the service
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Dataset.Path == "" && c.Dataset.URL == "" {
		return fmt.Errorf("dataset path or url is required")
	}
	if _, err := c.Dataset.DelimiterRune(); err != nil {
		return err
	}
	if c.View.PageSize <= 0 {
		return fmt.Errorf("invalid page size: %d", c.View.PageSize)
	}
	if c.Security.Email == "" || c.Security.Password == "" {
		return fmt.Errorf("security email and password are required")
	}
	if !c.Sessions.InMemory && c.Sessions.DataDir == "" {
		return fmt.Errorf("sessions data_dir is required unless in_memory is set")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	return nil
}

// DelimiterRune returns the single character separating dataset fields
func (d Dataset) DelimiterRune() (rune, error) {
	switch d.Delimiter {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	runes := []rune(d.Delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("invalid dataset delimiter: %q", d.Delimiter)
	}
	return runes[0], nil
}

// LoadConfig loads configuration from the specified path. Values missing
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600), the file holds the login password
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a new configuration. When generatePassword is
// set the default password is replaced by a random one.
func BootstrapConfig(configPath string, datasetPath string, generatePassword bool) (*Config, error) {
	config := DefaultConfig()
	if datasetPath != "" {
		config.Dataset.Path = datasetPath
	}

	if generatePassword {
		password, err := GenerateSecureKey(16)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		config.Security.Password = password
	}

	// Save the configuration
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	// Use OS-specific default locations
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./assetview.yaml"
	}

	// For Linux/macOS, use ~/.config/assetview/config.yaml
	configDir := filepath.Join(homeDir, ".config", "assetview")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
