// Package config handles the settings surface for privateai.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"privateai/internal/models"
)

// Defaults are environment-sourced fallbacks. The built-in default
// credential lives here instead of being hardcoded in the binary.
type Defaults struct {
	APIKey    string `env:"PRIVATEAI_API_KEY"`
	OpenAIKey string `env:"PRIVATEAI_OPENAI_KEY"`
	Locale    string `env:"PRIVATEAI_LOCALE" envDefault:"pt-BR"`
}

// Config represents the user configuration. CustomAPIKey empty means
// "use the built-in default".
type Config struct {
	CustomAPIKey string `json:"custom_api_key"`
	ModelID      string `json:"model_id"`
	Language     string `json:"language,omitempty"`
	Appearance   string `json:"appearance,omitempty"` // "system", "light", "dark"
	OpenAIKey    string `json:"openai_key,omitempty"` // transcription engine credential
	Verbose      bool   `json:"verbose,omitempty"`

	defaults Defaults
}

// LoadDefaults parses environment fallbacks. A .env next to the binary
// is honored when present.
func LoadDefaults() (Defaults, error) {
	_ = godotenv.Load() // missing .env is fine

	var d Defaults
	if err := env.Parse(&d); err != nil {
		return Defaults{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return d, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ModelID:    models.DefaultModel,
		Appearance: "system",
	}
}

// EffectiveAPIKey returns the credential to authenticate with: the
// user-supplied override when set, the built-in default otherwise.
func (c Config) EffectiveAPIKey() string {
	if c.CustomAPIKey != "" {
		return c.CustomAPIKey
	}
	return c.defaults.APIKey
}

// EffectiveOpenAIKey returns the transcription engine credential.
func (c Config) EffectiveOpenAIKey() string {
	if c.OpenAIKey != "" {
		return c.OpenAIKey
	}
	return c.defaults.OpenAIKey
}

// EffectiveModel returns the selected model identifier.
func (c Config) EffectiveModel() string {
	if c.ModelID != "" {
		return c.ModelID
	}
	return models.DefaultModel
}

// Locale returns the locale used for speech recognition.
func (c Config) Locale() string {
	if c.Language != "" {
		return c.Language
	}
	return c.defaults.Locale
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".privateai"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds credentials and conversation data
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the configuration from disk, falling back to defaults when
// no config file exists.
func Load() (Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the configuration from an explicit path. An empty path
// uses the default location.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	defaults, err := LoadDefaults()
	if err != nil {
		return cfg, err
	}
	cfg.defaults = defaults

	if path == "" {
		path, err = GetConfigPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		fresh := DefaultConfig()
		fresh.defaults = defaults
		return fresh, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk
func Save(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(cfg, filepath.Join(configDir, "config.json"))
}

// SaveTo writes the configuration to an explicit path.
func SaveTo(cfg Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file may contain API credentials
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
