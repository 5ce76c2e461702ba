// Package config provides configuration management for texprose.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"texprose/internal/logger"
	"texprose/internal/repeat"
	"texprose/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "texprose.yaml"
	// EnvLanguage is the environment variable consulted when no language is configured
	EnvLanguage = "TEXPROSE_LANGUAGE"
)

// format is the on-disk encoding of a config file.
type format int

const (
	formatYAML format = iota
	formatJSON
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return formatJSON
	default:
		return formatYAML
	}
}

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "texprose", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     DefaultConfig(),
	}, nil
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *types.Config {
	return &types.Config{
		Language:  repeat.AutoLanguage,
		MinChars:  repeat.DefaultMinChars,
		Window:    repeat.DefaultWindow,
		Stopwords: true,
		Stemming:  true,
		RepeatTag: repeat.DefaultTag,
	}
}

// decode parses data over a copy of the defaults, so fields missing from the
// file keep their default values.
func decode(data []byte, f format) (*types.Config, error) {
	config := DefaultConfig()
	switch f {
	case formatJSON:
		// comments and trailing commas are allowed
		if err := json.Unmarshal(jsonc.ToJSON(data), config); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func encode(config *types.Config, f format) ([]byte, error) {
	if f == formatJSON {
		return json.MarshalIndent(config, "", "  ")
	}
	return yaml.Marshal(config)
}

// Load loads configuration from the config file.
// If the file doesn't exist or cannot be parsed, it uses default values.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = DefaultConfig()
			return nil
		}
		logger.Error("failed to read config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to read config file", err)
	}

	config, err := decode(data, formatOf(m.configPath))
	if err != nil {
		logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
		m.config = DefaultConfig()
		return nil
	}

	// Apply defaults for invalid values
	if config.MinChars < 1 {
		config.MinChars = repeat.DefaultMinChars
	}
	if config.Window < 2 {
		config.Window = repeat.DefaultWindow
	}
	if config.RepeatTag == "" {
		config.RepeatTag = repeat.DefaultTag
	}

	logger.Info("configuration loaded successfully",
		logger.String("path", m.configPath),
		logger.String("language", config.Language),
		logger.Int("minChars", config.MinChars),
		logger.Int("window", config.Window))
	m.config = config
	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	// Ensure the directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := encode(m.GetConfig(), formatOf(m.configPath))
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved successfully", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return DefaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetLanguage returns the language used for repeated-word checks.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetLanguage() string {
	if m.config != nil && m.config.Language != "" && m.config.Language != repeat.AutoLanguage {
		return m.config.Language
	}
	if env := os.Getenv(EnvLanguage); env != "" {
		return env
	}
	return repeat.AutoLanguage
}

// GetMarkers returns the split markers, or nil when none are configured.
func (m *ConfigManager) GetMarkers() []string {
	if m.config != nil {
		return m.config.Markers
	}
	return nil
}
