package cli

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/mako10k/shellassist/internal/vfs"
)

// DefaultConfigName is the rc file looked up in the user's home directory.
const DefaultConfigName = ".shellassistrc"

// ConfigFile represents configuration loaded from file
type ConfigFile struct {
	OpenAIAPIKey   string  `json:"openai_api_key"`
	OpenAIBaseURL  string  `json:"openai_base_url"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	MaxAPICalls    int     `json:"max_api_calls"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	HomeDir        string  `json:"home_dir"`
	SeedDir        string  `json:"seed_dir"`
	ListenAddr     string  `json:"listen_addr"`
	LogLevel       string  `json:"log_level"`
	LogFormat      string  `json:"log_format"`
	LogFile        string  `json:"log_file"`
	HistoryFile    string  `json:"history_file"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *ConfigFile {
	return &ConfigFile{
		OpenAIBaseURL:  "https://api.openai.com/v1",
		Model:          "gpt-4o-mini",
		MaxTokens:      256,
		Temperature:    0.2,
		TimeoutSeconds: 30,
		HomeDir:        vfs.DefaultHome,
		ListenAddr:     "127.0.0.1:8080",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// DefaultConfigPath returns ~/.shellassistrc, or "" when the home directory
// is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigName)
}

// LoadConfigFile loads configuration from path on fsys over the defaults.
// A missing file yields the defaults.
func LoadConfigFile(fsys afero.Fs, path string) (*ConfigFile, error) {
	config := DefaultConfig()

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		return config, nil
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		if err := setConfigValue(config, key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return config, nil
}

func unquote(value string) string {
	if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'')) {
		return value[1 : len(value)-1]
	}
	return value
}

// setConfigValue sets a configuration value by key
func setConfigValue(config *ConfigFile, key, value string) error {
	switch key {
	case "openai_api_key":
		config.OpenAIAPIKey = value
	case "openai_base_url":
		config.OpenAIBaseURL = value
	case "model":
		config.Model = value
	case "max_tokens":
		return parseAndAssignInt(value, "max_tokens", func(val int) { config.MaxTokens = val })
	case "temperature":
		return parseAndAssignFloat(value, "temperature", func(val float64) { config.Temperature = val })
	case "max_api_calls":
		return parseAndAssignInt(value, "max_api_calls", func(val int) { config.MaxAPICalls = val })
	case "timeout_seconds":
		return parseAndAssignInt(value, "timeout_seconds", func(val int) { config.TimeoutSeconds = val })
	case "home_dir":
		config.HomeDir = value
	case "seed_dir":
		config.SeedDir = value
	case "listen_addr":
		config.ListenAddr = value
	case "log_level":
		config.LogLevel = value
	case "log_format":
		config.LogFormat = value
	case "log_file":
		config.LogFile = value
	case "history_file":
		config.HistoryFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// parseAndAssignInt parses an integer value and assigns it via a setter function
func parseAndAssignInt(value string, fieldName string, setter func(int)) error {
	val, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	setter(val)
	return nil
}

// parseAndAssignFloat parses a float value and assigns it via a setter function
func parseAndAssignFloat(value string, fieldName string, setter func(float64)) error {
	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	setter(val)
	return nil
}

// LoadEnvironmentConfig loads configuration from environment variables
func LoadEnvironmentConfig(config *ConfigFile) {
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.OpenAIAPIKey = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		config.OpenAIBaseURL = val
	}
	if val := os.Getenv("SHELLASSIST_MODEL"); val != "" {
		config.Model = val
	}
	if val := os.Getenv("SHELLASSIST_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.TimeoutSeconds = parsed
		}
	}
	if val := os.Getenv("SHELLASSIST_HOME"); val != "" {
		config.HomeDir = val
	}
	if val := os.Getenv("SHELLASSIST_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
}

// Validate checks values that cannot be used as given.
func (c *ConfigFile) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if !strings.HasPrefix(c.HomeDir, vfs.Separator) {
		return fmt.Errorf("home_dir must be an absolute path, got %q", c.HomeDir)
	}
	if clean := path.Clean(c.HomeDir); clean != c.HomeDir {
		return fmt.Errorf("home_dir must be a clean path (%q), got %q", clean, c.HomeDir)
	}
	return nil
}
