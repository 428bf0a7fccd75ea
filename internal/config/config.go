// Package config provides configuration loading.
//
// Configuration is a flat key-value map with defaults, overridden first
// by a TOML file and then by STOREFRONT_NOTIFY_* environment variables.
// Registered validators normalize values and fall back to the default
// with a warning instead of failing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/RobertRaul/storefront-notify/internal/colors"
)

const (
	// FileModeDir is the permission for created directories.
	FileModeDir os.FileMode = 0755
	// FileExtTOML is the file extension for configuration files.
	FileExtTOML = ".toml"

	envPrefix = "STOREFRONT_NOTIFY_"
)

var (
	config   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration: defaults, then config file, then
// environment overrides, then validation.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromFile()
	loadFromEnv()
	validate()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(xdgConfigHome, "storefront-notify")
	stateDir := filepath.Join(xdgStateHome, "storefront-notify")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("cache_path", filepath.Join(stateDir, "notifications.db"))
	setDefault("auto_cleanup_days", "30")

	// Remote endpoints. api_host is host[:port] without scheme; the ws and
	// http schemes are derived from api_tls.
	setDefault("api_host", "localhost:8000")
	setDefault("api_tls", "false")
	setDefault("api_timeout_seconds", "10")

	// Stream behaviour.
	setDefault("reconnect_delay_seconds", "5")
	setDefault("ping_interval_seconds", "30")

	// Toast behaviour.
	setDefault("toast_duration_ms", "6000")
	setDefault("toast_tick_ms", "50")

	// Logging.
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")

	setDefault("debug", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from the TOML config file, if present.
func loadFromFile() {
	configPath := os.Getenv(envPrefix + "CONFIG_PATH")
	if configPath == "" {
		if configDir, ok := config["config_dir"]; ok {
			configPath = filepath.Join(configDir, "config"+FileExtTOML)
			if _, err := os.Stat(configPath); err != nil {
				configPath = ""
			}
		}
	}
	if configPath == "" {
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string
// representation. Supported types are string, int, int64, float64 and bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered
// validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// ensureLoaded lazily loads configuration on first access.
func ensureLoaded() {
	mu.RLock()
	loaded := config != nil
	mu.RUnlock()
	if !loaded {
		Load()
	}
}

// Get returns the configuration value for key, or defaultValue when unset.
func Get(key, defaultValue string) string {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := config[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

// Set overrides a configuration value for the lifetime of the process.
func Set(key, value string) {
	ensureLoaded()
	mu.Lock()
	defer mu.Unlock()
	config[key] = value
}

// GetBool returns a boolean configuration value.
func GetBool(key string, defaultValue bool) bool {
	v := Get(key, "")
	if v == "" {
		return defaultValue
	}
	return normalizeBool(v) == "true"
}

// GetInt returns an integer configuration value.
func GetInt(key string, defaultValue int) int {
	v := Get(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetDuration builds a duration from an integer key and unit.
func GetDuration(key string, unit time.Duration, defaultValue time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * unit
}

// normalizeBool converts common boolean spellings to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}
