package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/RobertRaul/storefront-notify/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a
// positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// BoolValidator returns a validator that normalizes boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the
// allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		lower := strings.ToLower(value)
		if !allowed[lower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s', using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return lower, nil
	}
}

// HostValidator returns a validator that rejects values carrying a scheme;
// api_host is host[:port] only.
func HostValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		trimmed := strings.TrimSpace(value)
		if strings.Contains(trimmed, "://") {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be host[:port] without scheme, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return trimmed, nil
	}
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	boolValidator := BoolValidator()

	RegisterValidator("api_host", HostValidator())
	RegisterValidator("api_tls", boolValidator)
	RegisterValidator("api_timeout_seconds", positiveInt)
	RegisterValidator("reconnect_delay_seconds", positiveInt)
	RegisterValidator("ping_interval_seconds", positiveInt)
	RegisterValidator("toast_duration_ms", positiveInt)
	RegisterValidator("toast_tick_ms", positiveInt)
	RegisterValidator("auto_cleanup_days", positiveInt)
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true,
	}))
	RegisterValidator("logging_max_files", positiveInt)
	RegisterValidator("debug", boolValidator)
}
