package logging

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/RobertRaul/storefront-notify/internal/config"
)

// instanceID identifies this client process. It is attached to every log
// entry and to the stream dial, so server-side and client-side traces of
// one session can be correlated.
var instanceID = uuid.NewString()

// InstanceID returns the per-process instance identifier.
func InstanceID() string {
	return instanceID
}

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// Command is the name of the command being executed.
	Command string
	// PID is the process ID.
	PID int
	// InstanceID identifies this client instance across log files and the
	// stream dial.
	InstanceID string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Level:      "info",
		MaxFiles:   10,
		Command:    filepath.Base(os.Args[0]),
		PID:        os.Getpid(),
		InstanceID: instanceID,
	}
}

// FromGlobalConfig creates a logging Config from the global configuration.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", "info")
	cfg.MaxFiles = config.GetInt("logging_max_files", 10)
	return cfg
}

// LogDir returns the directory where log files should be stored,
// preferring {state_dir}/logs and falling back to the temp directory.
func LogDir() (string, error) {
	stateDir := config.Get("state_dir", "")
	if stateDir != "" {
		logDir := filepath.Join(stateDir, "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil {
			if testFileWrite(logDir) {
				return logDir, nil
			}
		}
	}
	tempBase := filepath.Join(os.TempDir(), "storefront-notify", "logs")
	if err := os.MkdirAll(tempBase, 0700); err != nil {
		return "", err
	}
	return tempBase, nil
}

// testFileWrite attempts to create a file in dir to verify write permissions.
func testFileWrite(dir string) bool {
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}
