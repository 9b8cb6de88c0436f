// Package config provides configuration management for discmeta.
// It handles loading and validating configuration from YAML/JSON files and environment variables.
package config

// AppConfig represents the complete application configuration
type AppConfig struct {
	Log        LogConfig       `koanf:"log"`
	Host       HostConfig      `koanf:"host"`
	Timestamps TimestampConfig `koanf:"timestamps"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// HostConfig selects and configures the file metadata backend
type HostConfig struct {
	Backend string `koanf:"backend"` // "os", "billy-os", "memory" or "none"
	Root    string `koanf:"root"`    // Confines paths beneath it; empty means host paths as given
	Perm    uint32 `koanf:"perm"`    // Permission for files created by open
}

// TimestampConfig selects which host times a timestamp update writes
type TimestampConfig struct {
	Access       bool `koanf:"access"`
	Modification bool `koanf:"modification"`
	Creation     bool `koanf:"creation"` // Honored on windows only
}

// Backend names
const (
	BackendOS      = "os"
	BackendBillyOS = "billy-os"
	BackendMemory  = "memory"
	BackendNone    = "none"
)
