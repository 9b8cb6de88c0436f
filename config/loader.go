package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. DISCMETA_HOST_BACKEND
const EnvPrefix = "DISCMETA_"

// LoadConfig loads configuration from multiple sources with strict priority:
// 1. Environment variables (highest priority)
// 2. Config file (discmeta.yaml, discmeta.yml or discmeta.json)
// 3. Defaults (lowest priority)
func LoadConfig() (AppConfig, error) {
	return LoadConfigFromFile("")
}

// LoadConfigFromFile loads configuration with a specific config file taking the place of the defaults files
func LoadConfigFromFile(configFilePath string) (AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultAppConfig(), "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load default config: %w", err)
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return AppConfig{}, fmt.Errorf("specified config file %s not found: %w", configFilePath, err)
		}
		if err := loadFile(k, configFilePath); err != nil {
			return AppConfig{}, err
		}
	} else {
		for _, configFile := range []string{"discmeta.yaml", "discmeta.yml", "discmeta.json"} {
			if _, err := os.Stat(configFile); err == nil {
				if err := loadFile(k, configFile); err != nil {
					return AppConfig{}, err
				}
				break
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		parser = yaml.Parser()
	case strings.HasSuffix(path, ".json"):
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// validateConfig validates that configuration fields hold supported values
func validateConfig(cfg *AppConfig) error {
	switch cfg.Host.Backend {
	case BackendOS, BackendBillyOS, BackendMemory, BackendNone:
	default:
		return fmt.Errorf("host.backend must be one of %q, %q, %q, %q; got %q",
			BackendOS, BackendBillyOS, BackendMemory, BackendNone, cfg.Host.Backend)
	}

	if cfg.Host.Backend == BackendBillyOS && cfg.Host.Root == "" {
		return fmt.Errorf("host.root is required for the %s backend", BackendBillyOS)
	}

	if cfg.Host.Perm > 0o777 {
		return fmt.Errorf("host.perm must be at most 0777, got %#o", cfg.Host.Perm)
	}

	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", cfg.Log.Format)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}

	return nil
}
