package config

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Host: HostConfig{
			Backend: BackendOS,
			Root:    "",
			Perm:    0o644,
		},
		Timestamps: TimestampConfig{
			Access:       true,
			Modification: true,
			Creation:     false,
		},
	}
}
