package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebogdum/discmeta/config"
	"github.com/ebogdum/discmeta/core"
	"github.com/ebogdum/discmeta/iso9660"
	"github.com/ebogdum/discmeta/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "discmeta",
	Short: "discmeta - host file metadata for disc image authoring",
	Long: `discmeta inspects and stamps host files the way the disc image builder sees them:
open modes, stat snapshots, 64-bit sizes and ISO 9660 recording dates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show file status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

var sizeCmd = &cobra.Command{
	Use:   "size <path>",
	Short: "Print the file size in bytes",
	Args:  cobra.ExactArgs(1),
	RunE:  runSize,
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Apply an ISO 9660 recording date to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTouch,
}

var stampCmd = &cobra.Command{
	Use:   "stamp <rfc3339>",
	Short: "Print the 7-byte directory record encoding of a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runStamp,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the discmeta configuration and display the loaded settings",
	RunE:  validateConfig,
}

// errAbsent makes `stat` exit non-zero for a missing path without treating it as a failure
var errAbsent = errors.New("path is absent")

var (
	configFilePath string
	backendFlag    string
	rootFlag       string
	metricsDump    bool

	touchDate   string
	touchStamp  string
	touchCreate bool
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Override host.backend (os, billy-os, memory, none)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Override host.root")
	rootCmd.PersistentFlags().BoolVar(&metricsDump, "metrics-dump", false, "Write Prometheus metrics to stderr on exit")

	touchCmd.Flags().StringVar(&touchDate, "date", "", "RFC 3339 date, e.g. 2024-03-05T10:30:00Z")
	touchCmd.Flags().StringVar(&touchStamp, "stamp", "", "7-byte directory record date as 14 hex digits")
	touchCmd.Flags().BoolVar(&touchCreate, "create", false, "Create the file if it does not exist")
	touchCmd.MarkFlagsMutuallyExclusive("date", "stamp")
	touchCmd.MarkFlagsOneRequired("date", "stamp")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statCmd, sizeCmd, touchCmd, stampCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errAbsent) {
			os.Exit(1)
		}
		log.Fatalf("Error: %v", err)
	}
}

// withEngine loads configuration, builds the logger and engine, and runs fn
func withEngine(fn func(e *core.Engine) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		// Syncing a console logger on a terminal can fail with ENOTTY; nothing useful to do then
		_ = logger.Sync()
	}()

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}

	runErr := fn(engine)

	if metricsDump {
		if err := metrics.WriteText(os.Stderr); err != nil {
			logger.Error("Failed to write metrics", zap.Error(err))
		}
	}

	return runErr
}

func runStat(cmd *cobra.Command, args []string) error {
	return withEngine(func(e *core.Engine) error {
		st, err := e.Stat(args[0])
		if err != nil {
			return err
		}
		if st == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: absent\n", args[0])
			return errAbsent
		}
		printStatus(cmd.OutOrStdout(), args[0], st)
		return nil
	})
}

func runSize(cmd *cobra.Command, args []string) error {
	return withEngine(func(e *core.Engine) error {
		size, err := e.GetSize(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), size)
		return nil
	})
}

func runTouch(cmd *cobra.Command, args []string) error {
	date, err := parseTouchDate(touchDate, touchStamp)
	if err != nil {
		return err
	}

	return withEngine(func(e *core.Engine) error {
		return e.Touch(args[0], date, touchCreate)
	})
}

func runStamp(cmd *cobra.Command, args []string) error {
	date, err := iso9660.ParseDateStamp(args[0])
	if err != nil {
		return err
	}
	raw, err := date.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hex.EncodeToString(raw), date)
	return nil
}

// validateConfig validates the discmeta configuration and displays settings
func validateConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Validating configuration...")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Fprintln(out, "Configuration is valid")
	fmt.Fprintf(out, "Backend: %s\n", cfg.Host.Backend)
	if cfg.Host.Root != "" {
		fmt.Fprintf(out, "Root: %s\n", cfg.Host.Root)
	}
	fmt.Fprintf(out, "File permission: %#o\n", cfg.Host.Perm)
	fmt.Fprintf(out, "Timestamps: access=%t modification=%t creation=%t\n",
		cfg.Timestamps.Access, cfg.Timestamps.Modification, cfg.Timestamps.Creation)
	fmt.Fprintf(out, "Log: level=%s format=%s\n", cfg.Log.Level, cfg.Log.Format)

	return nil
}

// loadConfig loads the configuration and applies command line overrides
func loadConfig() (config.AppConfig, error) {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return config.AppConfig{}, err
	}
	if backendFlag != "" {
		cfg.Host.Backend = backendFlag
	}
	if rootFlag != "" {
		cfg.Host.Root = rootFlag
	}
	return cfg, nil
}

// initializeLogger creates a zap logger based on configuration
func initializeLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config

	if logCfg.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logCfg.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}
