package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipsync/internal/discover"
	"go.klb.dev/clipsync/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPSYNC_* env var prefix.
//
// Precedence (lowest to highest): defaults, config file, CLIPSYNC_* env vars, flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipsync")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipsync/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clipsync"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info, debug when interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addDiscoveryFlags adds the flags that control which displays and backends
// are used.
func addDiscoveryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("wayland", nil, "Wayland display to use in addition to the discovered ones (repeatable)")
	f.StringSlice("x11", nil, "X11 display to use in addition to the discovered ones (repeatable)")
	f.Bool("no-discover", false, "only use displays given with --wayland/--x11")
	f.Bool("generic", false, "also consider the generic clipboard backend for Wayland displays")
	f.String("paste-cmd", "wl-paste", "wl-paste executable")
	f.String("copy-cmd", "wl-copy", "wl-copy executable")
	f.StringArray("hybrid", nil, `read one display, write another: "getter=:0,setter=wayland-0" (repeatable)`)
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) *slog.Logger {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	return resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

// discoverOptions builds discovery options from the flags added by
// addDiscoveryFlags.
func discoverOptions(v *viper.Viper, log *slog.Logger) (discover.Options, error) {
	hybrids, err := discover.ParseHybrids(v.GetStringSlice("hybrid"))
	if err != nil {
		return discover.Options{}, err
	}
	return discover.Options{
		Wayland:  v.GetStringSlice("wayland"),
		X11:      v.GetStringSlice("x11"),
		NoScan:   v.GetBool("no-discover"),
		Generic:  v.GetBool("generic"),
		PasteCmd: v.GetString("paste-cmd"),
		CopyCmd:  v.GetString("copy-cmd"),
		Hybrids:  hybrids,
		Logger:   log,
	}, nil
}
