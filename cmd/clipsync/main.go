// clipsync: keeps the clipboards of every X11 and Wayland display on this
// host in sync.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipsync/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipsync",
		Short: "Sync clipboards across X11 and Wayland displays",
		Long: `clipsync finds every X11 and Wayland display on this host, picks the
best clipboard backend for each and keeps their contents in sync.

Run "clipsync sync" once per session. Use "clipsync get/set/status" to talk to
the running daemon; without one they use the displays directly.

Config file search order (first found wins):
  /etc/clipsync/clipsync.toml
  $HOME/.config/clipsync/clipsync.toml
  path supplied via --config

All flags can be set via CLIPSYNC_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSyncCmd(),
		newGetCmd(),
		newSetCmd(),
		newListCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipsync %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
// Interactive runs default to debug, everything else to info.
func resolveLogging(interactive bool, formatStr, levelStr string) *slog.Logger {
	def := slog.LevelInfo
	if interactive {
		def = slog.LevelDebug
	}
	return logging.Setup(logging.ParseFormat(formatStr), logging.ParseLevel(levelStr, def))
}
