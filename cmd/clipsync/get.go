package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipsync/internal/logging"
)

func newGetCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print clipboard contents",
		Long: `Prints the clipboard of --display, or the last synced value when no display
is given.

If a sync daemon is running it is asked over the IPC socket. Otherwise the
displays are discovered and read directly; without --display the best ranked
clipboard is used.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runGet(v) },
	}

	f := cmd.Flags()
	f.String("display", "", "display to read, e.g. :0 or wayland-0")
	f.Bool("no-daemon", false, "do not use a running sync daemon")
	addDiscoveryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runGet(v *viper.Viper) error {
	log := setupLogging(v)
	display := v.GetString("display")

	d, ok, err := dialDaemon(!v.GetBool("no-daemon"))
	if err != nil {
		return err
	}
	var value string
	if ok {
		defer d.close()
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		value, err = d.Get(ctx, display)
	} else {
		value, err = getLocal(v, log, display)
	}
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	fmt.Print(value)
	if logging.IsTTY(os.Stdout) && value != "" && !strings.HasSuffix(value, "\n") {
		fmt.Println()
	}
	return nil
}

func getLocal(v *viper.Viper, log *slog.Logger, display string) (string, error) {
	h, err := localHub(v, log)
	if err != nil {
		return "", err
	}
	if display == "" {
		// Discover orders by rank and never returns an empty set.
		display = h.Clipboards()[0].Display
	}
	return h.Get(display)
}
