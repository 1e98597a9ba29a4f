package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipsync/internal/clip"
	"go.klb.dev/clipsync/internal/discover"
	"go.klb.dev/clipsync/internal/grpcservice"
	"go.klb.dev/clipsync/internal/hub"
	"go.klb.dev/clipsync/internal/ipc"
)

func newSyncCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the clipboard sync daemon",
		Long: `Discovers the displays on this host and keeps their clipboards in sync
until interrupted. A control socket is opened for "clipsync get/set/status".

Precedence (lowest to highest): defaults, config file, CLIPSYNC_* env vars, flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runSync(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.Duration("interval", hub.DefaultInterval, "clipboard poll interval")
	f.Bool("no-ipc", false, "do not open the control socket")
	addDiscoveryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runSync(parent context.Context, v *viper.Viper) error {
	log := setupLogging(v)

	opts, err := discoverOptions(v, log)
	if err != nil {
		return err
	}
	cbs, err := discover.Discover(opts)
	if err != nil {
		return err
	}
	for i, c := range cbs {
		cbs[i] = clip.Traced(c, log)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("clipsync starting", "version", Version, "clipboards", len(cbs))
	h := hub.New(cbs, log)

	if !v.GetBool("no-ipc") {
		ln, err := ipc.Listen()
		switch {
		case errors.Is(err, ipc.ErrInUse):
			return fmt.Errorf("another clipsync daemon is running: %w", err)
		case err != nil:
			log.Warn("IPC socket unavailable", "err", err)
		default:
			log.Info("IPC socket listening", "path", ipc.SocketPath())
			go func() {
				if err := grpcservice.Serve(ctx, ln, grpcservice.New(h)); err != nil {
					log.Warn("IPC server failed", "err", err)
				}
			}()
		}
	}

	if err := h.Run(ctx, v.GetDuration("interval")); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("clipsync stopped")
	return nil
}
