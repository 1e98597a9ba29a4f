package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSetCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Set clipboard contents (stdin when no text is given)",
		Long: `Writes text to the clipboard of --display, or to every clipboard when no
display is given. Without an argument the text is read from stdin.

If a sync daemon is running the write goes through it. Otherwise the displays
are discovered and written directly; X11 contents written this way may be
dropped when the command exits, since X11 clipboards are owned by the writer.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runSet(v, args) },
	}

	f := cmd.Flags()
	f.String("display", "", "display to write, e.g. :0 or wayland-0")
	f.Bool("no-daemon", false, "do not use a running sync daemon")
	addDiscoveryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runSet(v *viper.Viper, args []string) error {
	log := setupLogging(v)
	display := v.GetString("display")

	var value string
	if len(args) == 1 {
		value = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		value = string(data)
	}

	d, ok, err := dialDaemon(!v.GetBool("no-daemon"))
	if err != nil {
		return err
	}
	if ok {
		defer d.close()
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		if err := d.Set(ctx, display, value); err != nil {
			return fmt.Errorf("set: %w", err)
		}
		return nil
	}

	h, err := localHub(v, log)
	if err != nil {
		return err
	}
	if display != "" {
		if err := h.Set(display, value); err != nil {
			return fmt.Errorf("set: %w", err)
		}
		return nil
	}
	h.Publish(value, cliSource())
	return nil
}
