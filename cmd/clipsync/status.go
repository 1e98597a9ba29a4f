package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.klb.dev/clipsync/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's clipboards",
		Long: `Asks the sync daemon over the IPC socket which clipboards it manages and
where the last synced value came from.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

var errNoDaemon = errors.New("no clipsync daemon running")

func runStatus(v *viper.Viper) error {
	d, ok, err := dialDaemon(true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w on %s", errNoDaemon, ipc.SocketPath())
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	st, err := d.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if v.GetBool("json") {
		b, err := protojson.MarshalOptions{Multiline: true}.Marshal(st)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	return printStatus(st)
}

func printStatus(st *structpb.Struct) error {
	fields := st.GetFields()
	fmt.Printf("Socket:       %s\n", ipc.SocketPath())
	if src := fields["latest_source"].GetStringValue(); src != "" {
		fmt.Printf("Last synced:  from %s\n", src)
	} else {
		fmt.Printf("Last synced:  -\n")
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "DISPLAY\tBACKEND\tRANK\tPOLL\n")
	for _, item := range fields["clipboards"].GetListValue().GetValues() {
		cb := item.GetStructValue().GetFields()
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n",
			cb["display"].GetStringValue(),
			cb["backend"].GetStringValue(),
			int(cb["rank"].GetNumberValue()),
			cb["poll"].GetBoolValue(),
		)
	}
	return tw.Flush()
}
