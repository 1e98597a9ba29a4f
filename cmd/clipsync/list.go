package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered displays and their clipboard backends",
		Long: `Runs discovery and prints the chosen backend for every display, with its
rank (lower is preferred) and whether the sync daemon would poll it.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	cmd.Flags().Bool("json", false, "output JSON")
	addDiscoveryFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runList(v *viper.Viper) error {
	log := setupLogging(v)
	h, err := localHub(v, log)
	if err != nil {
		return err
	}
	infos := h.Clipboards()

	if v.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "DISPLAY\tBACKEND\tRANK\tPOLL\n")
	for _, in := range infos {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", in.Display, in.Backend, in.Rank, in.Poll)
	}
	return tw.Flush()
}
