package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/audiodrama/internal/ambiance"
	"github.com/spf13/cobra"
)

func newTracksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List the available music tracks",
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, tr := range ambiance.Tracks() {
				fmt.Fprintf(w, "%s\t%s\n", tr.Key, tr.Name)
			}
			return w.Flush()
		},
	}

	return cmd
}
