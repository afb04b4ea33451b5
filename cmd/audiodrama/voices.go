package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/audiodrama/internal/voice"
	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the available voices",
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, v := range voice.Available() {
				note := ""
				switch v.ID {
				case voice.DefaultNarratorVoice:
					note = "default narrator"
				case voice.DefaultCharacterVoice:
					note = "default character"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, note)
			}
			return w.Flush()
		},
	}

	return cmd
}
