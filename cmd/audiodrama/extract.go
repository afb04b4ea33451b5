package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Extract plain text from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractPDFFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}

	return cmd
}
