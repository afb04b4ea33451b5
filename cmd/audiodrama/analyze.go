package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var text string
	var file string
	var pdfPath string
	var out string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze story text into a structured script",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			var input string
			if pdfPath != "" {
				input, err = extractPDFFile(cmd.Context(), pdfPath)
			} else {
				input, err = readStoryText(text, file, os.Stdin)
			}
			if err != nil {
				return err
			}

			client, err := buildAnalyzer(cfg)
			if err != nil {
				return err
			}

			scr, err := client.Analyze(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(scr)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Story text (if empty, read from --file, --pdf, or stdin)")
	cmd.Flags().StringVar(&file, "file", "", "Read story text from this file")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Extract story text from this PDF")
	cmd.Flags().StringVar(&out, "out", "", "Write the script JSON to this file ('-' for stdout)")

	return cmd
}

// readStoryText resolves the story input: the --text flag wins, then --file,
// then stdin.
func readStoryText(text, file string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read story file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no story text: pass --text, --file, or pipe text on stdin")
	}
	return string(data), nil
}
