package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/audiodrama/internal/extract"
	"github.com/example/audiodrama/internal/pipeline"
	"github.com/spf13/cobra"
)

func newProduceCmd() *cobra.Command {
	var text string
	var file string
	var pdfPath string
	var voiceFlags []string
	var track string
	var volume float64
	var noSFX bool

	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Produce a finished audio drama from story text",
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

			anl, err := buildAnalyzer(cfg)
			if err != nil {
				return err
			}
			asm, err := buildAssembler(cfg, !noSFX)
			if err != nil {
				return err
			}

			orch, err := pipeline.New(pipeline.Options{
				Analyzer:  anl,
				Assembler: asm,
			})
			if err != nil {
				return err
			}

			if err := orch.SubmitText(cmd.Context(), input); err != nil {
				return err
			}

			for _, spec := range voiceFlags {
				character, voiceID, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("invalid --voice %q (want Character=voice)", spec)
				}
				if err := orch.UpdateVoice(character, voiceID); err != nil {
					return err
				}
			}

			if track != "" {
				if err := orch.SetMusicTrack(track); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("volume") {
				if err := orch.SetVolume(volume); err != nil {
					return err
				}
			}
			if noSFX {
				if err := orch.SetGenerateSFX(false); err != nil {
					return err
				}
			}

			if _, err := orch.RequestProduction(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, orch.State().Describe())
			return err
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Story text (if empty, read from --file, --pdf, or stdin)")
	cmd.Flags().StringVar(&file, "file", "", "Read story text from this file")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Extract story text from this PDF")
	cmd.Flags().StringArrayVar(&voiceFlags, "voice", nil, "Voice override as Character=voice (repeatable)")
	cmd.Flags().StringVar(&track, "music", "", "Background music track key")
	cmd.Flags().Float64Var(&volume, "volume", 0.2, "Music volume in [0,1]")
	cmd.Flags().BoolVar(&noSFX, "no-sfx", false, "Render sound cues as pauses instead of spoken lines")

	return cmd
}

func extractPDFFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	return extract.FromBytes(ctx, extract.NewPDF(), data)
}
