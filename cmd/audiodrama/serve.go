package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/audiodrama/internal/config"
	"github.com/example/audiodrama/internal/extract"
	"github.com/example/audiodrama/internal/pipeline"
	"github.com/example/audiodrama/internal/server"
	"github.com/example/audiodrama/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audio drama HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			anl, err := buildAnalyzer(cfg)
			if err != nil {
				return err
			}
			asm, err := buildAssembler(cfg, true)
			if err != nil {
				return err
			}

			var snapshots pipeline.Snapshotter
			if cfg.Store.Path != "" {
				st, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
				snapshots = st
			}

			orch, err := pipeline.New(pipeline.Options{
				Analyzer:  anl,
				Assembler: asm,
				Snapshots: snapshots,
			})
			if err != nil {
				return err
			}

			handler := server.NewHandler(orch, extract.NewPDF(),
				server.WithMaxTextBytes(cfg.Server.MaxTextBytes),
				server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
			)

			srv := server.New(cfg.Server.ListenAddr, handler).
				WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	defaults := config.DefaultConfig()
	config.RegisterFlags(cmd.Flags(), defaults)

	return cmd
}
