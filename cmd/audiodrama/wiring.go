package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/example/audiodrama/internal/analyzer"
	"github.com/example/audiodrama/internal/assembler"
	"github.com/example/audiodrama/internal/config"
)

func buildAnalyzer(cfg config.Config) (analyzer.Client, error) {
	return analyzer.NewOpenAI(analyzer.OpenAIOptions{
		BaseURL: cfg.Analyzer.BaseURL,
		APIKey:  cfg.Analyzer.APIKey,
		Model:   cfg.Analyzer.Model,
		Timeout: time.Duration(cfg.Analyzer.TimeoutSeconds) * time.Second,
	})
}

func buildSynthesizer(cfg config.Config) (assembler.Synthesizer, error) {
	backend, err := config.NormalizeBackend(cfg.TTS.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendCLI:
		return &assembler.CLISynthesizer{
			ExecutablePath: cfg.TTS.CLIPath,
			ConfigPath:     cfg.TTS.CLIConfigPath,
			Quiet:          cfg.TTS.Quiet,
			LogWriter:      os.Stderr,
		}, nil
	case config.BackendHTTP:
		if cfg.TTS.ServerURL == "" {
			return nil, fmt.Errorf("tts.server_url is required for the http backend")
		}
		return &assembler.HTTPSynthesizer{
			BaseURL: cfg.TTS.ServerURL,
			Client:  &http.Client{Timeout: time.Duration(cfg.TTS.TimeoutSeconds) * time.Second},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

func buildAssembler(cfg config.Config, sfxEnabled bool) (*assembler.Mixdown, error) {
	synth, err := buildSynthesizer(cfg)
	if err != nil {
		return nil, err
	}

	var sfx assembler.SFXGenerator
	if sfxEnabled {
		sfx = &assembler.SpokenSFX{Synth: synth}
	}

	return assembler.NewMixdown(synth, assembler.MixdownOptions{
		SFX:           sfx,
		OutputDir:     cfg.Audio.OutputDir,
		MediaDir:      cfg.Audio.MediaDir,
		MaxChunkChars: cfg.TTS.MaxChunkChars,
	}), nil
}
