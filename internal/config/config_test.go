package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

type fakeCmd struct {
	fs *pflag.FlagSet
}

func (f *fakeCmd) Flags() *pflag.FlagSet { return f.fs }

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("log level %q, want info", cfg.LogLevel)
	}
	if cfg.Analyzer.Model != "gpt-4o-mini" {
		t.Errorf("analyzer model %q", cfg.Analyzer.Model)
	}
	if cfg.Store.Path != "production.db" {
		t.Errorf("store path %q", cfg.Store.Path)
	}
	if cfg.Server.ListenAddr != ":8870" {
		t.Errorf("listen addr %q", cfg.Server.ListenAddr)
	}
	if !cfg.TTS.Quiet {
		t.Error("tts quiet should default to true")
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audiodrama.yaml")

	content := `
log_level: debug
analyzer:
  model: local-llama
tts:
  backend: http
  server_url: http://tts:9999
audio:
  output_dir: /tmp/dramas
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log level %q", cfg.LogLevel)
	}
	if cfg.Analyzer.Model != "local-llama" {
		t.Errorf("analyzer model %q", cfg.Analyzer.Model)
	}
	if cfg.TTS.Backend != "http" || cfg.TTS.ServerURL != "http://tts:9999" {
		t.Errorf("tts config %+v", cfg.TTS)
	}
	if cfg.Audio.OutputDir != "/tmp/dramas" {
		t.Errorf("output dir %q", cfg.Audio.OutputDir)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Path != "production.db" {
		t.Errorf("store path %q", cfg.Store.Path)
	}
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: "/does/not/exist.yaml", Defaults: DefaultConfig()})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestFlagsOverrideDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())

	if err := fs.Parse([]string{"--analyzer-model", "mixtral", "--server-listen-addr", ":9000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: &fakeCmd{fs: fs}, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Analyzer.Model != "mixtral" {
		t.Errorf("analyzer model %q, want mixtral", cfg.Analyzer.Model)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("listen addr %q, want :9000", cfg.Server.ListenAddr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUDIODRAMA_LOG_LEVEL", "warn")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("log level %q, want warn", cfg.LogLevel)
	}
	if cfg.Analyzer.APIKey != "sk-from-env" {
		t.Errorf("api key %q, want sk-from-env", cfg.Analyzer.APIKey)
	}
}

func TestNormalizeBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", BackendCLI, false},
		{"cli", BackendCLI, false},
		{"HTTP", BackendHTTP, false},
		{" http ", BackendHTTP, false},
		{"onnx", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeBackend(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeBackend(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeBackend(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
