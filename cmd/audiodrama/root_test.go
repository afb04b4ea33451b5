package main

import (
	"strings"
	"testing"

	"github.com/example/audiodrama/internal/config"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"analyze", "produce", "extract", "serve", "voices", "tracks"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config persistent flag to be registered")
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	// Zero-value config has empty Server.ListenAddr → requireConfig returns error.
	activeCfg = config.Config{}

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{
		Server: config.ServerConfig{ListenAddr: ":8870"},
	}

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.Server.ListenAddr != ":8870" {
		t.Errorf("unexpected ListenAddr: %q", got.Server.ListenAddr)
	}
}

func TestReadStoryText(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := readStoryText("from flag", "", strings.NewReader("from stdin"))
		if err != nil {
			t.Fatalf("readStoryText: %v", err)
		}
		if got != "from flag" {
			t.Errorf("got %q, want flag text", got)
		}
	})

	t.Run("stdin fallback", func(t *testing.T) {
		got, err := readStoryText("", "", strings.NewReader("from stdin"))
		if err != nil {
			t.Fatalf("readStoryText: %v", err)
		}
		if got != "from stdin" {
			t.Errorf("got %q, want stdin text", got)
		}
	})

	t.Run("empty stdin rejected", func(t *testing.T) {
		if _, err := readStoryText("", "", strings.NewReader("  \n")); err == nil {
			t.Fatal("expected error for empty input")
		}
	})
}
