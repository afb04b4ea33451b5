// Package testutil provides shared skip and assertion helpers for tests
// that touch real synthesis binaries or produced WAV artifacts.
package testutil

import (
	"os"
	"os/exec"
	"testing"
)

// RequirePocketTTS skips the test if the pocket-tts binary is not found in
// PATH or the path given by the AUDIODRAMA_TTS_CLI_PATH environment variable.
func RequirePocketTTS(tb testing.TB) {
	tb.Helper()

	exe := os.Getenv("AUDIODRAMA_TTS_CLI_PATH")
	if exe == "" {
		exe = "pocket-tts"
	}

	_, err := exec.LookPath(exe)
	if err != nil {
		tb.Skipf("pocket-tts binary not available (%q not in PATH); set AUDIODRAMA_TTS_CLI_PATH to override", exe)
	}
}

// RequireAnalyzerKey skips the test if no analyzer API key is configured in
// the environment.
func RequireAnalyzerKey(tb testing.TB) {
	tb.Helper()

	if os.Getenv("AUDIODRAMA_ANALYZER_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") == "" {
		tb.Skip("analyzer API key not set; set AUDIODRAMA_ANALYZER_API_KEY or OPENAI_API_KEY")
	}
}
