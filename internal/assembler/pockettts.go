package assembler

import (
	"context"
	"fmt"
	"io"

	pockettts "github.com/cwbudde/go-call-pocket-tts"

	"github.com/example/audiodrama/internal/audio"
)

// CLISynthesizer runs the pocket-tts CLI as a subprocess for each chunk.
// Catalog voice IDs are mapped to pocket-tts voice names (or .safetensors
// paths) through Voices; unmapped IDs are passed through as-is.
type CLISynthesizer struct {
	ExecutablePath string
	ConfigPath     string
	Quiet          bool
	Voices         map[string]string
	LogWriter      io.Writer
}

func (c *CLISynthesizer) Synthesize(ctx context.Context, content, voiceID string) ([]float32, error) {
	v := voiceID
	if mapped, ok := c.Voices[voiceID]; ok {
		v = mapped
	}

	result, err := pockettts.Generate(ctx, content, &pockettts.Options{
		Voice:          v,
		Config:         c.ConfigPath,
		Quiet:          c.Quiet,
		ExecutablePath: c.ExecutablePath,
		LogWriter:      c.LogWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("pocket-tts generate: %w", err)
	}

	return audio.DecodeWAV(result.Data)
}
