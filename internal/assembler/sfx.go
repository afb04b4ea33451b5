package assembler

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/audiodrama/internal/voice"
)

// SpokenSFX renders sound cues as spoken cue lines through a synthesizer,
// radio-drama style. Voice defaults to the narrator voice.
type SpokenSFX struct {
	Synth Synthesizer
	Voice string
}

func (s *SpokenSFX) GenerateSFX(ctx context.Context, description string) ([]float32, error) {
	v := s.Voice
	if v == "" {
		v = voice.DefaultNarratorVoice
	}

	line := fmt.Sprintf("Sound: %s.", strings.TrimRight(strings.TrimSpace(description), "."))

	return s.Synth.Synthesize(ctx, line, v)
}
