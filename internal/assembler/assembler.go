// Package assembler renders a dramatized script into one mixed audio
// artifact: per-element speech synthesis, sound cues, and an optional
// looped music bed at the configured volume.
package assembler

import (
	"context"
	"errors"
	"time"

	"github.com/example/audiodrama/internal/ambiance"
	"github.com/example/audiodrama/internal/script"
	"github.com/example/audiodrama/internal/voice"
)

var (
	// ErrProduction covers every assembly failure: synthesis errors,
	// unreadable music beds, and artifact write failures.
	ErrProduction = errors.New("audio production failed")

	// ErrIncompleteVoices is returned before any external call when the
	// voice map does not cover the narrator and every script character.
	ErrIncompleteVoices = errors.New("voice assignments are incomplete")
)

// Artifact references one produced audio file.
type Artifact struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
}

// Client produces an audio artifact from a complete script, a complete
// voice map, and an ambiance configuration.
type Client interface {
	Produce(ctx context.Context, scr *script.Script, voices voice.Assignments, amb ambiance.Config) (Artifact, error)
}

// Synthesizer turns one chunk of text spoken in one catalog voice into
// float32 PCM samples at the working sample rate.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]float32, error)
}

// SFXGenerator renders a sound-cue description into PCM samples. It is only
// consulted when ambiance has sound-effect generation enabled.
type SFXGenerator interface {
	GenerateSFX(ctx context.Context, description string) ([]float32, error)
}
