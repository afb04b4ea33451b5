package assembler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/example/audiodrama/internal/ambiance"
	"github.com/example/audiodrama/internal/audio"
	"github.com/example/audiodrama/internal/script"
	"github.com/example/audiodrama/internal/text"
	"github.com/example/audiodrama/internal/voice"
)

// Pause lengths between rendered pieces, in milliseconds.
const (
	elementPauseMS = 300
	scenePauseMS   = 800
	cuePauseMS     = 400
	fadeOutMS      = 1200
)

// Mixdown is the concrete assembler: it synthesizes every element in scene
// order, inserts pauses, mixes the selected music bed under the speech, and
// writes one WAV artifact.
type Mixdown struct {
	synth         Synthesizer
	sfx           SFXGenerator // nil disables cue rendering regardless of ambiance
	outputDir     string
	mediaDir      string
	maxChunkChars int
	log           *slog.Logger
}

// MixdownOptions configures a Mixdown. OutputDir is where artifacts land;
// MediaDir is the root the catalog's bed locators resolve against.
type MixdownOptions struct {
	SFX           SFXGenerator
	OutputDir     string
	MediaDir      string
	MaxChunkChars int
	Logger        *slog.Logger
}

func NewMixdown(synth Synthesizer, opts MixdownOptions) *Mixdown {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "out"
	}

	maxChunk := opts.MaxChunkChars
	if maxChunk <= 0 {
		maxChunk = 400
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Mixdown{
		synth:         synth,
		sfx:           opts.SFX,
		outputDir:     outputDir,
		mediaDir:      opts.MediaDir,
		maxChunkChars: maxChunk,
		log:           logger,
	}
}

func (m *Mixdown) Produce(ctx context.Context, scr *script.Script, voices voice.Assignments, amb ambiance.Config) (Artifact, error) {
	if scr == nil {
		return Artifact{}, fmt.Errorf("%w: no script", ErrProduction)
	}
	if !voices.IsComplete(scr) {
		return Artifact{}, ErrIncompleteVoices
	}

	start := time.Now()

	speech, err := m.renderScenes(ctx, scr, voices, amb)
	if err != nil {
		return Artifact{}, err
	}
	if len(speech) == 0 {
		return Artifact{}, fmt.Errorf("%w: script produced no audio", ErrProduction)
	}

	bed, err := m.loadBed(amb)
	if err != nil {
		return Artifact{}, err
	}
	mixed := audio.MixLoop(speech, bed, amb.Volume)
	mixed = audio.FadeOut(mixed, fadeOutMS)

	artifact, err := m.writeArtifact(mixed)
	if err != nil {
		return Artifact{}, err
	}

	m.log.InfoContext(ctx, "production complete",
		slog.String("path", artifact.Path),
		slog.Duration("audio", artifact.Duration),
		slog.Int64("render_ms", time.Since(start).Milliseconds()),
	)

	return artifact, nil
}

func (m *Mixdown) renderScenes(ctx context.Context, scr *script.Script, voices voice.Assignments, amb ambiance.Config) ([]float32, error) {
	var pieces [][]float32

	for si, scene := range scr.Scenes {
		if si > 0 {
			pieces = append(pieces, audio.Silence(scenePauseMS))
		}

		for ei, el := range scene.Elements {
			if ei > 0 {
				pieces = append(pieces, audio.Silence(elementPauseMS))
			}

			switch e := el.(type) {
			case script.Narration:
				samples, err := m.speak(ctx, e.Text, voices[voice.Narrator])
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, samples)
			case script.Dialogue:
				samples, err := m.speak(ctx, e.Text, voices[e.Character])
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, samples)
			case script.SoundCue:
				samples, err := m.renderCue(ctx, e, amb)
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, samples)
			default:
				return nil, fmt.Errorf("%w: scene %d element %d has unknown kind %T", ErrProduction, si, ei, el)
			}
		}
	}

	return audio.Concat(pieces...), nil
}

// speak synthesizes one element's text, chunking long passages at sentence
// boundaries so the synthesizer never sees oversized input.
func (m *Mixdown) speak(ctx context.Context, content, voiceID string) ([]float32, error) {
	normalized, err := text.Normalize(content)
	if err != nil {
		// Blank elements render as a short pause rather than failing the run.
		return audio.Silence(elementPauseMS), nil
	}

	var pieces [][]float32
	for _, chunk := range text.ChunkBySentence(normalized, m.maxChunkChars) {
		samples, err := m.synth.Synthesize(ctx, chunk, voiceID)
		if err != nil {
			return nil, fmt.Errorf("%w: synthesize %q voice %q: %v", ErrProduction, truncate(chunk, 40), voiceID, err)
		}
		pieces = append(pieces, samples)
	}

	return audio.Concat(pieces...), nil
}

// renderCue renders a sound cue through the SFX generator when enabled,
// otherwise a fixed-length pause stands in for the effect.
func (m *Mixdown) renderCue(ctx context.Context, cue script.SoundCue, amb ambiance.Config) ([]float32, error) {
	if !amb.GenerateSFX || m.sfx == nil {
		return audio.Silence(cuePauseMS), nil
	}

	samples, err := m.sfx.GenerateSFX(ctx, cue.Description)
	if err != nil {
		return nil, fmt.Errorf("%w: sound cue %q: %v", ErrProduction, truncate(cue.Description, 40), err)
	}

	return samples, nil
}

// loadBed resolves and decodes the selected music track. Track "none"
// yields no bed, which leaves the speech unmixed whatever the volume.
func (m *Mixdown) loadBed(amb ambiance.Config) ([]float32, error) {
	track, err := ambiance.LookupTrack(amb.TrackKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProduction, err)
	}
	if track.Key == ambiance.TrackNone || track.Media == "" {
		return nil, nil
	}

	path := track.Media
	if m.mediaDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(m.mediaDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read music bed: %v", ErrProduction, err)
	}

	bed, err := audio.DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode music bed %q: %v", ErrProduction, track.Key, err)
	}

	return bed, nil
}

func (m *Mixdown) writeArtifact(samples []float32) (Artifact, error) {
	data, err := audio.EncodeWAV(samples)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: encode artifact: %v", ErrProduction, err)
	}

	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("%w: create output dir: %v", ErrProduction, err)
	}

	path := filepath.Join(m.outputDir, fmt.Sprintf("drama_%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("%w: write artifact: %v", ErrProduction, err)
	}

	duration := time.Duration(len(samples)) * time.Second / audio.SampleRate

	return Artifact{Path: path, Duration: duration}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
