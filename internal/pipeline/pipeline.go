// Package pipeline sequences one audio-drama production: text in, script
// analysis, voice and ambiance tuning, audio assembly, and the save/resume
// snapshot. The orchestrator is the exclusive owner of the pipeline status
// and of the current script, voice, and ambiance state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/audiodrama/internal/ambiance"
	"github.com/example/audiodrama/internal/analyzer"
	"github.com/example/audiodrama/internal/assembler"
	"github.com/example/audiodrama/internal/script"
	"github.com/example/audiodrama/internal/store"
	"github.com/example/audiodrama/internal/text"
	"github.com/example/audiodrama/internal/voice"
)

var (
	// ErrEmptyText rejects empty or whitespace-only submissions.
	ErrEmptyText = text.ErrEmptyText

	// ErrBusy rejects any mutating call while analysis or production is in
	// flight. Calls are refused, never queued.
	ErrBusy = errors.New("an operation is already in progress")

	// ErrNoScript rejects production before a successful analysis.
	ErrNoScript = errors.New("no analyzed script; submit text first")
)

// Snapshotter is the persistence surface the orchestrator needs.
type Snapshotter interface {
	Save(store.Snapshot) error
	Load() (store.Snapshot, error)
	HasSavedData() bool
}

// State is a copied view of the orchestrator for presentation. Mutating it
// has no effect on the pipeline.
type State struct {
	Status        Status
	FailureReason FailureReason
	FailureDetail string
	RawText       string
	Script        *script.Script
	Voices        voice.Assignments
	Ambiance      ambiance.Config
	Artifact      *assembler.Artifact
}

// Orchestrator is the production state machine. All methods are safe for
// concurrent use; external calls run outside the lock against values
// captured at invocation time, so mid-flight edits (which are rejected
// anyway) could never corrupt a running operation's inputs.
type Orchestrator struct {
	analyzer  analyzer.Client
	assembler assembler.Client
	snapshots Snapshotter
	log       *slog.Logger

	mu         sync.Mutex
	status     Status
	failure    FailureReason
	failureMsg string
	rawText    string
	script     *script.Script
	voices     voice.Assignments
	ambiance   ambiance.Config
	artifact   *assembler.Artifact
}

// Options wires the orchestrator's collaborators. Analyzer and Assembler
// are required; Snapshots may be nil when persistence is not wanted.
type Options struct {
	Analyzer  analyzer.Client
	Assembler assembler.Client
	Snapshots Snapshotter
	Logger    *slog.Logger
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Analyzer == nil {
		return nil, errors.New("pipeline: analyzer is required")
	}
	if opts.Assembler == nil {
		return nil, errors.New("pipeline: assembler is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		analyzer:  opts.Analyzer,
		assembler: opts.Assembler,
		snapshots: opts.Snapshots,
		log:       logger,
		status:    StatusIdle,
		voices:    voice.InitializeDefaults(nil),
		ambiance:  ambiance.DefaultConfig(),
	}

	return o, nil
}

// SubmitText validates and analyzes text. Re-submitting unchanged text
// still re-runs analysis; results are never cached.
func (o *Orchestrator) SubmitText(ctx context.Context, raw string) error {
	normalized, err := text.Normalize(raw)
	if err != nil {
		return err // prior state untouched
	}

	o.mu.Lock()
	if o.status.busy() {
		o.mu.Unlock()
		return ErrBusy
	}

	// Entering analysis clears every artifact of the previous run.
	o.status = StatusAnalyzing
	o.failure = FailureNone
	o.failureMsg = ""
	o.rawText = normalized
	o.script = nil
	o.artifact = nil
	o.voices = voice.InitializeDefaults(nil)
	o.mu.Unlock()

	scr, err := o.analyzer.Analyze(ctx, normalized)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.status = StatusFailed
		o.failure = FailureAnalysis
		o.failureMsg = err.Error()
		o.log.ErrorContext(ctx, "analysis failed", slog.String("error", err.Error()))
		return err
	}

	o.script = scr
	o.voices = voice.InitializeDefaults(scr)
	o.status = StatusReady

	o.log.InfoContext(ctx, "script ready",
		slog.Int("characters", len(scr.Characters)),
		slog.Int("scenes", len(scr.Scenes)),
	)

	return nil
}

// RequestProduction assembles the current script into an audio artifact.
// It is single-flight: a call while analysis or production is running is
// rejected, and it refuses to start without an analyzed script.
func (o *Orchestrator) RequestProduction(ctx context.Context) (assembler.Artifact, error) {
	o.mu.Lock()
	if o.status.busy() {
		o.mu.Unlock()
		return assembler.Artifact{}, ErrBusy
	}
	if o.script == nil {
		o.mu.Unlock()
		return assembler.Artifact{}, ErrNoScript
	}

	o.status = StatusProducing
	o.failure = FailureNone
	o.failureMsg = ""
	o.artifact = nil

	// Captured copies: the in-flight assembly never observes later edits.
	scr := o.script.Clone()
	voices := o.voices.Clone()
	amb := o.ambiance
	o.mu.Unlock()

	artifact, err := o.assembler.Produce(ctx, scr, voices, amb)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.status = StatusFailed
		o.failure = FailureProduction
		o.failureMsg = err.Error()
		o.log.ErrorContext(ctx, "production failed", slog.String("error", err.Error()))
		return assembler.Artifact{}, err
	}

	o.artifact = &artifact
	o.status = StatusComplete

	return artifact, nil
}

// UpdateVoice rebinds one speaker's voice. Rejected while busy.
func (o *Orchestrator) UpdateVoice(character, voiceID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}

	return o.voices.Set(o.script, character, voiceID)
}

// SetMusicTrack selects the ambiance music track. Rejected while busy.
func (o *Orchestrator) SetMusicTrack(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}

	return o.ambiance.SetMusicTrack(key)
}

// SetVolume stores the clamped music volume. Rejected while busy.
func (o *Orchestrator) SetVolume(v float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}

	o.ambiance.SetVolume(v)

	return nil
}

// SetGenerateSFX toggles sound-effect rendering. Rejected while busy.
func (o *Orchestrator) SetGenerateSFX(enabled bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}

	o.ambiance.SetGenerateSFX(enabled)

	return nil
}

// Save snapshots the raw text and script. Voices, ambiance, and the
// artifact are deliberately not persisted.
func (o *Orchestrator) Save() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}
	if o.snapshots == nil {
		return errors.New("pipeline: no snapshot store configured")
	}

	return o.snapshots.Save(store.Snapshot{RawText: o.rawText, Script: o.script.Clone()})
}

// Load restores the saved snapshot, overwriting in-memory state: the script
// (if any) gets fresh default voices, ambiance resets to defaults, and any
// previously produced artifact is discarded. Rejected while busy.
func (o *Orchestrator) Load() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.busy() {
		return ErrBusy
	}
	if o.snapshots == nil {
		return errors.New("pipeline: no snapshot store configured")
	}

	snap, err := o.snapshots.Load()
	if err != nil {
		return err
	}

	o.rawText = snap.RawText
	o.script = snap.Script
	o.voices = voice.InitializeDefaults(snap.Script)
	o.ambiance = ambiance.DefaultConfig()
	o.artifact = nil
	o.failure = FailureNone
	o.failureMsg = ""

	if snap.Script != nil {
		o.status = StatusReady
	} else {
		o.status = StatusIdle
	}

	o.log.Info("snapshot restored",
		slog.Int("text_len", len(snap.RawText)),
		slog.Bool("has_script", snap.Script != nil),
	)

	return nil
}

// HasSavedData reports whether a snapshot exists to load. It never fails.
func (o *Orchestrator) HasSavedData() bool {
	if o.snapshots == nil {
		return false
	}

	return o.snapshots.HasSavedData()
}

// State returns a copied view of the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := State{
		Status:        o.status,
		FailureReason: o.failure,
		FailureDetail: o.failureMsg,
		RawText:       o.rawText,
		Script:        o.script.Clone(),
		Voices:        o.voices.Clone(),
		Ambiance:      o.ambiance,
	}
	if o.artifact != nil {
		a := *o.artifact
		st.Artifact = &a
	}

	return st
}

// Describe renders a short user-facing summary of the current status.
func (s State) Describe() string {
	switch s.Status {
	case StatusFailed:
		return fmt.Sprintf("failed during %s: %s", s.FailureReason, s.FailureDetail)
	case StatusComplete:
		if s.Artifact != nil {
			return fmt.Sprintf("complete: %s (%s)", s.Artifact.Path, s.Artifact.Duration)
		}
		return "complete"
	default:
		return s.Status.String()
	}
}
