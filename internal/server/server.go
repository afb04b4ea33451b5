// Package server exposes the production pipeline over HTTP: submit text or
// a document, tune voices and ambiance, trigger production, and fetch the
// finished artifact.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/audiodrama/internal/ambiance"
	"github.com/example/audiodrama/internal/analyzer"
	"github.com/example/audiodrama/internal/assembler"
	"github.com/example/audiodrama/internal/extract"
	"github.com/example/audiodrama/internal/pipeline"
	"github.com/example/audiodrama/internal/store"
	"github.com/example/audiodrama/internal/voice"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Pipeline is the orchestrator surface the handler needs.
type Pipeline interface {
	SubmitText(ctx context.Context, text string) error
	RequestProduction(ctx context.Context) (assembler.Artifact, error)
	UpdateVoice(character, voiceID string) error
	SetMusicTrack(key string) error
	SetVolume(v float64) error
	SetGenerateSFX(enabled bool) error
	Save() error
	Load() error
	HasSavedData() bool
	State() pipeline.State
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	maxUploadBytes int
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   65536,
		maxUploadBytes: 16 << 20,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed story text length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithMaxUploadBytes sets the maximum allowed document upload size.
func WithMaxUploadBytes(n int) Option {
	return func(o *options) { o.maxUploadBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	pipe      Pipeline
	extractor extract.Extractor
	opts      options
	log       *slog.Logger
}

// NewHandler returns the pipeline HTTP handler. extractor may be nil, which
// disables the document upload endpoint.
func NewHandler(pipe Pipeline, extractor extract.Extractor, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		pipe:      pipe,
		extractor: extractor,
		opts:      opts,
		log:       opts.logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /status", h.handleStatus)
	mux.HandleFunc("POST /text", h.handleText)
	mux.HandleFunc("POST /document", h.handleDocument)
	mux.HandleFunc("POST /produce", h.handleProduce)
	mux.HandleFunc("GET /script", h.handleScript)
	mux.HandleFunc("GET /voices", h.handleVoices)
	mux.HandleFunc("PUT /voices/{character}", h.handleSetVoice)
	mux.HandleFunc("GET /tracks", h.handleTracks)
	mux.HandleFunc("PUT /ambiance", h.handleAmbiance)
	mux.HandleFunc("POST /save", h.handleSave)
	mux.HandleFunc("POST /load", h.handleLoad)
	mux.HandleFunc("GET /artifact", h.handleArtifact)

	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type statusResponse struct {
	Status        string              `json:"status"`
	FailureReason string              `json:"failure_reason,omitempty"`
	FailureDetail string              `json:"failure_detail,omitempty"`
	HasScript     bool                `json:"has_script"`
	Characters    []string            `json:"characters,omitempty"`
	Voices        voice.Assignments   `json:"voices,omitempty"`
	Ambiance      ambiance.Config     `json:"ambiance"`
	Artifact      *assembler.Artifact `json:"artifact,omitempty"`
	HasSavedData  bool                `json:"has_saved_data"`
}

func (h *handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := h.pipe.State()

	resp := statusResponse{
		Status:        st.Status.String(),
		FailureDetail: st.FailureDetail,
		HasScript:     st.Script != nil,
		Voices:        st.Voices,
		Ambiance:      st.Ambiance,
		Artifact:      st.Artifact,
		HasSavedData:  h.pipe.HasSavedData(),
	}
	if st.FailureReason != pipeline.FailureNone {
		resp.FailureReason = st.FailureReason.String()
	}
	if st.Script != nil {
		resp.Characters = st.Script.Characters
	}

	writeJSON(w, http.StatusOK, resp)
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *handler) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, int64(h.opts.maxTextBytes)+1)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	h.submit(w, r, req.Text)
}

func (h *handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	if h.extractor == nil {
		writeError(w, http.StatusNotImplemented, "document upload is not configured")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, int64(h.opts.maxUploadBytes)+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if len(data) > h.opts.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("document exceeds maximum size of %d bytes", h.opts.maxUploadBytes))
		return
	}

	extracted, err := extract.FromBytes(r.Context(), h.extractor, data)
	if err != nil {
		var pageErr *extract.PageError
		switch {
		case errors.As(err, &pageErr):
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("failed to read page %d of the document", pageErr.Page+1))
		case errors.Is(err, extract.ErrExtraction):
			writeError(w, http.StatusUnprocessableEntity, "document could not be parsed")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.submit(w, r, extracted)
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request, textContent string) {
	start := time.Now()
	err := h.pipe.SubmitText(r.Context(), textContent)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyText):
			writeError(w, http.StatusUnprocessableEntity, "text is empty")
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, analyzer.ErrAnalysis):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	st := h.pipe.State()
	h.log.InfoContext(r.Context(), "text analyzed",
		slog.Int("text_len", len(textContent)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	resp := map[string]any{"status": st.Status.String()}
	// A concurrent load can replace the script between SubmitText returning
	// and the state read; report only what is actually there now.
	if st.Script != nil {
		resp["characters"] = st.Script.Characters
		resp["scenes"] = len(st.Script.Scenes)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleProduce(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	artifact, err := h.pipe.RequestProduction(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, pipeline.ErrNoScript):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, assembler.ErrIncompleteVoices):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, assembler.ErrProduction):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.log.InfoContext(r.Context(), "production complete",
		slog.String("path", artifact.Path),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	writeJSON(w, http.StatusOK, artifact)
}

func (h *handler) handleScript(w http.ResponseWriter, _ *http.Request) {
	st := h.pipe.State()
	if st.Script == nil {
		writeError(w, http.StatusNotFound, "no script; submit text first")
		return
	}

	writeJSON(w, http.StatusOK, st.Script)
}

func (h *handler) handleVoices(w http.ResponseWriter, _ *http.Request) {
	st := h.pipe.State()

	writeJSON(w, http.StatusOK, map[string]any{
		"available":   voice.Available(),
		"assignments": st.Voices,
	})
}

type setVoiceRequest struct {
	Voice string `json:"voice"`
}

func (h *handler) handleSetVoice(w http.ResponseWriter, r *http.Request) {
	character := r.PathValue("character")

	var req setVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := h.pipe.UpdateVoice(character, req.Voice); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, voice.ErrUnknownCharacter), errors.Is(err, voice.ErrInvalidVoice):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, h.pipe.State().Voices)
}

func (h *handler) handleTracks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ambiance.Tracks())
}

type ambianceRequest struct {
	Track       *string  `json:"track,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	GenerateSFX *bool    `json:"generate_sfx,omitempty"`
}

func (h *handler) handleAmbiance(w http.ResponseWriter, r *http.Request) {
	var req ambianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	apply := func(err error) bool {
		if err == nil {
			return true
		}
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ambiance.ErrUnknownTrack):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return false
	}

	if req.Track != nil && !apply(h.pipe.SetMusicTrack(*req.Track)) {
		return
	}
	if req.Volume != nil && !apply(h.pipe.SetVolume(*req.Volume)) {
		return
	}
	if req.GenerateSFX != nil && !apply(h.pipe.SetGenerateSFX(*req.GenerateSFX)) {
		return
	}

	writeJSON(w, http.StatusOK, h.pipe.State().Ambiance)
}

func (h *handler) handleSave(w http.ResponseWriter, _ *http.Request) {
	if err := h.pipe.Save(); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, store.ErrNothingToSave):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *handler) handleLoad(w http.ResponseWriter, _ *http.Request) {
	if err := h.pipe.Load(); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, store.ErrNoSavedData):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, store.ErrCorruptData):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	st := h.pipe.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     st.Status.String(),
		"has_script": st.Script != nil,
	})
}

func (h *handler) handleArtifact(w http.ResponseWriter, r *http.Request) {
	st := h.pipe.State()
	if st.Artifact == nil {
		writeError(w, http.StatusNotFound, "no produced audio; run production first")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, st.Artifact.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server: wires the handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
}

func New(addr string, h http.Handler) *Server {
	return &Server{
		addr:            addr,
		handler:         h,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}
