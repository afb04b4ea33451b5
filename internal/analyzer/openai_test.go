package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/audiodrama/internal/script"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *OpenAI {
	t.Helper()

	c, err := NewOpenAI(OpenAIOptions{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	return c
}

const validScriptJSON = `{
  "characters": ["Mira"],
  "scenes": [
    {"setting": "a pier", "elements": [
      {"kind": "narration", "text": "Fog rolled in."},
      {"kind": "dialogue", "character": "Mira", "text": "We wait."},
      {"kind": "sound", "description": "foghorn"}
    ]}
  ]
}`

func TestAnalyzeDecodesValidScript(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, validScriptJSON))
	defer srv.Close()

	scr, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(scr.Characters) != 1 || scr.Characters[0] != "Mira" {
		t.Fatalf("characters: %v", scr.Characters)
	}
	if len(scr.Scenes) != 1 || len(scr.Scenes[0].Elements) != 3 {
		t.Fatalf("scenes: %#v", scr.Scenes)
	}
	if _, ok := scr.Scenes[0].Elements[2].(script.SoundCue); !ok {
		t.Fatalf("element 2 should be a sound cue: %#v", scr.Scenes[0].Elements[2])
	}
}

func TestAnalyzeStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, "```json\n"+validScriptJSON+"\n```"))
	defer srv.Close()

	scr, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(scr.Characters) != 1 {
		t.Fatalf("characters: %v", scr.Characters)
	}
}

func TestAnalyzeRejectsUnlistedDialogueSpeaker(t *testing.T) {
	bad := `{"characters": [], "scenes": [{"setting": "x", "elements": [
		{"kind": "dialogue", "character": "Mira", "text": "hello"}
	]}]}`

	srv := httptest.NewServer(chatReply(t, bad))
	defer srv.Close()

	_, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
	if !errors.Is(err, ErrAnalysis) {
		t.Fatalf("expected ErrAnalysis, got %v", err)
	}
}

func TestAnalyzeRejectsNonJSONReply(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, "Sure! Here is your script: ..."))
	defer srv.Close()

	_, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
	if !errors.Is(err, ErrAnalysis) {
		t.Fatalf("expected ErrAnalysis, got %v", err)
	}
}

func TestAnalyzeRejectsShapelessReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"both missing", `{"foo": 1}`},
		{"missing scenes", `{"characters": ["Mira"]}`},
		{"missing characters", `{"scenes": [{"setting": "pier", "elements": []}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(chatReply(t, tc.reply))
			defer srv.Close()

			_, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
			if !errors.Is(err, ErrAnalysis) {
				t.Fatalf("expected ErrAnalysis, got %v", err)
			}
		})
	}
}

func TestAnalyzeWrapsServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Analyze(context.Background(), "some story")
	if !errors.Is(err, ErrAnalysis) {
		t.Fatalf("expected ErrAnalysis, got %v", err)
	}
}

func TestNewOpenAIRequiresBaseURLAndModel(t *testing.T) {
	if _, err := NewOpenAI(OpenAIOptions{Model: "m"}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewOpenAI(OpenAIOptions{BaseURL: "http://localhost"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}
