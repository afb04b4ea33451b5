package script

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func sampleScript() *Script {
	return &Script{
		Characters: []string{"Mira", "Jonas"},
		Scenes: []Scene{
			{
				Setting: "A lighthouse at dusk",
				Elements: []Element{
					Narration{Text: "The lamp had gone dark an hour ago."},
					SoundCue{Description: "waves crashing against rocks"},
					Dialogue{Character: "Mira", Text: "Hand me the matches."},
					Dialogue{Character: "Jonas", Text: "There are no matches left."},
				},
			},
			{
				Setting: "Inside the lamp room",
				Elements: []Element{
					Narration{Text: "They climbed in silence."},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormedScript(t *testing.T) {
	if err := sampleScript().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsUnlistedSpeaker(t *testing.T) {
	s := sampleScript()
	s.Scenes[0].Elements = append(s.Scenes[0].Elements, Dialogue{Character: "Ghost", Text: "Boo."})

	err := s.Validate()
	if !errors.Is(err, ErrInvalidScript) {
		t.Fatalf("expected ErrInvalidScript, got %v", err)
	}
	if !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("error should name the speaker: %v", err)
	}
}

func TestValidateRejectsDuplicateAndBlankCharacters(t *testing.T) {
	dup := &Script{Characters: []string{"Mira", "Mira"}}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidScript) {
		t.Fatalf("duplicate characters: expected ErrInvalidScript, got %v", err)
	}

	blank := &Script{Characters: []string{"  "}}
	if err := blank.Validate(); !errors.Is(err, ErrInvalidScript) {
		t.Fatalf("blank character: expected ErrInvalidScript, got %v", err)
	}
}

func TestValidateAllowsEmptyScenes(t *testing.T) {
	s := &Script{Characters: []string{"Mira"}, Scenes: []Scene{{Setting: "nowhere"}}}
	if err := s.Validate(); err != nil {
		t.Fatalf("empty element list should be legal: %v", err)
	}
}

func TestJSONRoundTripPreservesOrderAndKinds(t *testing.T) {
	orig := sampleScript()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Script
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(got.Characters) != 2 || got.Characters[0] != "Mira" || got.Characters[1] != "Jonas" {
		t.Fatalf("characters not preserved: %v", got.Characters)
	}
	if len(got.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(got.Scenes))
	}

	first := got.Scenes[0]
	if first.Setting != "A lighthouse at dusk" {
		t.Fatalf("setting not preserved: %q", first.Setting)
	}
	if len(first.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(first.Elements))
	}

	if n, ok := first.Elements[0].(Narration); !ok || n.Text != "The lamp had gone dark an hour ago." {
		t.Fatalf("element 0: %#v", first.Elements[0])
	}
	if c, ok := first.Elements[1].(SoundCue); !ok || c.Description != "waves crashing against rocks" {
		t.Fatalf("element 1: %#v", first.Elements[1])
	}
	if d, ok := first.Elements[2].(Dialogue); !ok || d.Character != "Mira" {
		t.Fatalf("element 2: %#v", first.Elements[2])
	}
}

func TestUnmarshalRejectsUnknownElementKind(t *testing.T) {
	payload := `{"characters":[],"scenes":[{"setting":"x","elements":[{"kind":"applause"}]}]}`

	var got Script
	err := json.Unmarshal([]byte(payload), &got)
	if err == nil {
		t.Fatal("expected error for unknown element kind")
	}
	if !strings.Contains(err.Error(), "applause") {
		t.Fatalf("error should name the kind: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := sampleScript()
	cp := orig.Clone()

	cp.Characters[0] = "Renamed"
	cp.Scenes[0].Elements[0] = Narration{Text: "changed"}

	if orig.Characters[0] != "Mira" {
		t.Fatal("clone shares the character slice")
	}
	if n := orig.Scenes[0].Elements[0].(Narration); n.Text != "The lamp had gone dark an hour ago." {
		t.Fatal("clone shares the element slice")
	}
}
