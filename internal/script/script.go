// Package script defines the structured representation of a dramatized
// story: an ordered sequence of scenes, each holding narration, dialogue,
// and sound cues in playback order.
package script

import (
	"errors"
	"fmt"
	"strings"
)

// Element is one entry of a scene, in playback order. The set of element
// kinds is closed: Narration, Dialogue, and SoundCue. Consumers switch
// exhaustively over the concrete types.
type Element interface {
	isElement()
}

// Narration is text spoken by the implicit narrator.
type Narration struct {
	Text string
}

// Dialogue is a line spoken by a named character.
type Dialogue struct {
	Character string
	Text      string
}

// SoundCue describes a sound effect to render at this point in the scene.
type SoundCue struct {
	Description string
}

func (Narration) isElement() {}
func (Dialogue) isElement()  {}
func (SoundCue) isElement()  {}

// Scene is one setting plus its ordered narrative elements.
// An empty element list is legal.
type Scene struct {
	Setting  string
	Elements []Element
}

// Script is a full dramatized script. Characters lists every named speaking
// role exactly once; the narrator is implicit and never listed. Scene order
// is playback order.
type Script struct {
	Characters []string
	Scenes     []Scene
}

// ErrInvalidScript is the base error for scripts violating the data-model
// shape (missing characters, unlisted dialogue speakers, blank entries).
var ErrInvalidScript = errors.New("invalid script")

// Validate checks the structural invariants: the character list holds
// unique non-blank names, and every dialogue line references a listed
// character.
func (s *Script) Validate() error {
	seen := make(map[string]struct{}, len(s.Characters))
	for _, c := range s.Characters {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: blank character name", ErrInvalidScript)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate character %q", ErrInvalidScript, c)
		}
		seen[c] = struct{}{}
	}

	for si, scene := range s.Scenes {
		for ei, el := range scene.Elements {
			switch e := el.(type) {
			case Narration, SoundCue:
				// no cross-references to check
			case Dialogue:
				if _, ok := seen[e.Character]; !ok {
					return fmt.Errorf("%w: scene %d element %d: dialogue speaker %q not in character list",
						ErrInvalidScript, si, ei, e.Character)
				}
			case nil:
				return fmt.Errorf("%w: scene %d element %d is nil", ErrInvalidScript, si, ei)
			default:
				return fmt.Errorf("%w: scene %d element %d has unknown kind %T", ErrInvalidScript, si, ei, el)
			}
		}
	}

	return nil
}

// Clone returns a deep copy. The orchestrator hands clones to external
// clients so an in-flight operation never observes later edits.
func (s *Script) Clone() *Script {
	if s == nil {
		return nil
	}

	out := &Script{
		Characters: append([]string(nil), s.Characters...),
		Scenes:     make([]Scene, len(s.Scenes)),
	}
	for i, scene := range s.Scenes {
		out.Scenes[i] = Scene{
			Setting:  scene.Setting,
			Elements: append([]Element(nil), scene.Elements...),
		}
	}

	return out
}
