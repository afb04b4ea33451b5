// Package voice holds the fixed catalog of synthesized voices and the
// per-character voice assignments for one production.
package voice

import (
	"errors"
	"fmt"

	"github.com/example/audiodrama/internal/script"
)

// Narrator is the synthetic speaker identifier for narration. It is never
// listed in a script's character set but always participates.
const Narrator = "Narrator"

// Voice is one entry of the closed catalog of available synthesized voices.
type Voice struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
}

// The catalog is fixed: every character must resolve to one of these IDs.
var catalog = []Voice{
	{ID: "aria", Name: "Aria", Style: "warm female"},
	{ID: "baritone", Name: "Baritone", Style: "deep male"},
	{ID: "sage", Name: "Sage", Style: "measured neutral"},
	{ID: "ember", Name: "Ember", Style: "bright female"},
	{ID: "gravel", Name: "Gravel", Style: "rough male"},
}

// Default bindings applied whenever a fresh script arrives or a snapshot is
// restored. The two constants are deliberately distinct so narration is
// audibly separate from dialogue out of the box.
const (
	DefaultNarratorVoice  = "sage"
	DefaultCharacterVoice = "aria"
)

var (
	ErrUnknownCharacter = errors.New("character not in script")
	ErrInvalidVoice     = errors.New("voice not in catalog")
)

// Available returns a copy of the voice catalog.
func Available() []Voice {
	return append([]Voice(nil), catalog...)
}

// IsAvailable reports whether id names a catalog voice.
func IsAvailable(id string) bool {
	for _, v := range catalog {
		if v.ID == id {
			return true
		}
	}

	return false
}

// Assignments maps speaker identifiers (the Narrator plus every script
// character) to catalog voice IDs.
type Assignments map[string]string

// InitializeDefaults builds a complete assignment map for scr: the Narrator
// bound to DefaultNarratorVoice and every listed character bound to
// DefaultCharacterVoice.
func InitializeDefaults(scr *script.Script) Assignments {
	a := Assignments{Narrator: DefaultNarratorVoice}
	if scr == nil {
		return a
	}

	for _, c := range scr.Characters {
		a[c] = DefaultCharacterVoice
	}

	return a
}

// Set binds character to voiceID. The character must be the Narrator or a
// member of scr's character set, and voiceID must name a catalog voice.
func (a Assignments) Set(scr *script.Script, character, voiceID string) error {
	if !IsAvailable(voiceID) {
		return fmt.Errorf("%w: %q", ErrInvalidVoice, voiceID)
	}

	if character != Narrator {
		known := false
		if scr != nil {
			for _, c := range scr.Characters {
				if c == character {
					known = true
					break
				}
			}
		}
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownCharacter, character)
		}
	}

	a[character] = voiceID

	return nil
}

// IsComplete reports whether every speaker of scr (Narrator included) has a
// voice bound. Production must refuse to start otherwise.
func (a Assignments) IsComplete(scr *script.Script) bool {
	if _, ok := a[Narrator]; !ok {
		return false
	}
	if scr == nil {
		return true
	}

	for _, c := range scr.Characters {
		if _, ok := a[c]; !ok {
			return false
		}
	}

	return true
}

// Clone returns an independent copy for handing to an in-flight production.
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for k, v := range a {
		out[k] = v
	}

	return out
}
