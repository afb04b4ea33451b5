package script

import (
	"encoding/json"
	"fmt"
)

// Wire encoding: each element carries a "kind" tag so the closed sum type
// survives JSON round-trips. This is also the shape the script analyzer
// service is prompted to return.
const (
	kindNarration = "narration"
	kindDialogue  = "dialogue"
	kindSound     = "sound"
)

type elementJSON struct {
	Kind        string `json:"kind"`
	Character   string `json:"character,omitempty"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}

type sceneJSON struct {
	Setting  string        `json:"setting"`
	Elements []elementJSON `json:"elements"`
}

// scriptJSON leans on Scene's own codec for the element union.
type scriptJSON struct {
	Characters []string `json:"characters"`
	Scenes     []Scene  `json:"scenes"`
}

func (s Scene) MarshalJSON() ([]byte, error) {
	out := sceneJSON{Setting: s.Setting, Elements: make([]elementJSON, 0, len(s.Elements))}
	for _, el := range s.Elements {
		switch e := el.(type) {
		case Narration:
			out.Elements = append(out.Elements, elementJSON{Kind: kindNarration, Text: e.Text})
		case Dialogue:
			out.Elements = append(out.Elements, elementJSON{Kind: kindDialogue, Character: e.Character, Text: e.Text})
		case SoundCue:
			out.Elements = append(out.Elements, elementJSON{Kind: kindSound, Description: e.Description})
		default:
			return nil, fmt.Errorf("marshal scene: unknown element kind %T", el)
		}
	}

	return json.Marshal(out)
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	var raw sceneJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Setting = raw.Setting
	s.Elements = make([]Element, 0, len(raw.Elements))

	for i, el := range raw.Elements {
		switch el.Kind {
		case kindNarration:
			s.Elements = append(s.Elements, Narration{Text: el.Text})
		case kindDialogue:
			s.Elements = append(s.Elements, Dialogue{Character: el.Character, Text: el.Text})
		case kindSound:
			s.Elements = append(s.Elements, SoundCue{Description: el.Description})
		default:
			return fmt.Errorf("unmarshal scene: element %d has unknown kind %q", i, el.Kind)
		}
	}

	return nil
}

func (s Script) MarshalJSON() ([]byte, error) {
	out := scriptJSON{Characters: s.Characters, Scenes: s.Scenes}
	if out.Characters == nil {
		out.Characters = []string{}
	}
	if out.Scenes == nil {
		out.Scenes = []Scene{}
	}

	return json.Marshal(out)
}

func (s *Script) UnmarshalJSON(data []byte) error {
	var raw scriptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Characters = raw.Characters
	s.Scenes = raw.Scenes

	return nil
}
