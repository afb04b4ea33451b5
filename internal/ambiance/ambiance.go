// Package ambiance holds the background-music and sound-effect settings
// applied during final audio assembly.
package ambiance

import (
	"errors"
	"fmt"
)

// Track is one entry of the closed music catalog. Media is the locator the
// assembler resolves when mixing the bed; the "none" entry has no media.
type Track struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Media string `json:"media,omitempty"`
}

// TrackNone disables background music and is always present in the catalog.
const TrackNone = "none"

var catalog = []Track{
	{Key: TrackNone, Name: "No music"},
	{Key: "rain", Name: "Gentle rain", Media: "beds/rain.wav"},
	{Key: "tavern", Name: "Tavern murmur", Media: "beds/tavern.wav"},
	{Key: "strings", Name: "Somber strings", Media: "beds/strings.wav"},
	{Key: "tension", Name: "Rising tension", Media: "beds/tension.wav"},
}

// ErrUnknownTrack is returned for keys outside the catalog.
var ErrUnknownTrack = errors.New("track not in catalog")

// Tracks returns a copy of the music catalog.
func Tracks() []Track {
	return append([]Track(nil), catalog...)
}

// LookupTrack resolves key to its catalog entry.
func LookupTrack(key string) (Track, error) {
	for _, t := range catalog {
		if t.Key == key {
			return t, nil
		}
	}

	return Track{}, fmt.Errorf("%w: %q", ErrUnknownTrack, key)
}

// Config is the ambiance state for one production. Volume only matters when
// TrackKey != "none"; that gating happens downstream in the assembler, never
// here.
type Config struct {
	TrackKey    string  `json:"track"`
	Volume      float64 `json:"volume"`
	GenerateSFX bool    `json:"generate_sfx"`
}

// DefaultConfig returns the settings every fresh or restored production
// starts from.
func DefaultConfig() Config {
	return Config{TrackKey: TrackNone, Volume: 0.2, GenerateSFX: true}
}

// SetMusicTrack selects a catalog track.
func (c *Config) SetMusicTrack(key string) error {
	if _, err := LookupTrack(key); err != nil {
		return err
	}

	c.TrackKey = key

	return nil
}

// SetVolume stores v clamped into [0, 1]. Out-of-range input is coerced,
// not rejected, matching slider semantics.
func (c *Config) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	c.Volume = v
}

// SetGenerateSFX toggles sound-effect rendering.
func (c *Config) SetGenerateSFX(enabled bool) {
	c.GenerateSFX = enabled
}
