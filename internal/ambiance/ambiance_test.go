package ambiance

import (
	"errors"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := DefaultConfig()

	if c.TrackKey != TrackNone {
		t.Fatalf("default track %q, want %q", c.TrackKey, TrackNone)
	}
	if c.Volume != 0.2 {
		t.Fatalf("default volume %v, want 0.2", c.Volume)
	}
	if !c.GenerateSFX {
		t.Fatal("sfx generation should default to enabled")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0.0},
		{0.0, 0.0},
		{0.4, 0.4},
		{1.0, 1.0},
		{1.7, 1.0},
	}

	for _, tt := range tests {
		c := DefaultConfig()
		c.SetVolume(tt.in)
		if c.Volume != tt.want {
			t.Errorf("SetVolume(%v): got %v, want %v", tt.in, c.Volume, tt.want)
		}
	}
}

func TestSetMusicTrack(t *testing.T) {
	c := DefaultConfig()

	if err := c.SetMusicTrack("rain"); err != nil {
		t.Fatalf("set known track: %v", err)
	}
	if c.TrackKey != "rain" {
		t.Fatalf("track %q, want rain", c.TrackKey)
	}

	err := c.SetMusicTrack("vuvuzela")
	if !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("expected ErrUnknownTrack, got %v", err)
	}
	if c.TrackKey != "rain" {
		t.Fatal("failed set must not change the selection")
	}
}

func TestCatalogAlwaysContainsNone(t *testing.T) {
	if _, err := LookupTrack(TrackNone); err != nil {
		t.Fatalf("catalog must contain %q: %v", TrackNone, err)
	}
}
