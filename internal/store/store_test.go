package store

import (
	"errors"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/example/audiodrama/internal/script"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "production.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	scr := &script.Script{
		Characters: []string{"Mira"},
		Scenes: []script.Scene{
			{Setting: "a pier", Elements: []script.Element{
				script.Narration{Text: "Fog rolled in."},
				script.Dialogue{Character: "Mira", Text: "We wait."},
			}},
		},
	}

	err := s.Save(Snapshot{RawText: "Fog rolled in. Mira said: we wait.", Script: scr})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.RawText != "Fog rolled in. Mira said: we wait." {
		t.Fatalf("raw text not preserved: %q", got.RawText)
	}
	if got.Script == nil || len(got.Script.Characters) != 1 || got.Script.Characters[0] != "Mira" {
		t.Fatalf("characters not preserved: %#v", got.Script)
	}
	if len(got.Script.Scenes) != 1 || len(got.Script.Scenes[0].Elements) != 2 {
		t.Fatalf("scenes not preserved: %#v", got.Script)
	}
	if d, ok := got.Script.Scenes[0].Elements[1].(script.Dialogue); !ok || d.Text != "We wait." {
		t.Fatalf("element order or content lost: %#v", got.Script.Scenes[0].Elements)
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(Snapshot{RawText: "first"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(Snapshot{RawText: "second"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.RawText != "second" {
		t.Fatalf("expected latest snapshot, got %q", got.RawText)
	}
}

func TestSaveRejectsEmptySnapshot(t *testing.T) {
	s := openTestStore(t)

	err := s.Save(Snapshot{})
	if !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
}

func TestLoadWithoutSaveFails(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load()
	if !errors.Is(err, ErrNoSavedData) {
		t.Fatalf("expected ErrNoSavedData, got %v", err)
	}
}

func TestLoadDetectsCorruptData(t *testing.T) {
	s := openTestStore(t)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("plant corrupt payload: %v", err)
	}

	_, err = s.Load()
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
}

func TestHasSavedData(t *testing.T) {
	s := openTestStore(t)

	if s.HasSavedData() {
		t.Fatal("fresh store should report no saved data")
	}

	if err := s.Save(Snapshot{RawText: "hello"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if !s.HasSavedData() {
		t.Fatal("store should report saved data after save")
	}
}
