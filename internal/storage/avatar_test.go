package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsguild/warboard/internal/models"
)

func newTestStore(t *testing.T, maxBytes int64) (*DiskStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	defaults := t.TempDir()
	for _, name := range []string{"alliance.png", "horde.png"} {
		if err := os.WriteFile(filepath.Join(defaults, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("write default %s: %v", name, err)
		}
	}
	store, err := NewDiskStore(dir, defaults, maxBytes)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, dir, defaults
}

func TestSaveAndResolve(t *testing.T) {
	store, dir, _ := newTestStore(t, 64)

	ext, err := store.Save(7, models.AvatarPNG, strings.NewReader("imagedata"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ext != models.AvatarPNG {
		t.Fatalf("expected png, got %q", ext)
	}

	want := filepath.Join(dir, "7.png")
	if got := store.Resolve(7, ext, models.FactionAlliance); got != want {
		t.Fatalf("resolve: got %q, want %q", got, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(data, []byte("imagedata")) {
		t.Fatalf("stored bytes differ: %q", data)
	}
}

func TestSaveRejectsUnsupportedExt(t *testing.T) {
	store, dir, _ := newTestStore(t, 64)

	for _, ext := range []string{"jpg", "svg", "exe", ""} {
		if _, err := store.Save(7, ext, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("ext %q: expected ErrUnsupportedFormat, got %v", ext, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected upload left files: %v", entries)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store, dir, _ := newTestStore(t, 8)

	if _, err := store.Save(7, models.AvatarPNG, strings.NewReader("123456789")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "7.png")); !os.IsNotExist(err) {
		t.Fatalf("oversized upload reached disk")
	}

	// Exactly at the cap is accepted.
	if _, err := store.Save(7, models.AvatarPNG, strings.NewReader("12345678")); err != nil {
		t.Fatalf("save at cap: %v", err)
	}
}

func TestSaveSwitchingFormatDropsOldFile(t *testing.T) {
	store, dir, _ := newTestStore(t, 64)

	if _, err := store.Save(7, models.AvatarPNG, strings.NewReader("png")); err != nil {
		t.Fatalf("save png: %v", err)
	}
	if _, err := store.Save(7, models.AvatarGIF, strings.NewReader("gif")); err != nil {
		t.Fatalf("save gif: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "7.png")); !os.IsNotExist(err) {
		t.Fatalf("stale png survived the format switch")
	}
	if _, err := os.Stat(filepath.Join(dir, "7.gif")); err != nil {
		t.Fatalf("gif missing: %v", err)
	}
}

func TestResolveFactionFallback(t *testing.T) {
	store, _, defaults := newTestStore(t, 64)

	// No upload recorded.
	if got := store.Resolve(7, "", models.FactionHorde); got != filepath.Join(defaults, "horde.png") {
		t.Fatalf("horde fallback: %q", got)
	}
	if got := store.Resolve(7, "", models.FactionAlliance); got != filepath.Join(defaults, "alliance.png") {
		t.Fatalf("alliance fallback: %q", got)
	}
	// Unknown faction falls back to the alliance default.
	if got := store.Resolve(7, "", models.FactionNone); got != filepath.Join(defaults, "alliance.png") {
		t.Fatalf("none fallback: %q", got)
	}

	// An extension recorded in the database but missing on disk also
	// falls back.
	if got := store.Resolve(7, models.AvatarPNG, models.FactionHorde); got != filepath.Join(defaults, "horde.png") {
		t.Fatalf("missing file fallback: %q", got)
	}
}

func TestRemove(t *testing.T) {
	store, dir, _ := newTestStore(t, 64)

	if _, err := store.Save(7, models.AvatarPNG, strings.NewReader("png")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(7); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "7.png")); !os.IsNotExist(err) {
		t.Fatalf("file survived remove")
	}
	// Removing with nothing uploaded is not an error.
	if err := store.Remove(8); err != nil {
		t.Fatalf("remove without upload: %v", err)
	}
}
