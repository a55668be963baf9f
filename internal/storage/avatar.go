// Package storage handles avatar images: size-capped uploads keyed by
// user id, and resolution to either the uploaded file or the faction
// default.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/newsguild/warboard/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for extensions outside the
	// png/gif allow-list.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned when an upload exceeds the byte cap.
	ErrTooLarge = errors.New("image exceeds the size limit")
)

// AvatarStore abstracts where avatar images live.
type AvatarStore interface {
	// Save validates and stores the image for a user, replacing any
	// previous upload. Returns the stored extension.
	Save(userID uint, ext string, r io.Reader) (string, error)
	// Resolve returns the path to serve for a user: the uploaded file
	// when present, else the faction default.
	Resolve(userID uint, ext, faction string) string
	// Remove deletes any uploaded image for the user.
	Remove(userID uint) error
}

// DiskStore keeps uploads as <dir>/<userID>.<ext> with faction
// defaults under defaultsDir.
type DiskStore struct {
	dir         string
	defaultsDir string
	maxBytes    int64
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, defaultsDir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, defaultsDir: defaultsDir, maxBytes: maxBytes}, nil
}

// Save reads at most maxBytes+1 bytes before touching the disk, so an
// oversized body is rejected without ever being written or fully read.
func (s *DiskStore) Save(userID uint, ext string, r io.Reader) (string, error) {
	if ext != models.AvatarPNG && ext != models.AvatarGIF {
		return "", ErrUnsupportedFormat
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if n > s.maxBytes {
		return "", ErrTooLarge
	}
	if err := os.WriteFile(s.path(userID, ext), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	// Drop the stale file if the user switched formats.
	other := models.AvatarGIF
	if ext == models.AvatarGIF {
		other = models.AvatarPNG
	}
	_ = os.Remove(s.path(userID, other))
	return ext, nil
}

// Resolve prefers the user's uploaded file when it is actually present
// on disk; anything else falls back to the faction default.
func (s *DiskStore) Resolve(userID uint, ext, faction string) string {
	if ext != "" {
		p := s.path(userID, ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	name := "alliance.png"
	if faction == models.FactionHorde {
		name = "horde.png"
	}
	return filepath.Join(s.defaultsDir, name)
}

// Remove deletes both possible upload files for the user.
func (s *DiskStore) Remove(userID uint) error {
	var first error
	for _, ext := range []string{models.AvatarPNG, models.AvatarGIF} {
		if err := os.Remove(s.path(userID, ext)); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}

func (s *DiskStore) path(userID uint, ext string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.%s", userID, ext))
}
