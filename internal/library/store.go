// Package library stores uploaded audio on disk under opaque locators and
// hands byte streams back. The coordinator never looks inside a locator.
package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("audio not found")

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save spools the reader to disk and returns the opaque locator for it.
func (s *Store) Save(r io.Reader) (string, error) {
	locator := uuid.NewString()
	f, err := os.Create(filepath.Join(s.dir, locator))
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close audio file: %w", err)
	}
	log.Info().Str("module", "library").Str("locator", locator).Msg("audio stored")
	return locator, nil
}

// Open returns a seekable stream plus its mod time, suitable for
// http.ServeContent range handling. Locators are validated as uuids so a
// crafted one can never walk out of the library dir.
func (s *Store) Open(locator string) (*os.File, time.Time, error) {
	if _, err := uuid.Parse(locator); err != nil {
		return nil, time.Time{}, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("open audio file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, fmt.Errorf("stat audio file: %w", err)
	}
	return f, info.ModTime(), nil
}

// Remove deletes stored audio; absent locators are a no-op.
func (s *Store) Remove(locator string) error {
	if _, err := uuid.Parse(locator); err != nil {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, locator))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove audio file: %w", err)
	}
	return nil
}
