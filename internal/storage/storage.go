// Package storage keeps attachment bytes on the local filesystem. The
// database row and the stored file are two halves of one attachment; the
// database layer reconciles rows against Exists at listing time.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vaultd/internal/apperr"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.IO("creating upload directory").WithCause(err)
	}
	return &Store{dir: dir}, nil
}

// Save stores r under a uuid-prefixed variant of name and returns the path
// to record in the attachments table. The prefix keeps repeat uploads of the
// same filename from clobbering each other.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "", apperr.Constraint(fmt.Sprintf("invalid file name %q", name))
	}
	path := filepath.Join(s.dir, uuid.NewString()+"_"+base)
	f, err := os.Create(path)
	if err != nil {
		return "", apperr.IO("storing attachment").WithCause(err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", apperr.IO("storing attachment").WithCause(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", apperr.IO("storing attachment").WithCause(err)
	}
	return path, nil
}

// Open returns the stored bytes for a recorded path.
func (s *Store) Open(path string) (io.ReadCloser, error) {
	if !s.owns(path) {
		return nil, apperr.Constraint(fmt.Sprintf("path %q is outside the store", path))
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.IO("attachment file missing").WithCause(err)
		}
		return nil, apperr.IO("reading attachment").WithCause(err)
	}
	return f, nil
}

// Remove deletes the stored file; a path that is already gone is not an
// error.
func (s *Store) Remove(path string) error {
	if !s.owns(path) {
		return apperr.Constraint(fmt.Sprintf("path %q is outside the store", path))
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperr.IO("removing attachment").WithCause(err)
	}
	return nil
}

func (s *Store) Exists(path string) bool {
	if !s.owns(path) {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) owns(path string) bool {
	clean := filepath.Clean(path)
	return strings.HasPrefix(clean, filepath.Clean(s.dir)+string(filepath.Separator))
}
