package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// FileStore keeps one <id>.json file per snapshot in a directory.
type FileStore struct {
	dir string
	log logrus.FieldLogger
	now func() time.Time
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string, logger logrus.FieldLogger) *FileStore {
	return &FileStore{dir: dir, log: logging.OrDiscard(logger), now: time.Now}
}

// Path returns the file a snapshot for id is stored in.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the snapshot through a temporary file so readers never see a
// partial document.
func (s *FileStore) Save(ctx context.Context, id string, record *types.ResumeRecord) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(id, record, s.now())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	path := s.Path(id)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.log.WithFields(logrus.Fields{"document_id": id, "path": path}).Info("Saved snapshot")
	return path, nil
}

// Load reads the snapshot for id.
func (s *FileStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Exists reports whether a snapshot for id is on disk.
func (s *FileStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat snapshot: %w", err)
	}
}

// Delete removes the snapshot for id if present.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	err := os.Remove(s.Path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if err == nil {
		s.log.WithField("document_id", id).Info("Deleted snapshot")
	}
	return nil
}
