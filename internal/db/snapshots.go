package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kairoscv/resume-extractor/internal/storage"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// SnapshotStore keeps record snapshots in the record_snapshots table. It
// satisfies storage.SnapshotStore.
type SnapshotStore struct {
	db  *DB
	now func() time.Time
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Snapshots returns a snapshot store backed by db.
func (db *DB) Snapshots() *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

func (s *SnapshotStore) Save(ctx context.Context, id string, record *types.ResumeRecord) (string, error) {
	if err := storage.ValidateID(id); err != nil {
		return "", err
	}
	at := s.now().UTC()
	data, err := storage.Encode(id, record, at)
	if err != nil {
		return "", err
	}
	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO record_snapshots (document_id, content, version, extracted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (document_id) DO UPDATE
		 SET content = $2, version = $3, extracted_at = $4, updated_at = NOW()`,
		id, data, storage.SnapshotVersion, at,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return "record_snapshots/" + id, nil
}

func (s *SnapshotStore) Load(ctx context.Context, id string) (*storage.Snapshot, error) {
	if err := storage.ValidateID(id); err != nil {
		return nil, err
	}
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT content FROM record_snapshots WHERE document_id = $1`, id,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return storage.Decode(content)
}

func (s *SnapshotStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := storage.ValidateID(id); err != nil {
		return false, err
	}
	var exists bool
	err := s.db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM record_snapshots WHERE document_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return exists, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	if err := storage.ValidateID(id); err != nil {
		return err
	}
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM record_snapshots WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
