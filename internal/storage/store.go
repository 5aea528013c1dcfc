// Package storage persists finished records as JSON snapshots keyed by
// document id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/kairoscv/resume-extractor/internal/types"
)

// SnapshotVersion is written into every snapshot's metadata.
const SnapshotVersion = "1.0"

// metadataKey is the top-level key the metadata is stored under, next to
// the record's own fields.
const metadataKey = "_metadata"

var (
	// ErrNotFound is returned by Load for an id with no snapshot.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidID is returned for ids that are not safe as file names or
	// keys.
	ErrInvalidID = errors.New("invalid document id")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateID checks that id is non-empty and made only of letters, digits,
// underscores and hyphens.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Metadata describes when and how a snapshot was written.
type Metadata struct {
	FileID      string    `json:"fileId"`
	ExtractedAt time.Time `json:"extractedAt"`
	Version     string    `json:"version"`
}

// Snapshot is a stored record with its metadata.
type Snapshot struct {
	Record   *types.ResumeRecord
	Metadata Metadata
}

// SnapshotStore is a key/document store for finished records. Each id is
// written by at most one pipeline run at a time; stores do no locking of
// their own.
type SnapshotStore interface {
	// Save writes record under id, replacing any previous snapshot, and
	// returns where it was written.
	Save(ctx context.Context, id string, record *types.ResumeRecord) (string, error)
	// Load returns the snapshot for id or ErrNotFound.
	Load(ctx context.Context, id string) (*Snapshot, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Delete removes the snapshot for id. Deleting a missing id is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// Encode renders record as an indented JSON object with a _metadata key
// alongside the record's fields.
func Encode(id string, record *types.ResumeRecord, at time.Time) ([]byte, error) {
	if record == nil {
		record = types.NewResumeRecord()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to reshape record: %w", err)
	}
	meta, err := json.Marshal(Metadata{FileID: id, ExtractedAt: at.UTC(), Version: SnapshotVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	fields[metadataKey] = meta
	return json.MarshalIndent(fields, "", "  ")
}

// Decode parses a stored snapshot. The metadata is optional so records
// written by other tools still load.
func Decode(data []byte) (*Snapshot, error) {
	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	var envelope struct {
		Metadata *Metadata `json:"_metadata"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot metadata: %w", err)
	}
	snap := &Snapshot{Record: &record}
	if envelope.Metadata != nil {
		snap.Metadata = *envelope.Metadata
	}
	return snap, nil
}
