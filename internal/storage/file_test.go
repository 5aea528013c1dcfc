package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/types"
)

func sampleRecord() *types.ResumeRecord {
	r := types.NewResumeRecord()
	r.Contact.Name = "Jane Roe"
	r.Contact.Email = "jane@example.com"
	r.Experience = []types.ExperienceEntry{{Company: "Initech", Title: "Engineer", Bullets: []string{"Shipped TPS reports"}}}
	r.Skills.Languages = []string{"Go"}
	return r
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "snapshots"), nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestFileStore_SaveLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path, err := s.Save(ctx, "doc-1", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, s.Path("doc-1"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "_metadata")
	assert.Contains(t, fields, "contact")

	snap, err := s.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", snap.Metadata.FileID)
	assert.Equal(t, SnapshotVersion, snap.Metadata.Version)
	assert.True(t, snap.Metadata.ExtractedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Jane Roe", snap.Record.Contact.Name)
	require.Len(t, snap.Record.Experience, 1)
	assert.Equal(t, "Initech", snap.Record.Experience[0].Company)
	assert.Equal(t, []string{"Go"}, snap.Record.Skills.Languages)
}

func TestFileStore_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "doc", sampleRecord())
	require.NoError(t, err)
	r := sampleRecord()
	r.Contact.Name = "John Doe"
	_, err = s.Save(ctx, "doc", r)
	require.NoError(t, err)

	snap, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", snap.Record.Contact.Name)

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}

func TestFileStore_InvalidID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "../x", "a/b", "doc 1", "doc.json"} {
		_, err := s.Save(ctx, id, sampleRecord())
		assert.ErrorIs(t, err, ErrInvalidID, id)
		_, err = s.Load(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, id)
		_, err = s.Exists(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, id)
		assert.ErrorIs(t, s.Delete(ctx, id), ErrInvalidID, id)
	}
}

func TestFileStore_ExistsDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "doc_2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load(ctx, "doc_2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Save(ctx, "doc_2", sampleRecord())
	require.NoError(t, err)
	ok, err = s.Exists(ctx, "doc_2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "doc_2"))
	require.NoError(t, s.Delete(ctx, "doc_2"))
	ok, err = s.Exists(ctx, "doc_2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "doc", sampleRecord())
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(s.Path("doc"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDecode_WithoutMetadata(t *testing.T) {
	snap, err := Decode([]byte(`{"contact":{"name":"Jane"},"skills":{"languages":["Go"]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", snap.Record.Contact.Name)
	assert.Empty(t, snap.Metadata.FileID)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncode_NilRecord(t *testing.T) {
	data, err := Encode("doc", nil, time.Unix(0, 0))
	require.NoError(t, err)
	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "doc", snap.Metadata.FileID)
	assert.NotNil(t, snap.Record)
}
