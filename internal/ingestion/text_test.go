package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \n \t \n  ", ""},
		{"bullets untouched", "- Shipped v2\n* Hired 4\n• Cut costs", "- Shipped v2\n* Hired 4\n• Cut costs"},
		{"inner spaces collapse", "Senior    Engineer   ", "Senior Engineer"},
		{"nbsp collapses", "Jane  Roe", "Jane Roe"},
		{"tab runs collapse", "Initech\t\t\tAustin, TX", "Initech\tAustin, TX"},
		{"blank runs capped", "SKILLS\n\n\n\n\nGo", "SKILLS\n\nGo"},
		{"line endings", "A\r\nB\rC\nD", "A\nB\nC\nD"},
		{"page artifacts", "EXPERIENCE\nInitech\nPage 1 of 2\n2\nLed migrations", "EXPERIENCE\nInitech\nLed migrations"},
		{"indentation kept", "Initech\n    Led   migration\n  Austin", "Initech\n    Led migration\n  Austin"},
		{"unicode kept", "Zoë Müller – Développeuse 🚀", "Zoë Müller – Développeuse 🚀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanText(got), "cleaning is idempotent")
		})
	}
}

func TestIngestFromFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"text", write("resume.txt", "Jane Roe\n\n\n\nSoftware   Engineer"), "Jane Roe\n\nSoftware Engineer"},
		{"markdown", write("resume.md", "# Jane Roe\n\n- Go\n- SQL\n"), "# Jane Roe\n\n- Go\n- SQL"},
		{"html", write("resume.HTML", "<html><body><h1>Jane Roe</h1><ul><li>Go</li></ul></body></html>"), "Jane Roe\n\n• Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, meta, err := IngestFromFile(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			require.NotNil(t, meta)
			assert.Equal(t, filepath.Base(tt.path), meta.Source)
			assert.False(t, meta.Quality.IsGoodQuality)
		})
	}
}

func TestIngestFromFile_Errors(t *testing.T) {
	_, meta, err := IngestFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "file not found")
	assert.Nil(t, meta)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = IngestFromFile(ctx, "irrelevant.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
