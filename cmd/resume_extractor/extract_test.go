package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/config"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/storage"
)

const sampleResume = `JANE ROE
Austin, TX | jane.roe@example.com | (512) 555-0199

EXPERIENCE
Initech    Austin, TX
Senior Software Engineer    Mar 2019 - Present
• Led migration of billing services to Go

EDUCATION
University of Texas at Austin
B.S. Computer Science, 2015

SKILLS
Go, Python, PostgreSQL
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "DATABASE_URL", "REDIS_URL"} {
		t.Setenv(name, "")
	}
}

func newFlagCommand(f *sharedFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	clearEnv(t)
	var f sharedFlags

	cfg, err := resolveConfig(newFlagCommand(&f), &f, nil)

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, config.StoreFile, cfg.Store)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.False(t, cfg.Verbose)
}

func TestResolveConfig_FileThenFlags(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: gemini\nsnapshot_dir: snaps\nmax_attempts: 5\n"), 0o644))

	var f sharedFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("provider", "anthropic"))

	cfg, err := resolveConfig(cmd, &f, func(c *config.Config) { c.Addr = ":9999" })

	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "snaps", cfg.SnapshotDir)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestResolveConfig_UnsetFlagKeepsFileValue(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider": "anthropic", "verbose": true}`), 0o644))

	var f sharedFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, err := resolveConfig(cmd, &f, nil)

	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.True(t, cfg.Verbose)
}

func TestResolveConfig_Errors(t *testing.T) {
	clearEnv(t)

	var f sharedFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.Flags().Set("provider", "openai"))
	_, err := resolveConfig(cmd, &f, nil)
	assert.ErrorContains(t, err, "unknown provider")

	var g sharedFlags
	cmd = newFlagCommand(&g)
	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.json")))
	_, err = resolveConfig(cmd, &g, nil)
	assert.ErrorContains(t, err, "failed to load config")

	var h sharedFlags
	_, err = resolveConfig(newFlagCommand(&h), &h, func(c *config.Config) { c.Store = config.StoreRedis })
	assert.ErrorContains(t, err, "redis_url")
}

func TestResolveConfig_EnvOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")

	var f sharedFlags
	cfg, err := resolveConfig(newFlagCommand(&f), &f, nil)

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.ProviderAPIKey())
}

func TestNewApp_OfflineFileStore(t *testing.T) {
	cfg := config.Defaults()
	cfg.SnapshotDir = t.TempDir()

	a, err := newApp(context.Background(), cfg, logging.Discard(), true)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.client)
	assert.Nil(t, a.runs)
	assert.Nil(t, a.history())
	require.IsType(t, &storage.FileStore{}, a.store)

	result, err := a.orchestrator().Extract(context.Background(), inputFor("doc-app"))
	require.NoError(t, err)
	assert.Equal(t, "doc-app", result.DocumentID)
	assert.FileExists(t, filepath.Join(cfg.SnapshotDir, "doc-app.json"))
}

func TestNewApp_MissingKeyFallsBack(t *testing.T) {
	cfg := config.Defaults()
	cfg.SnapshotDir = t.TempDir()

	a, err := newApp(context.Background(), cfg, logging.Discard(), false)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.client)
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "resume.txt")
	docPath := filepath.Join(dir, "resume.PDF")
	require.NoError(t, os.WriteFile(textPath, []byte(sampleResume), 0o644))
	require.NoError(t, os.WriteFile(docPath, []byte("%PDF-1.4"), 0o644))

	setExtractFlags(t, textPath, "", docPath, "", "doc-9")

	in, err := readInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-9", in.DocumentID)
	assert.Contains(t, in.RawText, "jane.roe@example.com")
	assert.Equal(t, "application/pdf", in.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), in.Document)
}

func TestReadInput_DerivesIDFromText(t *testing.T) {
	textPath := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(textPath, []byte(sampleResume), 0o644))

	setExtractFlags(t, textPath, "", "", "", "")

	first, err := readInput(context.Background())
	require.NoError(t, err)
	second, err := readInput(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, `^doc-[0-9a-f]{16}$`, first.DocumentID)
	assert.Equal(t, first.DocumentID, second.DocumentID)
}

func TestReadInput_UnknownDocumentType(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "resume.unknownext")
	require.NoError(t, os.WriteFile(docPath, []byte("x"), 0o644))

	setExtractFlags(t, "", "", docPath, "", "")

	_, err := readInput(context.Background())
	assert.ErrorContains(t, err, "--mime-type")
}

func TestReadInput_MissingFile(t *testing.T) {
	setExtractFlags(t, filepath.Join(t.TempDir(), "nope.txt"), "", "", "", "")

	_, err := readInput(context.Background())
	assert.ErrorContains(t, err, "file not found")
}

func TestDetectMIMEType(t *testing.T) {
	tests := map[string]string{
		"cv.pdf":  "application/pdf",
		"cv.PNG":  "image/png",
		"cv.jpg":  "image/jpeg",
		"cv.jpeg": "image/jpeg",
		"cv.webp": "image/webp",
		"cv":      "",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, detectMIMEType(path))
		})
	}
}

func TestExtractCommand_MissingInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "extract")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--text-file or --html-file is required")
}

func TestExtractCommand_NoAI(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	textPath := filepath.Join(dir, "resume.txt")
	outDir := filepath.Join(dir, "snapshots")
	require.NoError(t, os.WriteFile(textPath, []byte(sampleResume), 0o644))

	cmd := exec.Command(binaryPath, "extract", "--text-file", textPath, "--out", outDir, "--id", "cli-1", "--no-ai", "--json")
	cmd.Env = withoutKeys()
	output, err := cmd.Output()
	require.NoError(t, err, string(output))

	var result map[string]any
	require.NoError(t, json.Unmarshal(output, &result))
	assert.Equal(t, "cli-1", result["documentId"])

	snapshot := filepath.Join(outDir, "cli-1.json")
	assert.FileExists(t, snapshot)

	validate := exec.Command(binaryPath, "validate", "--snapshot", snapshot)
	out, err := validate.CombinedOutput()
	assert.NoError(t, err, string(out))
	assert.Contains(t, string(out), "Validation passed")
}

func TestValidateCommand_Failure(t *testing.T) {
	binaryPath := getBinaryPath(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contact": "not an object"}`), 0o644))

	cmd := exec.Command(binaryPath, "validate", "--snapshot", path)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "Validation failed")
	if exitError, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitError.ExitCode())
	}
}

func TestValidateCommand_MissingFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "validate").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--snapshot or --schema with --json is required")
}

func inputFor(id string) pipeline.Input {
	return pipeline.Input{DocumentID: id, RawText: sampleResume}
}

// setExtractFlags sets the extract flag variables for one test.
func setExtractFlags(t *testing.T, text, html, document, mimeType, id string) {
	t.Helper()
	prev := []string{extractTextFile, extractHTMLFile, extractDocument, extractMIMEType, extractID}
	extractTextFile, extractHTMLFile, extractDocument, extractMIMEType, extractID = text, html, document, mimeType, id
	t.Cleanup(func() {
		extractTextFile, extractHTMLFile, extractDocument, extractMIMEType, extractID = prev[0], prev[1], prev[2], prev[3], prev[4]
	})
}
