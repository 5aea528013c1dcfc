package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// getBinaryPath returns the path to the built resume_extractor binary,
// skipping the test when it has not been built.
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", "resume_extractor"))
	if err != nil {
		t.Fatalf("resolve binary path: %v", err)
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_extractor ./cmd/resume_extractor'", binaryPath)
	}
	return binaryPath
}

// withoutKeys returns the environment minus model API keys and connection
// URLs so the binary runs offline against the file store.
func withoutKeys() []string {
	var env []string
	for _, e := range os.Environ() {
		switch {
		case strings.HasPrefix(e, "GEMINI_API_KEY="), strings.HasPrefix(e, "ANTHROPIC_API_KEY="),
			strings.HasPrefix(e, "DATABASE_URL="), strings.HasPrefix(e, "REDIS_URL="):
			continue
		}
		env = append(env, e)
	}
	return env
}

