// Package ingestion turns raw resume text and converted documents into
// clean input for the extraction pipeline.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/normalize"
)

var (
	innerSpace      = regexp.MustCompile(`[ \f\v\x{00A0}]+`)
	innerTabs       = regexp.MustCompile(`\t+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted resume text while preserving its line
// structure: line endings become LF, runs of spaces and tabs collapse, trailing
// whitespace is dropped, page artifacts are removed, and no more than one
// blank line separates blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = normalize.RemovePageArtifacts(result, "")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving indentation
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	indent := len(line) - len(trimmed)
	content := innerSpace.ReplaceAllString(trimmed, " ")
	content = innerTabs.ReplaceAllString(content, "\t")
	if indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}

// IngestFromFile reads a resume from a text, Markdown or HTML file, cleans
// it, and returns cleaned text with metadata.
func IngestFromFile(ctx context.Context, path string) (string, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	raw := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		raw, err = HTMLToText(raw)
		if err != nil {
			return "", nil, err
		}
	}

	cleanedText := CleanText(raw)
	metadata := NewMetadata(cleanedText, filepath.Base(path))
	metadata.Quality = AssessQuality(cleanedText)
	return cleanedText, metadata, nil
}
