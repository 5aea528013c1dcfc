package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kairoscv/resume-extractor/internal/config"
	"github.com/kairoscv/resume-extractor/internal/ingestion"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/observability"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured record from a resume",
	Long: `Runs every extraction layer over one resume and stores the snapshot.

Input is a text or Markdown file (--text-file) and/or an HTML file
(--html-file), such as the output of a DOCX converter. When both are given
the text file wins. --document adds a PDF or image of the resume for the
visual cross-check.

Configuration can be loaded from a JSON or YAML file using --config.
Command-line arguments override config file values.`,
	RunE: runExtract,
}

var (
	extractShared   sharedFlags
	extractTextFile string
	extractHTMLFile string
	extractDocument string
	extractMIMEType string
	extractID       string
	extractOut      string
	extractJSON     bool
)

func init() {
	extractShared.register(extractCmd)
	extractCmd.Flags().StringVarP(&extractTextFile, "text-file", "f", "", "Path to the resume as plain text or Markdown")
	extractCmd.Flags().StringVar(&extractHTMLFile, "html-file", "", "Path to the resume as HTML")
	extractCmd.Flags().StringVar(&extractDocument, "document", "", "Path to a PDF or image of the resume for the visual pass")
	extractCmd.Flags().StringVar(&extractMIMEType, "mime-type", "", "MIME type of --document (detected from the extension if omitted)")
	extractCmd.Flags().StringVar(&extractID, "id", "", "Document ID for the snapshot (derived from the text file's content if omitted)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Snapshot directory for the file store")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Write the full result as JSON to stdout")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractTextFile == "" && extractHTMLFile == "" {
		return errors.New("--text-file or --html-file is required")
	}

	cfg, err := resolveConfig(cmd, &extractShared, func(c *config.Config) {
		if cmd.Flags().Changed("out") {
			c.SnapshotDir = extractOut
		}
		if cmd.Flags().Changed("document") {
			c.EnableVisual = true
		}
	})
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Verbose, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := readInput(ctx)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log, extractShared.noAI)
	if err != nil {
		return err
	}
	defer a.Close()

	progress := make(chan pipeline.ProgressEvent, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			entry := log.WithField("progress", ev.Progress)
			if ev.Field != "" {
				entry = entry.WithField("field", ev.Field)
			}
			entry.Debugf("[%s] %s", ev.Stage, ev.Message)
		}
	}()

	result, err := a.orchestrator().WithProgress(progress, true).Extract(ctx, in)
	<-done
	if err != nil {
		if errors.Is(err, pipeline.ErrCancelled) {
			return fmt.Errorf("extraction interrupted: %w", err)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintResult(result)
	}

	if extractJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	//nolint:errcheck // writing to stdout
	fmt.Fprintf(os.Stdout, "Extracted %s: completeness %d%%, confidence %d (%s)\n",
		result.DocumentID, result.Completeness, result.Confidence.Overall, result.Confidence.Level)
	if result.SnapshotPath != "" {
		fmt.Fprintf(os.Stdout, "Snapshot: %s\n", result.SnapshotPath) //nolint:errcheck
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stdout, "  warning: %s\n", w) //nolint:errcheck
	}
	return nil
}

// readInput loads the files named by the extract flags.
func readInput(ctx context.Context) (pipeline.Input, error) {
	in := pipeline.Input{DocumentID: extractID}

	if extractTextFile != "" {
		text, meta, err := ingestion.IngestFromFile(ctx, extractTextFile)
		if err != nil {
			return in, err
		}
		in.RawText = text
		if in.DocumentID == "" {
			in.DocumentID = meta.DocumentID()
		}
	}
	if extractHTMLFile != "" {
		data, err := os.ReadFile(extractHTMLFile)
		if err != nil {
			return in, fmt.Errorf("failed to read HTML file: %w", err)
		}
		in.HTML = string(data)
	}

	if extractDocument != "" {
		data, err := os.ReadFile(extractDocument)
		if err != nil {
			return in, fmt.Errorf("failed to read document: %w", err)
		}
		in.Document = data
		in.MIMEType = extractMIMEType
		if in.MIMEType == "" {
			in.MIMEType = detectMIMEType(extractDocument)
		}
		if in.MIMEType == "" {
			return in, fmt.Errorf("cannot detect the type of %s; pass --mime-type", extractDocument)
		}
	}
	return in, nil
}

// detectMIMEType guesses a document type from its file extension.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return ""
}
