// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/confidence"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/types"
	"github.com/kairoscv/resume-extractor/internal/verification"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintResult prints every summary box for a finished extraction.
func (p *Printer) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	p.PrintLayers(result)
	p.PrintRecord(result.Data)
	p.PrintVerification(result.FieldOutcomes, result.Diagnostics)
	p.PrintConfidence(result.Confidence)
}

// PrintLayers outputs which layers completed and the run's warnings.
func (p *Printer) PrintLayers(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document:     %s\n", result.DocumentID))
	sb.WriteString(fmt.Sprintf("Completeness: %d%%\n\n", result.Completeness))

	l := result.Layers
	for _, layer := range []struct {
		name string
		ok   bool
	}{
		{pipeline.LayerExtraction, l.Extraction},
		{pipeline.LayerStructuring, l.Structuring},
		{pipeline.LayerVisual, l.Visual},
		{pipeline.LayerClassification, l.Classification},
		{pipeline.LayerVerification, l.Verification},
		{pipeline.LayerCompleteness, l.Completeness},
		{pipeline.LayerNormalization, l.Normalization},
		{pipeline.LayerPersist, l.Persisted},
	} {
		mark := "✗"
		if layer.ok {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, layer.name))
	}

	if result.SnapshotPath != "" {
		sb.WriteString(fmt.Sprintf("\nSnapshot: %s\n", result.SnapshotPath))
	}

	if len(result.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(result.Warnings)))
		count := min(len(result.Warnings), maxItemsToShow)
		for _, w := range result.Warnings[:count] {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
		}
		if len(result.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Warnings)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTION LAYERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecord outputs a human-readable summary of the extracted record.
func (p *Printer) PrintRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	c := record.Contact
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(c.Name)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(c.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orDash(c.Phone)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(c.Location)))

	if len(record.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("\nExperience (%d):\n", len(record.Experience)))
		count := min(len(record.Experience), maxItemsToShow)
		for _, exp := range record.Experience[:count] {
			sb.WriteString(fmt.Sprintf("  • %s at %s", exp.Title, exp.Company))
			if exp.StartDate != "" || exp.EndDate != "" {
				sb.WriteString(fmt.Sprintf(" (%s - %s)", exp.StartDate, exp.EndDate))
			}
			sb.WriteString(fmt.Sprintf(", %d bullets\n", len(exp.Bullets)))
		}
		if len(record.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Experience)-maxItemsToShow))
		}
	}

	if len(record.Education) > 0 {
		sb.WriteString(fmt.Sprintf("\nEducation (%d):\n", len(record.Education)))
		for _, edu := range record.Education[:min(len(record.Education), maxItemsToShow)] {
			line := edu.Institution
			if edu.Degree != "" {
				line = edu.Degree + ", " + line
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
	}

	if total := record.Skills.Total(); total > 0 {
		s := record.Skills
		sb.WriteString(fmt.Sprintf("\nSkills (%d): %d languages, %d frameworks, %d tools, %d databases\n",
			total, len(s.Languages), len(s.Frameworks), len(s.Tools), len(s.Databases)))
	}
	if len(record.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("Projects: %d\n", len(record.Projects)))
	}

	p.printBox("EXTRACTED RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVerification outputs the per-field verification outcomes and any
// unrecovered fields.
func (p *Printer) PrintVerification(outcomes []verification.Outcome, diagnostics []verification.Diagnostic) {
	if len(outcomes) == 0 && len(diagnostics) == 0 {
		return
	}

	var sb strings.Builder
	for _, o := range outcomes {
		sb.WriteString(fmt.Sprintf("%-18s %-10s", o.Field, o.Status))
		switch {
		case o.Previous != "":
			sb.WriteString(fmt.Sprintf(" %q → %q", o.Previous, o.Value))
		case o.Value != "":
			sb.WriteString(fmt.Sprintf(" %q", o.Value))
		}
		sb.WriteString("\n")
	}

	if len(diagnostics) > 0 {
		sb.WriteString("\nNot recovered:\n")
		for _, d := range diagnostics {
			prefix := "  • "
			if d.Critical {
				prefix = "  ❌ "
			}
			sb.WriteString(prefix + d.Message + "\n")
		}
	}

	p.printBox("FIELD VERIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConfidence outputs the section scores and improvement suggestions.
func (p *Printer) PrintConfidence(conf confidence.ResumeConfidence) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d (%s)\n\n", conf.Overall, conf.Level))

	s := conf.Sections
	for _, section := range []struct {
		name  string
		score int
	}{
		{"Contact", s.Contact.Score},
		{"Experience", s.Experience.Score},
		{"Education", s.Education.Score},
		{"Skills", s.Skills.Score},
		{"Projects", s.Projects.Score},
	} {
		sb.WriteString(fmt.Sprintf("  %-11s %3d\n", section.name, section.score))
	}

	if len(conf.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, suggestion := range conf.Suggestions[:min(len(conf.Suggestions), maxItemsToShow)] {
			sb.WriteString(fmt.Sprintf("  • %s\n", suggestion))
		}
		if len(conf.Suggestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(conf.Suggestions)-maxItemsToShow))
		}
	}

	p.printBox("CONFIDENCE", strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
