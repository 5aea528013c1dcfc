package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Completeness is the model's audit of a record against its source text.
type Completeness struct {
	IsComplete     bool     `json:"isComplete"`
	MissingContent []string `json:"missingContent"`
	Confidence     float64  `json:"confidence"`
}

// VerifyCompleteness asks which content of rawText is absent from record.
// When the audit cannot run the record is reported complete with low
// confidence, which never triggers a second extraction pass.
func (c *Classifier) VerifyCompleteness(ctx context.Context, rawText string, record *types.ResumeRecord) (Completeness, error) {
	if !c.Available() || record == nil {
		return Completeness{IsComplete: true, MissingContent: []string{}, Confidence: unavailableConfidence}, nil
	}

	view := record.Clone()
	view.RawText = ""
	encoded, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return Completeness{IsComplete: true, MissingContent: []string{}, Confidence: failedConfidence},
			fmt.Errorf("failed to encode record: %w", err)
	}

	description := prompts.Format(prompts.MustGet("classification.json", "verify-completeness"), map[string]string{
		"Record": string(encoded),
	})
	prompt := llm.CompletenessSchema().WithPreamble(description).Prompt(rawText)

	var resp struct {
		IsComplete     *bool    `json:"isComplete"`
		Complete       *bool    `json:"complete"`
		MissingContent []string `json:"missingContent"`
		Confidence     *float64 `json:"confidence"`
	}
	text, err := c.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err == nil {
		err = decodeInto(text, &resp)
	}
	if err != nil {
		c.log.WithError(err).Warn("Completeness check failed, treating record as complete")
		return Completeness{IsComplete: true, MissingContent: []string{}, Confidence: failedConfidence}, err
	}

	out := Completeness{
		IsComplete:     true,
		MissingContent: make([]string, 0, len(resp.MissingContent)),
		Confidence:     confidenceOr(resp.Confidence, unavailableConfidence),
	}
	for _, item := range resp.MissingContent {
		if item = strings.TrimSpace(item); item != "" {
			out.MissingContent = append(out.MissingContent, item)
		}
	}
	switch {
	case resp.IsComplete != nil:
		out.IsComplete = *resp.IsComplete
	case resp.Complete != nil:
		out.IsComplete = *resp.Complete
	default:
		out.IsComplete = len(out.MissingContent) == 0
	}
	return out, nil
}

func decodeInto(text string, out any) error {
	cleaned := strings.TrimSpace(llm.CleanJSONBlock(text))
	if cleaned == "" {
		return fmt.Errorf("classifier returned an empty response")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to decode classifier response: %w", err)
	}
	return nil
}
