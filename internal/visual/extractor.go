// Package visual runs a vision model over the rendered resume document to
// produce a second, independent extraction and a bag of visual artifacts
// (bullets, styled text, layout) that text extraction tends to miss.
package visual

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/types"
)

const (
	// MethodVision tags results produced by a vision model.
	MethodVision = "vision-complete"
	// LayoutUnknown is reported when the model does not describe the layout.
	LayoutUnknown = "unknown"

	// rawTextRunes caps the text-extraction hint sent with the document.
	rawTextRunes = 5000
	// visionConfidence is the fixed confidence of a successful vision pass.
	visionConfidence = 0.95
)

// SupportedMIMETypes lists the document types a vision pass accepts.
var SupportedMIMETypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/webp",
}

// Supported reports whether mimeType can be sent to a vision pass.
func Supported(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, s := range SupportedMIMETypes {
		if mt == s {
			return true
		}
	}
	return false
}

// Elements is the flat bag of low-level visual artifacts.
type Elements struct {
	BulletPoints []string `json:"bulletPoints"`
	ItalicText   []string `json:"italicText"`
	BoldText     []string `json:"boldText"`
	SmallText    []string `json:"smallText"`
	Headers      []string `json:"headers"`
	Footers      []string `json:"footers"`
	Colors       []string `json:"colors"`
	Layout       string   `json:"layout"`
}

// VisualExtractionResult is the output of one vision pass.
type VisualExtractionResult struct {
	FullText       string              `json:"fullText"`
	StructuredData *types.ResumeRecord `json:"structuredData"`
	VisualElements Elements            `json:"visualElements"`
	Confidence     float64             `json:"confidence"`
	Method         string              `json:"method"`
}

// Extractor produces a VisualExtractionResult from document bytes.
// rawText is the text-pipeline transcription of the same document, given to
// the model as a hint.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mimeType, rawText string) (*VisualExtractionResult, error)
}

// Options configures a GeminiExtractor. Zero values select the defaults.
type Options struct {
	Retry  llm.RetryPolicy
	Tier   llm.ModelTier
	Logger logrus.FieldLogger
}

// GeminiExtractor sends the document to a multimodal model through
// llm.Client. Gemini is the usual provider; any client whose
// GenerateFromDocument accepts the document type works.
type GeminiExtractor struct {
	client llm.Client
	retry  llm.RetryPolicy
	tier   llm.ModelTier
	log    logrus.FieldLogger
}

// NewGeminiExtractor returns an extractor that calls client.
func NewGeminiExtractor(client llm.Client, opts Options) *GeminiExtractor {
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = llm.DefaultRetryPolicy()
	}
	tier := opts.Tier
	if tier == "" {
		tier = llm.TierAdvanced
	}
	return &GeminiExtractor{
		client: client,
		retry:  retry,
		tier:   tier,
		log:    logging.OrDiscard(opts.Logger),
	}
}

// Available reports whether the extractor has a model to call.
func (g *GeminiExtractor) Available() bool {
	return g != nil && g.client != nil
}

// Extract runs the vision pass. Capability failures are retried under the
// extractor's policy; a response that is not a JSON object is an
// *ExtractionError.
func (g *GeminiExtractor) Extract(ctx context.Context, document []byte, mimeType, rawText string) (*VisualExtractionResult, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	if len(document) == 0 {
		return nil, &ExtractionError{Message: "document is empty"}
	}
	if !Supported(mimeType) {
		return nil, &UnsupportedTypeError{MIMEType: mimeType}
	}

	prompt := prompts.Format(prompts.MustGet("vision.json", "extract-visual"), map[string]string{
		"RawText": truncateRunes(rawText, rawTextRunes),
	})
	log := g.log.WithFields(logrus.Fields{
		"mime_type": mimeType,
		"model":     g.client.GetModel(g.tier),
	})

	start := time.Now()
	var response string
	attempts, err := g.retry.Do(ctx, func(ctx context.Context) error {
		text, err := g.client.GenerateFromDocument(ctx, prompt, document, mimeType, g.tier)
		if err != nil {
			return err
		}
		response = text
		return nil
	}, func(a llm.Attempt) {
		log.WithFields(logrus.Fields{
			"attempt": a.Number,
			"delay":   a.Delay.String(),
		}).WithError(a.Err).Warn("vision attempt failed, retrying")
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ExtractionError{Message: "vision call failed", Attempts: attempts, Cause: err}
	}

	result, err := Decode(response, rawText)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"attempt":  attempts,
		"bullets":  len(result.VisualElements.BulletPoints),
		"duration": time.Since(start).String(),
	}).Debug("vision pass complete")
	return result, nil
}

// wireResult mirrors the JSON the vision prompt asks for. Every piece is
// kept raw and decoded leniently, so a mistyped field is dropped on its own
// instead of failing the whole response.
type wireResult struct {
	FullText       json.RawMessage `json:"fullText"`
	StructuredData json.RawMessage `json:"structuredData"`
	Sections       json.RawMessage `json:"sections"`
	VisualElements json.RawMessage `json:"visualElements"`
}

// Decode parses a vision response. Missing pieces are filled in: fullText
// falls back to rawText, the layout to LayoutUnknown, and lists to empty.
func Decode(response, rawText string) (*VisualExtractionResult, error) {
	cleaned := strings.TrimSpace(llm.CleanJSONBlock(response))
	if cleaned == "" {
		return nil, &ExtractionError{Message: "empty vision response"}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &ExtractionError{Message: "vision response is not a JSON object", Cause: err}
	}

	record := types.NewResumeRecord()
	structured := wire.StructuredData
	if isNull(structured) {
		structured = wire.Sections
	}
	if !isNull(structured) {
		if err := json.Unmarshal(structured, record); err != nil {
			// a non-object structuredData leaves the record empty
			record = types.NewResumeRecord()
		}
		record.Sanitize()
		record.EnsureLists()
	}

	result := &VisualExtractionResult{
		FullText:       types.LenientString(wire.FullText),
		StructuredData: record,
		Confidence:     visionConfidence,
		Method:         MethodVision,
	}
	if strings.TrimSpace(result.FullText) == "" {
		result.FullText = rawText
	}
	var ve map[string]json.RawMessage
	if err := json.Unmarshal(wire.VisualElements, &ve); err == nil && ve != nil {
		result.VisualElements = Elements{
			BulletPoints: types.LenientStrings(ve["bulletPoints"]),
			ItalicText:   types.LenientStrings(ve["italicText"]),
			BoldText:     types.LenientStrings(ve["boldText"]),
			SmallText:    types.LenientStrings(ve["smallText"]),
			Headers:      types.LenientStrings(ve["headers"]),
			Footers:      types.LenientStrings(ve["footers"]),
			Colors:       types.LenientStrings(ve["colors"]),
			Layout:       strings.TrimSpace(types.LenientString(ve["layout"])),
		}
	}
	result.VisualElements.normalize()
	return result, nil
}

func (e *Elements) normalize() {
	for _, list := range []*[]string{
		&e.BulletPoints, &e.ItalicText, &e.BoldText, &e.SmallText,
		&e.Headers, &e.Footers, &e.Colors,
	} {
		*list = compact(*list)
	}
	if e.Layout == "" {
		e.Layout = LayoutUnknown
	}
}

// AllBulletPoints returns every bullet the vision pass saw, from the flat
// bag and from the structured entries, once each in first-seen order.
func AllBulletPoints(r *VisualExtractionResult) []string {
	if r == nil {
		return []string{}
	}
	all := append([]string{}, r.VisualElements.BulletPoints...)
	if d := r.StructuredData; d != nil {
		for _, e := range d.Experience {
			all = append(all, e.Bullets...)
		}
		for _, p := range d.Projects {
			all = append(all, p.Bullets...)
		}
		for _, v := range d.Volunteer {
			all = append(all, v.Bullets...)
		}
	}
	return compact(all)
}

// compact trims, drops empties and exact duplicates. The result is never nil.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return t == "" || t == "null"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
