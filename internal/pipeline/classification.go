package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kairoscv/resume-extractor/internal/classifier"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// classificationConcurrency caps in-flight placement checks.
const classificationConcurrency = 4

// placementCheck is one value whose field placement is confirmed.
type placementCheck struct {
	path         string
	field        string
	value        string
	expectedType string
}

func placementChecks(record *types.ResumeRecord) []placementCheck {
	var checks []placementCheck
	if record.Contact.Name != "" {
		checks = append(checks, placementCheck{path: "contact.name", field: "name", value: record.Contact.Name, expectedType: "person's full name"})
	}
	for i, exp := range record.Experience {
		if exp.Company != "" {
			checks = append(checks, placementCheck{
				path: fmt.Sprintf("experience[%d].company", i), field: "company", value: exp.Company, expectedType: "company name",
			})
		}
		if exp.Title != "" {
			checks = append(checks, placementCheck{
				path: fmt.Sprintf("experience[%d].title", i), field: "title", value: exp.Title, expectedType: "job title",
			})
		}
	}
	return checks
}

func allSkills(s types.Skills) []string {
	out := make([]string, 0, s.Total())
	for _, bucket := range [][]string{s.Languages, s.Frameworks, s.Tools, s.Databases, s.Other} {
		out = append(out, bucket...)
	}
	return out
}

// classify confirms the placement of name, company and title values and
// re-buckets the skills in one batch. A misplaced value is reported as a
// warning and left in place; failed calls keep the current values.
func (r *run) classify(ctx context.Context, record *types.ResumeRecord) error {
	checks := placementChecks(record)
	placements := make([]classifier.Placement, len(checks))
	skillNames := allSkills(record.Skills)
	var categorized types.Skills

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(classificationConcurrency)

	if r.o.classifier.Available() {
		for i, c := range checks {
			g.Go(func() error {
				p, err := r.o.classifier.ValidateFieldPlacement(gCtx, c.field, c.value, c.expectedType)
				if err != nil {
					if gCtx.Err() != nil {
						return gCtx.Err()
					}
					r.log.WithError(err).WithField("field", c.path).Warn("Placement check failed, keeping value")
					p = classifier.Placement{IsCorrect: true}
				}
				placements[i] = p
				return nil
			})
		}
	}
	if len(skillNames) > 0 {
		g.Go(func() error {
			// on failure the classifier logs and answers from the lookup tables
			categorized, _ = r.o.classifier.CategorizeSkillsBatch(gCtx, skillNames)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.o.classifier.Available() {
		for i, p := range placements {
			if p.IsCorrect {
				continue
			}
			msg := fmt.Sprintf("%s %q may be misplaced", checks[i].path, checks[i].value)
			if p.SuggestedField != "" {
				msg += fmt.Sprintf(" (suggested: %s)", p.SuggestedField)
			}
			r.warn(msg)
		}
	}

	if len(skillNames) > 0 {
		record.Skills = categorized
	}
	return nil
}
