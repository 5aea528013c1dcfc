// Package dedup collapses near-duplicate entries within a single extraction.
//
// Every function is a stable single pass: entries are visited in input
// order, each one is compared against the entries already accepted, and a
// match is merged into the first-seen entry. Output is deterministic and
// applying a function twice yields the same result as applying it once.
package dedup

import (
	"strings"

	"github.com/kairoscv/resume-extractor/internal/normalize"
	"github.com/kairoscv/resume-extractor/internal/similarity"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Experience removes duplicate roles. Two entries are the same role when
// company and title both score at least similarity.DuplicateThreshold and
// their normalized date ranges are equal. The same company with a different
// title is always a distinct role.
func Experience(entries []types.ExperienceEntry) []types.ExperienceEntry {
	out := make([]types.ExperienceEntry, 0, len(entries))
	for _, candidate := range entries {
		merged := false
		for i := range out {
			if sameRole(out[i], candidate) {
				mergeExperience(&out[i], candidate)
				merged = true
				break
			}
		}
		if !merged {
			candidate.Bullets = unionExact(nil, candidate.Bullets)
			out = append(out, candidate)
		}
	}
	return out
}

func sameRole(a, b types.ExperienceEntry) bool {
	return similarity.IsDuplicate(a.Company, b.Company) &&
		similarity.IsDuplicate(a.Title, b.Title) &&
		sameDateRange(a.StartDate, a.EndDate, b.StartDate, b.EndDate)
}

func sameDateRange(startA, endA, startB, endB string) bool {
	return strings.EqualFold(normalize.NormalizeDate(startA), normalize.NormalizeDate(startB)) &&
		strings.EqualFold(normalize.NormalizeDate(endA), normalize.NormalizeDate(endB))
}

// mergeExperience folds src into dst: bullets are unioned and empty fields
// on dst are backfilled from src. dst keeps its own populated metadata.
func mergeExperience(dst *types.ExperienceEntry, src types.ExperienceEntry) {
	dst.Bullets = unionExact(dst.Bullets, src.Bullets)
	backfill(&dst.Company, src.Company)
	backfill(&dst.Title, src.Title)
	backfill(&dst.Location, src.Location)
	backfill(&dst.StartDate, src.StartDate)
	backfill(&dst.EndDate, src.EndDate)
}

// unionExact appends the elements of add missing from base, comparing
// case-sensitively after trimming. The result is never nil.
func unionExact(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			key := strings.TrimSpace(s)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// unionFold is unionExact with case-insensitive comparison.
func unionFold(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

func backfill(dst *string, src string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(src) != "" {
		*dst = src
	}
}
