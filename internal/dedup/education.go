package dedup

import (
	"sort"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/similarity"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Education removes duplicate degrees. Two entries are the same degree when
// their institutions match (similarity at or above the duplicate threshold,
// or one is the acronym of the other) and their degrees overlap. Several
// degrees from one institution stay distinct.
func Education(entries []types.EducationEntry) []types.EducationEntry {
	out := make([]types.EducationEntry, 0, len(entries))
	for _, candidate := range entries {
		merged := false
		for i := range out {
			if InstitutionsMatch(out[i].Institution, candidate.Institution) &&
				DegreesOverlap(out[i].Degree, candidate.Degree) {
				mergeEducation(&out[i], candidate)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, candidate)
		}
	}
	return out
}

func mergeEducation(dst *types.EducationEntry, src types.EducationEntry) {
	backfill(&dst.Institution, src.Institution)
	backfill(&dst.Degree, src.Degree)
	backfill(&dst.Field, src.Field)
	backfill(&dst.Location, src.Location)
	backfill(&dst.StartDate, src.StartDate)
	backfill(&dst.EndDate, src.EndDate)
	backfill(&dst.GPA, src.GPA)
	if len(src.Honors) > 0 {
		dst.Honors = unionFold(dst.Honors, src.Honors)
	}
	if len(src.RelevantCoursework) > 0 {
		dst.RelevantCoursework = unionFold(dst.RelevantCoursework, src.RelevantCoursework)
	}
}

var acronymStopWords = map[string]bool{
	"of": true, "the": true, "and": true, "at": true, "in": true, "for": true, "&": true,
}

// acronym builds the initialism of a multi-word name, skipping connecting
// words: "Massachusetts Institute of Technology" becomes "mit".
func acronym(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '.'
	})
	if len(words) < 2 {
		return ""
	}
	var sb strings.Builder
	for _, w := range words {
		if acronymStopWords[strings.ToLower(w)] {
			continue
		}
		sb.WriteString(strings.ToLower(w[:1]))
	}
	return sb.String()
}

// InstitutionsMatch reports whether two institution names refer to the same
// school.
func InstitutionsMatch(a, b string) bool {
	if similarity.IsDuplicate(a, b) {
		return true
	}
	ca, cb := similarity.Canonical(a), similarity.Canonical(b)
	if len(ca) < 2 || len(cb) < 2 {
		return false
	}
	return acronym(a) == cb || acronym(b) == ca
}

// degreeAliases maps canonical spellings to a degree kind.
var degreeAliases = map[string]string{
	"bs": "bs", "bsc": "bs", "bachelorofscience": "bs", "bachelorsofscience": "bs", "bachelorsinscience": "bs",
	"ba": "ba", "bachelorofarts": "ba", "bachelorsofarts": "ba",
	"beng": "beng", "bachelorofengineering": "beng",
	"bba": "bba", "bachelorofbusinessadministration": "bba",
	"ms": "ms", "msc": "ms", "masterofscience": "ms", "mastersofscience": "ms", "mastersinscience": "ms",
	"ma": "ma", "masterofarts": "ma", "mastersofarts": "ma",
	"meng": "meng", "masterofengineering": "meng",
	"mba": "mba", "masterofbusinessadministration": "mba",
	"phd": "phd", "doctorofphilosophy": "phd",
	"associate": "associate", "associateofscience": "associate", "associateofarts": "associate",
	"bachelor": "bachelor", "bachelors": "bachelor",
	"master": "master", "masters": "master",
}

// degreeAliasKeys lists the aliases longest first so "bsc" wins over "bs".
var degreeAliasKeys = func() []string {
	keys := make([]string, 0, len(degreeAliases))
	for k := range degreeAliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// DegreeKind classifies a degree string ("B.S. in Computer Science",
// "Bachelor of Science") into a canonical kind, or "" when unknown.
func DegreeKind(degree string) string {
	c := similarity.Canonical(degree)
	if c == "" {
		return ""
	}
	for _, alias := range degreeAliasKeys {
		if c == alias {
			return degreeAliases[alias]
		}
	}
	for _, alias := range degreeAliasKeys {
		// a short alias only counts as a prefix when a field follows ("bsin...")
		if len(alias) <= 4 {
			if strings.HasPrefix(c, alias+"in") || strings.HasPrefix(c, alias+"of") {
				return degreeAliases[alias]
			}
			continue
		}
		if strings.HasPrefix(c, alias) {
			return degreeAliases[alias]
		}
	}
	return ""
}

// genericLevels lists which specific kinds a generic kind ("bachelor")
// is compatible with.
var genericLevels = map[string]map[string]bool{
	"bachelor": {"bs": true, "ba": true, "beng": true, "bba": true},
	"master":   {"ms": true, "ma": true, "meng": true, "mba": true},
}

func genericDegreeMatch(generic, specific string) bool {
	return genericLevels[generic][specific]
}

// DegreesOverlap reports whether two degree strings describe the same
// degree. A missing degree on either side overlaps anything.
func DegreesOverlap(a, b string) bool {
	ca, cb := similarity.Canonical(a), similarity.Canonical(b)
	if ca == "" || cb == "" {
		return true
	}
	ka, kb := DegreeKind(a), DegreeKind(b)
	if ka != "" && kb != "" {
		return ka == kb || genericDegreeMatch(ka, kb) || genericDegreeMatch(kb, ka)
	}
	return strings.Contains(ca, cb) || strings.Contains(cb, ca) || similarity.IsDuplicate(a, b)
}
