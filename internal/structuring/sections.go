package structuring

import (
	"regexp"
	"strings"
	"unicode"
)

type sectionKind string

const (
	sectionHeader         sectionKind = "header"
	sectionSummary        sectionKind = "summary"
	sectionExperience     sectionKind = "experience"
	sectionEducation      sectionKind = "education"
	sectionSkills         sectionKind = "skills"
	sectionProjects       sectionKind = "projects"
	sectionCertifications sectionKind = "certifications"
	sectionAwards         sectionKind = "awards"
	sectionPublications   sectionKind = "publications"
	sectionLanguages      sectionKind = "languages"
	sectionVolunteer      sectionKind = "volunteer"
	sectionHobbies        sectionKind = "hobbies"
	sectionReferences     sectionKind = "references"
	sectionCustom         sectionKind = "custom"
)

// knownHeadings maps normalized heading text to its section.
var knownHeadings = map[string]sectionKind{
	"summary":                     sectionSummary,
	"professional summary":        sectionSummary,
	"career summary":              sectionSummary,
	"objective":                   sectionSummary,
	"career objective":            sectionSummary,
	"profile":                     sectionSummary,
	"professional profile":        sectionSummary,
	"about":                       sectionSummary,
	"about me":                    sectionSummary,
	"experience":                  sectionExperience,
	"work experience":             sectionExperience,
	"professional experience":     sectionExperience,
	"relevant experience":         sectionExperience,
	"employment":                  sectionExperience,
	"employment history":          sectionExperience,
	"work history":                sectionExperience,
	"career history":              sectionExperience,
	"education":                   sectionEducation,
	"academic background":         sectionEducation,
	"education and training":      sectionEducation,
	"skills":                      sectionSkills,
	"technical skills":            sectionSkills,
	"core competencies":           sectionSkills,
	"technologies":                sectionSkills,
	"skills and technologies":     sectionSkills,
	"skills and tools":            sectionSkills,
	"tools and technologies":      sectionSkills,
	"projects":                    sectionProjects,
	"personal projects":           sectionProjects,
	"selected projects":           sectionProjects,
	"key projects":                sectionProjects,
	"side projects":               sectionProjects,
	"certifications":              sectionCertifications,
	"certificates":                sectionCertifications,
	"licenses and certifications": sectionCertifications,
	"certifications and licenses": sectionCertifications,
	"awards":                      sectionAwards,
	"honors":                      sectionAwards,
	"honors and awards":           sectionAwards,
	"awards and honors":           sectionAwards,
	"achievements":                sectionAwards,
	"publications":                sectionPublications,
	"papers":                      sectionPublications,
	"languages":                   sectionLanguages,
	"language skills":             sectionLanguages,
	"spoken languages":            sectionLanguages,
	"volunteer":                   sectionVolunteer,
	"volunteering":                sectionVolunteer,
	"volunteer experience":        sectionVolunteer,
	"community service":           sectionVolunteer,
	"interests":                   sectionHobbies,
	"hobbies":                     sectionHobbies,
	"hobbies and interests":       sectionHobbies,
	"personal interests":          sectionHobbies,
	"references":                  sectionReferences,
}

// headingKeywords classifies emphasized headings that are not listed
// verbatim.
var headingKeywords = []struct {
	keyword string
	kind    sectionKind
}{
	{"volunteer", sectionVolunteer},
	{"experience", sectionExperience},
	{"employment", sectionExperience},
	{"education", sectionEducation},
	{"skill", sectionSkills},
	{"competenc", sectionSkills},
	{"technolog", sectionSkills},
	{"project", sectionProjects},
	{"certif", sectionCertifications},
	{"licens", sectionCertifications},
	{"award", sectionAwards},
	{"honor", sectionAwards},
	{"achievement", sectionAwards},
	{"publication", sectionPublications},
	{"interest", sectionHobbies},
	{"hobb", sectionHobbies},
	{"reference", sectionReferences},
	{"summary", sectionSummary},
	{"objective", sectionSummary},
}

const (
	maxHeadingLength = 40
	maxHeadingWords  = 5
)

var (
	nonHeadingChars = regexp.MustCompile(`[^a-z ]+`)
	companySuffix   = regexp.MustCompile(`(?i)\b(inc|llc|ltd|corp|corporation|co|gmbh|plc|company)\b\.?`)
)

// section is a run of lines under one heading.
type section struct {
	kind    sectionKind
	heading string
	lines   []string
}

func headingKey(line string) string {
	l := strings.ToLower(strings.TrimSpace(line))
	l = strings.TrimSuffix(l, ":")
	l = strings.ReplaceAll(l, "&", " and ")
	l = nonHeadingChars.ReplaceAllString(l, " ")
	return strings.Join(strings.Fields(l), " ")
}

func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// headingShape reports whether line is short enough and plain enough to be
// a heading at all.
func headingShape(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" || len(t) > maxHeadingLength || len(strings.Fields(t)) > maxHeadingWords {
		return false
	}
	if strings.ContainsAny(t, "@0123456789") {
		return false
	}
	if strings.HasSuffix(t, ".") || strings.HasSuffix(t, ",") {
		return false
	}
	return true
}

// classifyHeading returns the section a heading line opens. Title-case lines
// must match a known heading exactly; all-caps lines and lines ending in a
// colon may match by a keyword in their last word, so "PROJECT MANAGER"
// stays a role line.
func classifyHeading(line string) (sectionKind, bool) {
	if !headingShape(line) {
		return "", false
	}
	key := headingKey(line)
	if key == "" {
		return "", false
	}
	if kind, ok := knownHeadings[key]; ok {
		return kind, true
	}
	t := strings.TrimSpace(line)
	if !isAllCaps(t) && !strings.HasSuffix(t, ":") {
		return "", false
	}
	words := strings.Fields(key)
	last := words[len(words)-1]
	for _, hk := range headingKeywords {
		if strings.Contains(last, hk.keyword) {
			return hk.kind, true
		}
	}
	return "", false
}

// customHeading reports whether an unrecognized line should open a custom
// section. Entry sections never open one, since company and institution
// lines look like headings. Elsewhere, lines ending in a colon qualify, and
// all-caps lines qualify when the document styles its headings in capitals.
func customHeading(line string, capsHeadings bool, current sectionKind) bool {
	t := strings.TrimSpace(line)
	if entrySection(current) || !headingShape(t) || strings.ContainsAny(t, ",|•/") {
		return false
	}
	if strings.HasSuffix(t, ":") {
		return len(strings.TrimSuffix(t, ":")) > 0
	}
	return capsHeadings && isAllCaps(t) && !companySuffix.MatchString(t) && len(strings.Fields(t)) <= 4
}

func entrySection(kind sectionKind) bool {
	switch kind {
	case sectionExperience, sectionEducation, sectionProjects, sectionVolunteer:
		return true
	}
	return false
}

// splitSections cuts text into the lines before the first heading and one
// section per heading, in document order.
func splitSections(lines []string) []section {
	capsHeadings := false
	for _, l := range lines {
		if _, ok := classifyHeading(l); ok && isAllCaps(strings.TrimSpace(l)) {
			capsHeadings = true
			break
		}
	}

	sections := []section{{kind: sectionHeader}}
	seenHeading := false
	for _, line := range lines {
		if kind, ok := classifyHeading(line); ok {
			sections = append(sections, section{kind: kind, heading: cleanHeading(line)})
			seenHeading = true
			continue
		}
		if seenHeading && customHeading(line, capsHeadings, sections[len(sections)-1].kind) {
			sections = append(sections, section{kind: sectionCustom, heading: cleanHeading(line)})
			continue
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, line)
	}
	return sections
}

func cleanHeading(line string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
}
