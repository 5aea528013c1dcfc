package structuring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/normalize"
	"github.com/kairoscv/resume-extractor/internal/skills"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// contactScanLines is how many leading lines are searched for contact
// details and the name.
const contactScanLines = 10

// unsectionedHeading holds body text of a document with no recognizable
// section headings.
const unsectionedHeading = "Additional Information"

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	linkedinPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_-]+/?`)
	githubPattern   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)?`)
	websitePattern  = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com|net|org|io|dev|me|ai|co|app|tech|site|xyz)(?:/[^\s|,]*)?`)
	locationPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z.]+(?:\s[A-Z][a-zA-Z.]+)*,\s*[A-Z]{2}\b`)
	remotePattern   = regexp.MustCompile(`(?i)^remote$`)
	namePattern     = regexp.MustCompile(`^[A-Z][A-Za-z'.-]*(?:\s+[A-Z][A-Za-z'.-]*)+$`)
	contactSplit    = regexp.MustCompile(`\s*[|•·]\s*|\s{3,}`)
	fieldSplit      = regexp.MustCompile(`\s+\|\s+|\s{2,}|\t`)

	actionVerbPattern = regexp.MustCompile(`(?i)^(?:developed|led|managed|created|built|designed|implemented|improved|increased|reduced|launched|architected|collaborated|delivered|drove|established|maintained|mentored|optimized|spearheaded|wrote|automated|migrated|coordinated|analyzed|conducted|supported|owned|shipped|scaled|streamlined|achieved|introduced|worked|responsible|organized|partnered|resolved|researched|trained|taught|presented|contributed|integrated|deployed|refactored)\b`)
	glyphPattern      = regexp.MustCompile(`^(?:[•●▪◦○■□➢➣✓✔►▸‣⁃]|[-*]\s)`)
	titlePattern      = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|analyst|intern|designer|consultant|director|lead|architect|scientist|specialist|coordinator|administrator|associate|officer|assistant|president|founder|head|vp|programmer|researcher|technician|representative|advisor|supervisor|fellow|teacher|instructor)\b`)
	roleAtPattern     = regexp.MustCompile(`^(.+?)\s+at\s+(.+)$`)

	institutionPattern = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy|polytechnic|conservatory)\b`)
	degreePattern      = regexp.MustCompile(`(?i:\b(?:bachelor|master|associate|doctor|doctorate|diploma|ph\.?\s?d|mba)\b)|\b(?:B\.?S\.?c?|B\.?A\.?|M\.?S\.?c?|M\.?A\.?|B\.?Eng|M\.?Eng|B\.?Tech|M\.?Tech|A\.?A\.?S?)(?:\s|$|,)`)
	degreeAbbrevLead   = regexp.MustCompile(`^((?:B|M|A)\.?(?:S|A|Sc|Eng|Tech)\.?|Ph\.?\s?D\.?|MBA)\s+(?:in\s+|of\s+)?(.+)$`)
	gpaPattern         = regexp.MustCompile(`(?i)\bGPA:?\s*(\d\.\d{1,2}(?:\s*/\s*\d(?:\.\d{1,2})?)?)`)
	honorsPattern      = regexp.MustCompile(`(?i)^(?:honou?rs|awards)\s*:\s*(.+)$|cum laude|dean'?s list|distinction|scholarship`)
	courseworkPattern  = regexp.MustCompile(`(?i)^(?:relevant\s+)?coursework\s*:\s*(.+)$`)
	techLabelPattern   = regexp.MustCompile(`(?i)^(?:technologies|tech stack|stack|built with|tools)\s*:\s*(.+)$`)
	trailingParens     = regexp.MustCompile(`\s*\(([^)]+)\)\s*$`)
	proficiencyPattern = regexp.MustCompile(`^(.+?)\s*(?:\(([^)]+)\)|\s[-–|]\s*(.+)|:\s*(.+))$`)
	projectNameSplit   = regexp.MustCompile(`\s+[|–—-]\s+|\s{2,}`)
	listEntrySplit     = regexp.MustCompile(`\s+\|\s+|,\s+|\s{2,}`)
)

// ParseHeuristic builds a record from plain text with rules alone. It never
// fails: text it cannot place ends up in custom sections or is left out of
// the record when it is only decoration.
func ParseHeuristic(text string) *types.ResumeRecord {
	record := types.NewResumeRecord()
	lines := splitLines(text)
	if len(lines) == 0 {
		return record
	}

	sections := splitSections(lines)
	header := sections[0].lines
	record.Contact = parseContact(header, lines)
	if len(sections) == 1 {
		if rest := nonBlank(header); len(rest) > contactScanLines {
			record.CustomSections = append(record.CustomSections, types.CustomSection{
				Heading: unsectionedHeading,
				Content: contentLines(rest[contactScanLines:]),
			})
		}
	}

	for _, sec := range sections[1:] {
		switch sec.kind {
		case sectionSummary:
			record.Summary = joinParagraph(sec.lines)
		case sectionExperience:
			record.Experience = append(record.Experience, parseExperience(sec.lines)...)
		case sectionEducation:
			record.Education = append(record.Education, parseEducation(sec.lines)...)
		case sectionSkills:
			mergeSkills(&record.Skills, parseSkills(sec.lines))
		case sectionProjects:
			record.Projects = append(record.Projects, parseProjects(sec.lines)...)
		case sectionCertifications:
			record.Certifications = append(record.Certifications, parseCertifications(sec.lines)...)
		case sectionAwards:
			record.Awards = append(record.Awards, parseAwards(sec.lines)...)
		case sectionPublications:
			record.Publications = append(record.Publications, parsePublications(sec.lines)...)
		case sectionLanguages:
			spoken, technical := parseLanguages(sec.lines)
			record.LanguageProficiency = append(record.LanguageProficiency, spoken...)
			mergeSkills(&record.Skills, technical)
		case sectionVolunteer:
			record.Volunteer = append(record.Volunteer, parseVolunteer(sec.lines)...)
		case sectionHobbies:
			record.Hobbies = append(record.Hobbies, parseHobbies(sec.lines)...)
		case sectionReferences:
			record.References = append(record.References, contentLines(sec.lines)...)
		case sectionCustom:
			if content := contentLines(sec.lines); len(content) > 0 {
				record.CustomSections = append(record.CustomSections, types.CustomSection{
					Heading: sec.heading,
					Content: content,
				})
			}
		}
	}

	record.Skills = dedup.Skills(record.Skills)
	record.Sanitize()
	record.EnsureLists()
	return record
}

// splitLines returns trimmed lines with blank runs collapsed to one "".
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(strings.ReplaceAll(l, "\u00a0", " "))
		if l == "" && (len(lines) == 0 || lines[len(lines)-1] == "") {
			continue
		}
		lines = append(lines, l)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ScanContact applies the contact rules to a block of text on its own, for
// callers that search a fragment of a document rather than parse it whole.
func ScanContact(text string) types.Contact {
	lines := splitLines(text)
	return parseContact(lines, lines)
}

func parseContact(header, all []string) types.Contact {
	var c types.Contact
	scan := nonBlank(header)
	if len(scan) > contactScanLines {
		scan = scan[:contactScanLines]
	}
	block := strings.Join(scan, "\n")
	whole := strings.Join(all, "\n")

	c.Email = firstMatch(emailPattern, block, whole)
	c.LinkedIn = firstMatch(linkedinPattern, block, whole)
	c.GitHub = firstMatch(githubPattern, block, whole)
	c.Phone = normalize.NormalizePhoneNumber(firstMatch(phonePattern, block, peripheral(all)))

	rest := emailPattern.ReplaceAllString(block, " ")
	rest = linkedinPattern.ReplaceAllString(rest, " ")
	rest = githubPattern.ReplaceAllString(rest, " ")
	c.Website = websitePattern.FindString(rest)

	for i, line := range scan {
		for _, part := range contactSplit.Split(line, -1) {
			part = strings.TrimSpace(part)
			if c.Name == "" && i < 3 && looksLikeName(part) {
				c.Name = part
				continue
			}
			if c.Location == "" {
				if loc := locationPattern.FindString(part); loc != "" && !emailPattern.MatchString(part) {
					c.Location = loc
				} else if remotePattern.MatchString(part) {
					c.Location = part
				}
			}
		}
	}
	return c
}

func looksLikeName(s string) bool {
	if len(s) == 0 || len(s) >= 50 || !namePattern.MatchString(s) {
		return false
	}
	if len(strings.Fields(s)) > 4 || titlePattern.MatchString(s) {
		return false
	}
	_, heading := classifyHeading(s)
	return !heading
}

// peripheral is the text where a phone number may hide outside the header:
// the first and last few lines.
func peripheral(lines []string) string {
	n := len(lines)
	if n <= 2*contactScanLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:contactScanLines], "\n") + "\n" + strings.Join(lines[n-contactScanLines:], "\n")
}

func firstMatch(re *regexp.Regexp, texts ...string) string {
	for _, t := range texts {
		if m := re.FindString(t); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// bulletText reports whether line is a bullet and returns its cleaned text.
// Glyph-led lines always are; lines opening with an action verb are when
// allowVerbs is set.
func bulletText(line string, allowVerbs bool) (string, bool) {
	if glyphPattern.MatchString(line) || (allowVerbs && actionVerbPattern.MatchString(line)) {
		return normalize.CleanBulletPoint(line), true
	}
	return "", false
}

// stripGlyph removes a leading bullet glyph but keeps the column spacing
// that separates a name from its location.
func stripGlyph(line string) string {
	if loc := glyphPattern.FindStringIndex(line); loc != nil {
		line = line[loc[1]:]
	}
	return strings.TrimSpace(line)
}

// continuation reports whether line carries on the previous bullet, i.e. a
// wrapped line starting in lower case.
func continuation(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLower(r)
}

func appendToLast(list []string, text string) []string {
	if len(list) == 0 {
		return append(list, text)
	}
	list[len(list)-1] = strings.TrimSpace(list[len(list)-1] + " " + text)
	return list
}

func isLocation(s string) bool {
	s = strings.TrimSpace(s)
	if remotePattern.MatchString(s) {
		return true
	}
	loc := locationPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// splitLocation separates a trailing "City, ST" or "Remote" from a line.
func splitLocation(line string) (string, string) {
	parts := fieldSplit.Split(strings.TrimSpace(line), -1)
	if len(parts) > 1 {
		last := strings.TrimSpace(parts[len(parts)-1])
		if locationPattern.MatchString(last) || remotePattern.MatchString(last) {
			return strings.Join(parts[:len(parts)-1], " | "), last
		}
	}
	if loc := locationPattern.FindStringIndex(line); loc != nil && loc[1] == len(strings.TrimSpace(line)) && loc[0] > 0 {
		head := strings.TrimRight(strings.TrimSpace(line[:loc[0]]), ",-–| ")
		if head != "" {
			return head, line[loc[0]:loc[1]]
		}
	}
	return strings.TrimSpace(line), ""
}

func parseExperience(lines []string) []types.ExperienceEntry {
	var entries []types.ExperienceEntry
	var cur *types.ExperienceEntry
	sawBlank := false

	flush := func() {
		if cur != nil && (cur.Company != "" || cur.Title != "" || len(cur.Bullets) > 0) {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for _, line := range lines {
		if line == "" {
			sawBlank = true
			continue
		}
		hasHeader := cur != nil && (cur.Company != "" || cur.Title != "")
		if text, ok := bulletText(line, hasHeader); ok {
			if cur == nil {
				cur = &types.ExperienceEntry{}
			}
			if text != "" {
				cur.Bullets = append(cur.Bullets, text)
			}
			sawBlank = false
			continue
		}
		if cur != nil && len(cur.Bullets) > 0 && continuation(line) {
			cur.Bullets = appendToLast(cur.Bullets, normalize.CleanBulletPoint(line))
			continue
		}

		span := extractDates(line)
		if span.rest == "" {
			if !span.found {
				continue
			}
			if cur == nil || cur.StartDate != "" || cur.EndDate != "" {
				flush()
				cur = &types.ExperienceEntry{}
			}
			cur.StartDate, cur.EndDate = span.start, span.end
			sawBlank = false
			continue
		}

		if cur != nil && cur.Location == "" && len(cur.Bullets) == 0 && isLocation(span.rest) {
			cur.Location = span.rest
			if span.found && cur.StartDate == "" && cur.EndDate == "" {
				cur.StartDate, cur.EndDate = span.start, span.end
			}
			continue
		}

		startNew := cur == nil || len(cur.Bullets) > 0 ||
			(sawBlank && hasHeader) ||
			(cur.Company != "" && cur.Title != "")
		if startNew {
			flush()
			cur = &types.ExperienceEntry{}
		}
		fillRole(cur, span.rest)
		if span.found && cur.StartDate == "" && cur.EndDate == "" {
			cur.StartDate, cur.EndDate = span.start, span.end
		}
		sawBlank = false
	}
	flush()

	for i := range entries {
		if entries[i].Bullets == nil {
			entries[i].Bullets = []string{}
		}
	}
	return entries
}

// fillRole assigns the parts of a header line to the entry's empty fields.
// "Title at Company" and "Title | Company" forms fill both at once.
func fillRole(e *types.ExperienceEntry, line string) {
	text, location := splitLocation(line)
	if location != "" && e.Location == "" {
		e.Location = location
	}

	if m := roleAtPattern.FindStringSubmatch(text); m != nil && e.Title == "" && e.Company == "" && titlePattern.MatchString(m[1]) {
		e.Title, e.Company = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		return
	}

	parts := fieldSplit.Split(text, -1)
	if len(parts) == 1 {
		parts = strings.Split(text, " | ")
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case e.Title == "" && titlePattern.MatchString(part):
			e.Title = part
		case e.Company == "":
			e.Company = part
		case e.Title == "":
			e.Title = part
		case e.Location == "":
			e.Location = part
		}
	}
}

func parseEducation(lines []string) []types.EducationEntry {
	var entries []types.EducationEntry
	var cur *types.EducationEntry

	flush := func() {
		if cur != nil && (cur.Institution != "" || cur.Degree != "") {
			entries = append(entries, *cur)
		}
		cur = nil
	}
	ensure := func() {
		if cur == nil {
			cur = &types.EducationEntry{}
		}
	}

	for _, line := range nonBlank(lines) {
		text := stripGlyph(line)
		if text == "" {
			continue
		}

		if m := courseworkPattern.FindStringSubmatch(text); m != nil {
			ensure()
			cur.RelevantCoursework = append(cur.RelevantCoursework, skills.Split(m[1])...)
			continue
		}
		if m := honorsPattern.FindStringSubmatch(text); m != nil && !institutionPattern.MatchString(text) && !degreePattern.MatchString(text) {
			ensure()
			if m[1] != "" {
				cur.Honors = append(cur.Honors, skills.Split(m[1])...)
			} else {
				cur.Honors = append(cur.Honors, text)
			}
			continue
		}

		if m := gpaPattern.FindStringSubmatch(text); m != nil {
			ensure()
			cur.GPA = strings.ReplaceAll(m[1], " ", "")
			text = stripRemainder(strings.Replace(text, m[0], " ", 1))
			if text == "" {
				continue
			}
		}

		span := extractDates(text)
		rest := span.rest

		switch {
		case institutionPattern.MatchString(rest):
			if cur != nil && cur.Institution != "" {
				flush()
			}
			ensure()
			name, location := splitLocation(rest)
			if parts := fieldSplit.Split(name, -1); len(parts) > 1 && degreePattern.MatchString(strings.Join(parts[1:], " ")) {
				name = parts[0]
				setDegree(cur, strings.Join(parts[1:], " "))
			}
			cur.Institution = name
			if location != "" {
				cur.Location = location
			}
		case degreePattern.MatchString(rest):
			if cur != nil && cur.Degree != "" {
				flush()
			}
			ensure()
			setDegree(cur, rest)
		case rest != "":
			ensure()
			if glyphPattern.MatchString(line) {
				cur.Honors = append(cur.Honors, rest)
			} else if cur.Field == "" && cur.Degree != "" {
				cur.Field = rest
			} else if cur.Institution == "" {
				cur.Institution = rest
			} else {
				cur.Honors = append(cur.Honors, rest)
			}
		}

		if span.found {
			ensure()
			applyEducationDates(cur, span)
		}
	}
	flush()
	return entries
}

func setDegree(e *types.EducationEntry, text string) {
	text, location := splitLocation(text)
	if location != "" && e.Location == "" {
		e.Location = location
	}
	degree, field := text, ""
	if m := degreeAbbrevLead.FindStringSubmatch(text); m != nil {
		degree, field = m[1], m[2]
	} else if idx := strings.Index(strings.ToLower(text), " in "); idx > 0 {
		degree, field = text[:idx], text[idx+len(" in "):]
	} else if parts := strings.SplitN(text, ",", 2); len(parts) == 2 {
		degree, field = parts[0], parts[1]
	}
	e.Degree = strings.TrimSpace(degree)
	if f := strings.TrimSpace(strings.Trim(field, ",|- ")); f != "" {
		e.Field = f
	}
}

func applyEducationDates(e *types.EducationEntry, span dateSpan) {
	if span.single {
		if e.EndDate == "" {
			e.EndDate = span.start
		}
		return
	}
	if e.StartDate == "" && e.EndDate == "" {
		e.StartDate, e.EndDate = span.start, span.end
	}
}

func parseSkills(lines []string) types.Skills {
	out := types.Skills{}
	for _, line := range nonBlank(lines) {
		label, items := skills.SplitLabeled(normalize.CleanBulletPoint(line))
		category, labeled := skills.ParseCategory(label)
		for _, item := range items {
			if labeled {
				skills.Add(&out, category, item)
			} else {
				skills.Add(&out, skills.Categorize(item), item)
			}
		}
	}
	return out
}

func mergeSkills(dst *types.Skills, src types.Skills) {
	dst.Languages = append(dst.Languages, src.Languages...)
	dst.Frameworks = append(dst.Frameworks, src.Frameworks...)
	dst.Tools = append(dst.Tools, src.Tools...)
	dst.Databases = append(dst.Databases, src.Databases...)
	dst.Other = append(dst.Other, src.Other...)
}

func parseProjects(lines []string) []types.ProjectEntry {
	var entries []types.ProjectEntry
	var cur *types.ProjectEntry

	flush := func() {
		if cur != nil && (cur.Name != "" || len(cur.Bullets) > 0 || cur.Description != "") {
			if cur.Bullets == nil {
				cur.Bullets = []string{}
			}
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for _, line := range nonBlank(lines) {
		if m := techLabelPattern.FindStringSubmatch(normalize.CleanBulletPoint(line)); m != nil {
			if cur == nil {
				cur = &types.ProjectEntry{}
			}
			cur.Technologies = append(cur.Technologies, skills.Split(m[1])...)
			continue
		}
		if text, ok := bulletText(line, true); ok {
			if cur == nil {
				cur = &types.ProjectEntry{}
			}
			if text != "" {
				cur.Bullets = append(cur.Bullets, text)
			}
			continue
		}
		if cur != nil && continuation(line) {
			if len(cur.Bullets) > 0 {
				cur.Bullets = appendToLast(cur.Bullets, normalize.CleanBulletPoint(line))
			} else {
				cur.Description = strings.TrimSpace(cur.Description + " " + line)
			}
			continue
		}
		if cur != nil && cur.Name != "" && len(cur.Bullets) == 0 && cur.Description == "" && !projectTitleShape(line) {
			cur.Description = normalize.CleanBulletPoint(line)
			continue
		}

		flush()
		cur = &types.ProjectEntry{}
		fillProject(cur, line)
	}
	flush()
	return entries
}

func projectTitleShape(line string) bool {
	return len(line) <= 80 && !strings.HasSuffix(line, ".")
}

func fillProject(p *types.ProjectEntry, line string) {
	if gh := githubPattern.FindString(line); gh != "" {
		p.GitHub = gh
		line = strings.Replace(line, gh, " ", 1)
	}
	if link := websitePattern.FindString(line); link != "" {
		p.Link = link
		line = strings.Replace(line, link, " ", 1)
	}
	line = extractDates(line).rest

	if m := trailingParens.FindStringSubmatch(line); m != nil && hasKnownSkill(skills.Split(m[1])) {
		p.Technologies = append(p.Technologies, skills.Split(m[1])...)
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	parts := projectNameSplit.Split(strings.TrimSpace(line), 2)
	p.Name = strings.TrimSpace(strings.Trim(parts[0], ":"))
	if len(parts) == 2 {
		tail := strings.TrimSpace(parts[1])
		if items := skills.Split(tail); hasKnownSkill(items) {
			p.Technologies = append(p.Technologies, items...)
			return
		}
		p.Description = tail
	}
}

func hasKnownSkill(items []string) bool {
	for _, item := range items {
		if skills.Categorize(item) != skills.CategoryOther {
			return true
		}
	}
	return false
}

// listEntry splits a one-line entry such as "AWS Solutions Architect |
// Amazon | 2021" into its name, issuer and date.
func listEntry(line string) (name, issuer, date string) {
	text := normalize.CleanBulletPoint(line)
	span := extractDates(text)
	if span.found {
		date = span.start
		if date == "" {
			date = span.end
		}
	}
	parts := listEntrySplit.Split(span.rest, 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		issuer = strings.TrimSpace(parts[1])
	}
	return name, issuer, date
}

func parseCertifications(lines []string) []types.Certification {
	var out []types.Certification
	for _, line := range nonBlank(lines) {
		name, issuer, date := listEntry(line)
		if name == "" {
			continue
		}
		out = append(out, types.Certification{Name: name, Issuer: issuer, Date: date})
	}
	return out
}

func parseAwards(lines []string) []types.Award {
	var out []types.Award
	for _, line := range nonBlank(lines) {
		name, issuer, date := listEntry(line)
		if name == "" {
			continue
		}
		out = append(out, types.Award{Name: name, Issuer: issuer, Date: date})
	}
	return out
}

func parsePublications(lines []string) []types.Publication {
	var out []types.Publication
	for _, line := range nonBlank(lines) {
		text := normalize.CleanBulletPoint(line)
		pub := types.Publication{}
		if url := websitePattern.FindString(text); url != "" && strings.Contains(url, "/") {
			pub.URL = url
			text = strings.Replace(text, url, " ", 1)
		}
		span := extractDates(text)
		if span.found {
			pub.Date = span.start
		}
		pub.Title = span.rest
		if pub.Title != "" {
			out = append(out, pub)
		}
	}
	return out
}

// parseLanguages reads a languages section. Items that are programming
// languages go to skills instead of spoken languages.
func parseLanguages(lines []string) ([]types.LanguageProficiency, types.Skills) {
	var spoken []types.LanguageProficiency
	technical := types.Skills{}
	for _, line := range nonBlank(lines) {
		for _, item := range skills.Split(normalize.CleanBulletPoint(line)) {
			lang, level := item, ""
			if m := proficiencyPattern.FindStringSubmatch(item); m != nil {
				lang = strings.TrimSpace(m[1])
				level = strings.TrimSpace(m[2] + m[3] + m[4])
			}
			if level == "" && skills.Categorize(lang) != skills.CategoryOther {
				skills.Add(&technical, skills.Categorize(lang), lang)
				continue
			}
			spoken = append(spoken, types.LanguageProficiency{Language: lang, Proficiency: level})
		}
	}
	return spoken, technical
}

func parseVolunteer(lines []string) []types.VolunteerEntry {
	roles := parseExperience(lines)
	out := make([]types.VolunteerEntry, 0, len(roles))
	for _, r := range roles {
		out = append(out, types.VolunteerEntry{
			Organization: r.Company,
			Role:         r.Title,
			Location:     r.Location,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			Bullets:      r.Bullets,
		})
	}
	return out
}

func parseHobbies(lines []string) []types.Hobby {
	var out []types.Hobby
	for _, line := range nonBlank(lines) {
		for _, item := range skills.Split(normalize.CleanBulletPoint(line)) {
			out = append(out, types.Hobby{Name: item})
		}
	}
	return out
}

func contentLines(lines []string) []string {
	var out []string
	for _, line := range nonBlank(lines) {
		if text := normalize.CleanBulletPoint(line); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func joinParagraph(lines []string) string {
	return strings.Join(contentLines(lines), " ")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
