// Package confidence scores the quality of an extracted record per section
// and overall. Scores are a derived view and are never stored on the
// record itself.
package confidence

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kairoscv/resume-extractor/internal/types"
)

// Section weights in the overall score. They were tuned empirically and
// are not known to be optimal.
const (
	WeightContact    = 0.20
	WeightExperience = 0.30
	WeightEducation  = 0.20
	WeightSkills     = 0.15
	WeightProjects   = 0.15
)

// Level buckets the overall score.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelPoor      Level = "poor"
)

// LevelFor returns the level of an overall score.
func LevelFor(overall int) Level {
	switch {
	case overall >= 90:
		return LevelExcellent
	case overall >= 75:
		return LevelGood
	case overall >= 60:
		return LevelFair
	default:
		return LevelPoor
	}
}

// Issues reported by the section scorers.
const (
	IssueName            = "Missing or invalid name"
	IssueEmail           = "Missing or invalid email address"
	IssuePhone           = "Missing phone number"
	IssueProfiles        = "Missing LinkedIn/GitHub profile"
	IssueNoExperience    = "No work experience entries found"
	IssueSomeDates       = "Some experience entries missing dates"
	IssueNoDates         = "All experience entries missing dates"
	IssueNoEducation     = "No education entries found"
	IssueDegree          = "Degree information missing"
	IssueNoSkills        = "No technical skills listed"
	IssueNoLanguages     = "No programming languages listed"
	IssueNoFrameworks    = "No frameworks listed"
	IssueNoTools         = "No tools listed"
	IssueNoProjects      = "No projects listed"
	IssueSomeProjectTech = "Some projects missing technology details"
	IssueNoProjectTech   = "No technologies listed for projects"
)

// placeholderName is the template default that does not count as a name.
const placeholderName = "Your Name"

// FieldConfidence is the score of one section.
type FieldConfidence struct {
	Field  string   `json:"field"`
	Score  int      `json:"score"`
	Reason string   `json:"reason"`
	Issues []string `json:"issues"`
}

// Sections holds every section score.
type Sections struct {
	Contact    FieldConfidence `json:"contact"`
	Experience FieldConfidence `json:"experience"`
	Education  FieldConfidence `json:"education"`
	Skills     FieldConfidence `json:"skills"`
	Projects   FieldConfidence `json:"projects"`
}

// ResumeConfidence is the full report for a record.
type ResumeConfidence struct {
	Overall     int      `json:"overall"`
	Sections    Sections `json:"sections"`
	Suggestions []string `json:"suggestions"`
	Level       Level    `json:"level"`
}

// Score rates record. A nil record scores zero everywhere.
func Score(record *types.ResumeRecord) ResumeConfidence {
	if record == nil {
		record = types.NewResumeRecord()
	}
	sections := Sections{
		Contact:    ScoreContact(record.Contact),
		Experience: ScoreExperience(record.Experience),
		Education:  ScoreEducation(record.Education),
		Skills:     ScoreSkills(record.Skills),
		Projects:   ScoreProjects(record.Projects),
	}
	overall := Overall(sections)
	return ResumeConfidence{
		Overall:     overall,
		Sections:    sections,
		Suggestions: Suggestions(record, sections, overall),
		Level:       LevelFor(overall),
	}
}

// Overall is the weighted average of the section scores, rounded.
func Overall(s Sections) int {
	total := float64(s.Contact.Score)*WeightContact +
		float64(s.Experience.Score)*WeightExperience +
		float64(s.Education.Score)*WeightEducation +
		float64(s.Skills.Score)*WeightSkills +
		float64(s.Projects.Score)*WeightProjects
	return int(math.Round(total))
}

// ScoreContact gives 40 for a name, 20 for an email, 15 for a phone, 15
// for a LinkedIn or GitHub link (5 more for both) and 10 for a location.
func ScoreContact(c types.Contact) FieldConfidence {
	score := 0
	issues := []string{}

	name := strings.TrimSpace(c.Name)
	if name != "" && name != placeholderName {
		score += 40
	} else {
		issues = append(issues, IssueName)
	}
	if strings.Contains(c.Email, "@") {
		score += 20
	} else {
		issues = append(issues, IssueEmail)
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Phone)) >= 10 {
		score += 15
	} else {
		issues = append(issues, IssuePhone)
	}
	if c.LinkedIn != "" || c.GitHub != "" {
		score += 15
		if c.LinkedIn != "" && c.GitHub != "" {
			score += 5
		}
	} else {
		issues = append(issues, IssueProfiles)
	}
	if strings.TrimSpace(c.Location) != "" {
		score += 10
	}

	return section("contact", score, issues, [4]string{
		"Complete contact information",
		"Most contact details present",
		"Basic contact info provided",
		"Critical contact information missing",
	})
}

// ScoreExperience gives 30 for having any role, up to 40 for bullets, 10
// for dates, 10 for locations and up to 10 for several roles.
func ScoreExperience(entries []types.ExperienceEntry) FieldConfidence {
	if len(entries) == 0 {
		return FieldConfidence{Field: "experience", Reason: "No work experience provided", Issues: []string{IssueNoExperience}}
	}
	score := 30
	issues := []string{}

	withDates, withLocation := 0, 0
	for i, e := range entries {
		switch n := len(e.Bullets); {
		case n >= 3:
			score += 5
		case n >= 1:
			score += 2
		default:
			issues = append(issues, noBulletsIssue(i, e.Company))
		}
		if e.StartDate != "" && e.EndDate != "" {
			withDates++
		}
		if e.Location != "" {
			withLocation++
		}
	}
	score = min(score, 70)

	switch {
	case withDates == len(entries):
		score += 10
	case withDates > 0:
		score += 5
		issues = append(issues, IssueSomeDates)
	default:
		issues = append(issues, IssueNoDates)
	}
	switch {
	case withLocation == len(entries):
		score += 10
	case withLocation > 0:
		score += 5
	}
	switch {
	case len(entries) >= 3:
		score += 10
	case len(entries) >= 2:
		score += 5
	}

	return section("experience", score, issues, [4]string{
		"Detailed work experience with comprehensive bullet points",
		"Good work experience section",
		"Work experience needs more detail",
		"Work experience section is incomplete",
	})
}

func noBulletsIssue(i int, company string) string {
	if company == "" {
		company = "Unknown"
	}
	return "Experience entry " + strconv.Itoa(i+1) + " (" + company + ") has no bullet points"
}

// ScoreEducation gives 50 for having any entry, then 20 for a degree, 10
// each for field, GPA and location, all read from the first entry.
func ScoreEducation(entries []types.EducationEntry) FieldConfidence {
	if len(entries) == 0 {
		return FieldConfidence{Field: "education", Reason: "No education information provided", Issues: []string{IssueNoEducation}}
	}
	score := 50
	issues := []string{}

	first := entries[0]
	if first.Degree != "" {
		score += 20
	} else {
		issues = append(issues, IssueDegree)
	}
	if first.Field != "" {
		score += 10
	}
	if first.GPA != "" {
		score += 10
	}
	if first.Location != "" {
		score += 10
	}

	return section("education", score, issues, [4]string{
		"Complete education details",
		"Good education information",
		"Basic education provided",
		"Education details incomplete",
	})
}

// ScoreSkills rates the four canonical buckets up to 25 each. Skills that
// could not be placed in a bucket do not count.
func ScoreSkills(s types.Skills) FieldConfidence {
	langs, frameworks, tools, dbs := len(s.Languages), len(s.Frameworks), len(s.Tools), len(s.Databases)
	if langs+frameworks+tools+dbs == 0 {
		return FieldConfidence{Field: "skills", Reason: "No skills provided", Issues: []string{IssueNoSkills}}
	}
	score := 0
	issues := []string{}

	tiered := func(n int, issue string) {
		switch {
		case n >= 3:
			score += 25
		case n >= 2:
			score += 15
		case n >= 1:
			score += 10
		default:
			issues = append(issues, issue)
		}
	}
	tiered(langs, IssueNoLanguages)
	tiered(frameworks, IssueNoFrameworks)
	tiered(tools, IssueNoTools)
	switch {
	case dbs >= 2:
		score += 25
	case dbs >= 1:
		score += 15
	}

	return section("skills", score, issues, [4]string{
		"Comprehensive technical skills across all categories",
		"Good range of technical skills",
		"Basic technical skills listed",
		"Technical skills section needs expansion",
	})
}

// ScoreProjects gives 40 for having any project, up to 30 for bullets and
// 30 when every project names its technologies.
func ScoreProjects(projects []types.ProjectEntry) FieldConfidence {
	if len(projects) == 0 {
		return FieldConfidence{Field: "projects", Reason: "No projects provided", Issues: []string{IssueNoProjects}}
	}
	score := 40
	issues := []string{}

	withTech := 0
	for i, p := range projects {
		switch n := len(p.Bullets); {
		case n >= 2:
			score += 10
		case n >= 1:
			score += 5
		default:
			issues = append(issues, "Project "+strconv.Itoa(i+1)+" ("+p.Name+") has no description bullets")
		}
		if len(p.Technologies) > 0 {
			withTech++
		}
	}
	score = min(score, 70)

	switch {
	case withTech == len(projects):
		score += 30
	case withTech > 0:
		score += 15
		issues = append(issues, IssueSomeProjectTech)
	default:
		issues = append(issues, IssueNoProjectTech)
	}

	return section("projects", score, issues, [4]string{
		"Well-documented projects with clear descriptions",
		"Good project portfolio",
		"Projects need more detail",
		"Project section needs improvement",
	})
}

// section caps score at 100 and picks the reason for the 90/70/50 bands.
func section(field string, score int, issues []string, reasons [4]string) FieldConfidence {
	score = min(score, 100)
	var reason string
	switch {
	case score >= 90:
		reason = reasons[0]
	case score >= 70:
		reason = reasons[1]
	case score >= 50:
		reason = reasons[2]
	default:
		reason = reasons[3]
	}
	return FieldConfidence{Field: field, Score: score, Reason: reason, Issues: issues}
}
