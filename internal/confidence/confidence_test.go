package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/types"
)

func role(company string, bullets int) types.ExperienceEntry {
	e := types.ExperienceEntry{Company: company, Title: "Engineer", Location: "Remote", StartDate: "Jan 2020", EndDate: "Present"}
	for i := 0; i < bullets; i++ {
		e.Bullets = append(e.Bullets, "Did a thing")
	}
	return e
}

func strongRecord() *types.ResumeRecord {
	r := types.NewResumeRecord()
	r.Contact = types.Contact{
		Name: "Jane Roe", Email: "jane@example.com", Phone: "555-123-4567",
		LinkedIn: "linkedin.com/in/janeroe", GitHub: "github.com/janeroe", Location: "Austin, TX",
	}
	r.Experience = []types.ExperienceEntry{role("A", 3), role("B", 3), role("C", 3), role("D", 3)}
	r.Education = []types.EducationEntry{{Institution: "MIT", Degree: "B.S.", Field: "CS", GPA: "3.9", Location: "Cambridge, MA"}}
	r.Skills = types.Skills{
		Languages:  []string{"Go", "Python", "Rust"},
		Frameworks: []string{"React", "Django", "Gin"},
		Tools:      []string{"Docker", "Git", "Terraform"},
		Databases:  []string{"PostgreSQL", "Redis"},
	}
	r.Projects = []types.ProjectEntry{{Name: "Tracker", Bullets: []string{"a", "b"}, Technologies: []string{"Go"}}}
	return r
}

func TestScore_Strong(t *testing.T) {
	got := Score(strongRecord())

	assert.Equal(t, 100, got.Sections.Contact.Score)
	assert.Equal(t, 80, got.Sections.Experience.Score)
	assert.Equal(t, 100, got.Sections.Education.Score)
	assert.Equal(t, 100, got.Sections.Skills.Score)
	assert.Equal(t, 80, got.Sections.Projects.Score)
	assert.Equal(t, 91, got.Overall)
	assert.Equal(t, LevelExcellent, got.Level)
	assert.Equal(t, []string{suggestNone}, got.Suggestions)
}

func TestScore_Moderate(t *testing.T) {
	r := types.NewResumeRecord()
	r.Contact = types.Contact{Name: "Jane Roe", Email: "jane@example.com", Phone: "(555) 123-4567", LinkedIn: "linkedin.com/in/janeroe"}
	r.Experience = []types.ExperienceEntry{
		role("Initech", 3),
		{Company: "Globex", Title: "Intern", StartDate: "Jun 2018", Bullets: []string{"Filed reports"}},
	}
	r.Education = []types.EducationEntry{{Institution: "MIT", Degree: "B.S.", Field: "CS", Location: "Cambridge, MA"}}
	r.Skills = types.Skills{
		Languages:  []string{"Go", "Python", "Rust"},
		Frameworks: []string{"React", "Django"},
		Databases:  []string{"PostgreSQL"},
	}
	r.Projects = []types.ProjectEntry{{Name: "Tracker", Bullets: []string{"a", "b"}, Technologies: []string{"Go"}}}

	got := Score(r)

	assert.Equal(t, 90, got.Sections.Contact.Score)
	assert.Equal(t, 52, got.Sections.Experience.Score)
	assert.Equal(t, "Work experience needs more detail", got.Sections.Experience.Reason)
	assert.Equal(t, []string{IssueSomeDates}, got.Sections.Experience.Issues)
	assert.Equal(t, 90, got.Sections.Education.Score)
	assert.Equal(t, 55, got.Sections.Skills.Score)
	assert.Equal(t, []string{IssueNoTools}, got.Sections.Skills.Issues)
	assert.Equal(t, 80, got.Sections.Projects.Score)

	assert.Equal(t, 72, got.Overall)
	assert.Equal(t, LevelFair, got.Level)
	assert.Equal(t, []string{suggestMoreExperience, suggestBullets, suggestQuantify}, got.Suggestions)
}

func TestScore_Empty(t *testing.T) {
	for _, r := range []*types.ResumeRecord{nil, types.NewResumeRecord()} {
		got := Score(r)
		assert.Zero(t, got.Overall)
		assert.Equal(t, LevelPoor, got.Level)
		assert.Equal(t, []string{IssueName, IssueEmail, IssuePhone, IssueProfiles}, got.Sections.Contact.Issues)
		assert.Equal(t, []string{IssueNoExperience}, got.Sections.Experience.Issues)

		require.Len(t, got.Suggestions, 9)
		assert.Equal(t, contactSuggestions[IssueName], got.Suggestions[0])
		assert.Contains(t, got.Suggestions, suggestAddExperience)
		assert.Contains(t, got.Suggestions, suggestAddProjects)
		assert.NotContains(t, got.Suggestions, suggestBullets)
	}
}

func TestScoreContact(t *testing.T) {
	tests := []struct {
		name    string
		contact types.Contact
		want    int
	}{
		{"placeholder name", types.Contact{Name: "Your Name", Email: "a@b.co"}, 20},
		{"short phone", types.Contact{Name: "Jane", Phone: "555-1234"}, 40},
		{"github only", types.Contact{Name: "Jane", GitHub: "github.com/jane"}, 55},
		{"both profiles", types.Contact{Name: "Jane", GitHub: "g", LinkedIn: "l"}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreContact(tt.contact).Score)
		})
	}
}

func TestScoreProjects_Issues(t *testing.T) {
	got := ScoreProjects([]types.ProjectEntry{
		{Name: "A", Technologies: []string{"Go"}},
		{Name: "B", Bullets: []string{"x"}},
	})
	assert.Equal(t, 40+5+15, got.Score)
	assert.Equal(t, []string{"Project 1 (A) has no description bullets", IssueSomeProjectTech}, got.Issues)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelExcellent, LevelFor(90))
	assert.Equal(t, LevelGood, LevelFor(89))
	assert.Equal(t, LevelGood, LevelFor(75))
	assert.Equal(t, LevelFair, LevelFor(60))
	assert.Equal(t, LevelPoor, LevelFor(59))
}
