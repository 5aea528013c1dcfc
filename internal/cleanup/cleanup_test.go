package cleanup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/types"
)

func sampleRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		Contact: types.Contact{
			Name:     "John Doe",
			Email:    "john@example.com",
			Phone:    "(555) 123-4567",
			LinkedIn: "https://www.linkedin.com/in/johndoe/",
			GitHub:   "https://github.com/johndoe",
			Location: "  San Francisco, CA  ",
		},
		Experience: []types.ExperienceEntry{
			{
				Company:   "Google Inc",
				Title:     "Software Engineer",
				StartDate: "January 2020",
				EndDate:   "present",
				Location:  "Mountain View",
				Bullets:   []string{"• Developed features", "● Led team"},
			},
			{
				Company:   "Google Inc.",
				Title:     "Software Engineer",
				StartDate: "Jan 2020",
				EndDate:   "Present",
				Location:  "Mountain View, CA",
				Bullets:   []string{"  • Developed features  ", "- Led team"},
			},
		},
		Education: []types.EducationEntry{
			{Institution: "MIT", Degree: "BS", Field: "Computer Science", StartDate: "2014", EndDate: "2018", GPA: "3.8"},
			{Institution: "MIT", Degree: "Bachelor of Science", Field: "CS", StartDate: "2014", EndDate: "2018", GPA: "3.8"},
		},
		Skills: types.Skills{
			Languages:  []string{"JavaScript", "javascript", "JS", "Python"},
			Frameworks: []string{"React", "react", "Vue"},
			Tools:      []string{"Git", "git"},
			Databases:  []string{"PostgreSQL"},
		},
		Projects: []types.ProjectEntry{},
	}
}

func TestHandleAllEdgeCases_FullRecord(t *testing.T) {
	result := HandleAllEdgeCases(sampleRecord(), "")

	assert.Equal(t, "555 123-4567", result.Contact.Phone)
	assert.Equal(t, "linkedin.com/in/johndoe", result.Contact.LinkedIn)
	assert.Equal(t, "github.com/johndoe", result.Contact.GitHub)
	assert.Equal(t, "San Francisco, CA", result.Contact.Location)

	require.Len(t, result.Experience, 1)
	exp := result.Experience[0]
	assert.Equal(t, "Jan 2020", exp.StartDate)
	assert.Equal(t, "Present", exp.EndDate)
	assert.Equal(t, "Mountain View", exp.Location)
	require.NotEmpty(t, exp.Bullets)
	assert.Equal(t, "Developed features", exp.Bullets[0])
	for _, b := range exp.Bullets {
		assert.NotContains(t, b, "•")
		assert.NotContains(t, b, "  ")
	}

	assert.Len(t, result.Education, 1)
	assert.Equal(t, []string{"JavaScript", "Python"}, result.Skills.Languages)
	assert.Equal(t, []string{"React", "Vue"}, result.Skills.Frameworks)
	assert.Equal(t, []string{"Git"}, result.Skills.Tools)
}

func TestHandleAllEdgeCases_DoesNotMutateInput(t *testing.T) {
	input := sampleRecord()

	HandleAllEdgeCases(input, "")

	assert.Len(t, input.Experience, 2)
	assert.Equal(t, "(555) 123-4567", input.Contact.Phone)
}

func TestHandleAllEdgeCases_EmptyFields(t *testing.T) {
	input := &types.ResumeRecord{Contact: types.Contact{Name: "John Doe"}}

	result := HandleAllEdgeCases(input, "")

	assert.Equal(t, "John Doe", result.Contact.Name)
	assert.Equal(t, []types.ExperienceEntry{}, result.Experience)
	assert.Equal(t, []types.EducationEntry{}, result.Education)
	assert.Equal(t, []string{}, result.Skills.Languages)
}

func TestHandleAllEdgeCases_MalformedInput(t *testing.T) {
	raw := `{
		"contact": null,
		"experience": null,
		"skills": {"languages": ["JavaScript", null], "frameworks": null, "databases": []}
	}`
	var record types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))

	var result *types.ResumeRecord
	assert.NotPanics(t, func() {
		result = HandleAllEdgeCases(&record, "")
	})

	assert.Empty(t, result.Experience)
	assert.NotNil(t, result.Experience)
	assert.Empty(t, result.Education)
	assert.NotNil(t, result.Education)
	assert.Equal(t, []string{"JavaScript"}, result.Skills.Languages)
}

func TestHandleAllEdgeCases_NilRecord(t *testing.T) {
	result := HandleAllEdgeCases(nil, "")

	require.NotNil(t, result)
	assert.Empty(t, result.Experience)
}

func TestHandleAllEdgeCases_KeepsExperienceWithoutBullets(t *testing.T) {
	input := &types.ResumeRecord{
		Experience: []types.ExperienceEntry{
			{Company: "Acme", Title: "Engineer", StartDate: "2019-03", EndDate: "2021-06"},
		},
	}

	result := HandleAllEdgeCases(input, "")

	require.Len(t, result.Experience, 1)
	assert.Equal(t, "Mar 2019", result.Experience[0].StartDate)
	assert.Equal(t, "Jun 2021", result.Experience[0].EndDate)
	assert.Equal(t, []string{}, result.Experience[0].Bullets)
}

func TestHandleAllEdgeCases_SwapsReversedDates(t *testing.T) {
	input := &types.ResumeRecord{
		Experience: []types.ExperienceEntry{
			{Company: "Acme", Title: "Engineer", StartDate: "Dec 2021", EndDate: "Jan 2019"},
		},
	}

	result := HandleAllEdgeCases(input, "")

	assert.Equal(t, "Jan 2019", result.Experience[0].StartDate)
	assert.Equal(t, "Dec 2021", result.Experience[0].EndDate)
}

func TestHandleAllEdgeCases_PageArtifacts(t *testing.T) {
	text := "John Doe\njohn@example.com\nPage 1 of 2\nExperience\nSoftware Engineer\nJohn Doe\nPage 2 of 2\nEducation"
	input := &types.ResumeRecord{Contact: types.Contact{Name: "John Doe", Email: "john@example.com"}}

	result := HandleAllEdgeCases(input, text)

	assert.Equal(t, "John Doe", result.Contact.Name)
	assert.Equal(t, "john@example.com", result.Contact.Email)
	assert.NotContains(t, result.RawText, "Page 1 of 2")
	assert.NotContains(t, result.RawText, "Page 2 of 2")
	assert.Contains(t, result.RawText, "John Doe")
}

func TestHandleAllEdgeCases_OpenCollections(t *testing.T) {
	input := &types.ResumeRecord{
		Contact: types.Contact{Email: " John@Example.com "},
		Certifications: []types.Certification{
			{Name: "AWS Solutions Architect", Issuer: "Amazon"},
			{Name: "aws solutions architect", Issuer: "amazon"},
			{Name: " "},
		},
		Awards: []types.Award{
			{Name: "Hackathon Winner", Issuer: "MLH"},
			{Name: "Hackathon Winner", Issuer: "MLH"},
		},
		Publications: []types.Publication{
			{Title: "Fast Parsing", URL: "https://www.example.com/paper/"},
			{Title: "fast parsing"},
		},
		LanguageProficiency: []types.LanguageProficiency{
			{Language: "Spanish", Proficiency: "Fluent"},
			{Language: "spanish"},
		},
		Hobbies:    []types.Hobby{{Name: "Chess"}, {Name: "chess"}, {Name: ""}},
		References: []string{"Available on request", "Available on request", ""},
		CustomSections: []types.CustomSection{
			{Heading: "Interests", Content: []string{"• Open source", "• Open source"}},
			{Heading: "Empty", Content: []string{"  ", ""}},
		},
	}

	result := HandleAllEdgeCases(input, "")

	assert.Equal(t, "john@example.com", result.Contact.Email)
	assert.Len(t, result.Certifications, 1)
	assert.Len(t, result.Awards, 1)
	require.Len(t, result.Publications, 1)
	assert.Equal(t, "example.com/paper", result.Publications[0].URL)
	assert.Len(t, result.LanguageProficiency, 1)
	assert.Len(t, result.Hobbies, 1)
	assert.Equal(t, []string{"Available on request"}, result.References)
	require.Len(t, result.CustomSections, 1)
	assert.Equal(t, []string{"Open source"}, result.CustomSections[0].Content)
}

func TestHandleAllEdgeCases_ProjectTechnologies(t *testing.T) {
	input := &types.ResumeRecord{
		Projects: []types.ProjectEntry{
			{Name: "Parser", Technologies: []string{"Go", "golang", "Redis"}, Link: "https://parser.dev/"},
			{Name: "parser", Bullets: []string{"• Parsed one million resumes"}},
		},
	}

	result := HandleAllEdgeCases(input, "")

	require.Len(t, result.Projects, 1)
	assert.Equal(t, []string{"Go", "Redis"}, result.Projects[0].Technologies)
	assert.Equal(t, "parser.dev", result.Projects[0].Link)
	assert.Equal(t, []string{"Parsed one million resumes"}, result.Projects[0].Bullets)
}

func TestValidateProcessedData(t *testing.T) {
	tests := []struct {
		name          string
		record        *types.ResumeRecord
		valid         bool
		issueCount    int
		warningSubstr string
	}{
		{
			name:          "missing name",
			record:        &types.ResumeRecord{Contact: types.Contact{Email: "a@b.com"}},
			valid:         false,
			issueCount:    1,
			warningSubstr: "No work experience found",
		},
		{
			name:          "no contact channel",
			record:        &types.ResumeRecord{Contact: types.Contact{Name: "Jane Roe"}},
			valid:         true,
			warningSubstr: "No contact information (email or phone)",
		},
		{
			name: "surviving duplicate",
			record: &types.ResumeRecord{
				Contact: types.Contact{Name: "Jane Roe", Phone: "555"},
				Experience: []types.ExperienceEntry{
					{Company: "Acme", Title: "Engineer", StartDate: "Jan 2020"},
					{Company: "acme", Title: "engineer", StartDate: "Jan 2020"},
				},
			},
			valid:         true,
			warningSubstr: "Duplicate experience",
		},
		{
			name:          "bad email format",
			record:        &types.ResumeRecord{Contact: types.Contact{Name: "Jane Roe", Email: "not-an-email"}},
			valid:         true,
			warningSubstr: "failed email check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateProcessedData(tt.record)

			assert.Equal(t, tt.valid, result.IsValid)
			assert.Len(t, result.Issues, tt.issueCount)
			found := false
			for _, w := range result.Warnings {
				if strings.Contains(w, tt.warningSubstr) {
					found = true
				}
			}
			assert.True(t, found, "expected warning containing %q in %v", tt.warningSubstr, result.Warnings)
		})
	}
}

func TestValidateProcessedData_Nil(t *testing.T) {
	result := ValidateProcessedData(nil)

	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Issues)
}

func TestFillDefaults(t *testing.T) {
	record := &types.ResumeRecord{
		Experience: []types.ExperienceEntry{{}},
		Education:  []types.EducationEntry{{Degree: "BS"}},
		Projects:   []types.ProjectEntry{{Description: "A tool"}},
	}

	FillDefaults(record)

	assert.Equal(t, UnknownCompany, record.Experience[0].Company)
	assert.Equal(t, UnknownPosition, record.Experience[0].Title)
	assert.Equal(t, []string{}, record.Experience[0].Bullets)
	assert.Equal(t, UnknownInstitution, record.Education[0].Institution)
	assert.Equal(t, UntitledProject, record.Projects[0].Name)
	assert.NotNil(t, record.Skills.Languages)

	assert.NotPanics(t, func() { FillDefaults(nil) })
}
