package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/types"
	"github.com/kairoscv/resume-extractor/internal/visual"
)

func textRecord() *types.ResumeRecord {
	r := types.NewResumeRecord()
	r.Contact.Name = "Jane Roe"
	r.Contact.Email = "jane@example.com"
	r.Experience = []types.ExperienceEntry{
		{Company: "Google", Title: "Engineer", StartDate: "Jan 2020", EndDate: "Present", Bullets: []string{"Built search"}},
	}
	r.Education = []types.EducationEntry{{Institution: "MIT", Degree: "B.S."}}
	r.Skills.Languages = []string{"Go"}
	r.Projects = []types.ProjectEntry{{Name: "Tracker", Bullets: []string{"Wrote it"}}}
	return r
}

func visionOf(r *types.ResumeRecord) *visual.VisualExtractionResult {
	return &visual.VisualExtractionResult{
		StructuredData: r,
		VisualElements: visual.Elements{BulletPoints: []string{"Built search"}, Layout: "single-column"},
		Confidence:     0.95,
		Method:         visual.MethodVision,
	}
}

func TestMerge_FillsFromVision(t *testing.T) {
	text := textRecord()

	v := types.NewResumeRecord()
	v.Contact = types.Contact{Name: "Jane", Phone: "(555) 123-4567", Location: "Austin, TX"}
	v.Experience = []types.ExperienceEntry{
		{Company: "Google Inc", Title: "Engineer", Location: "Mountain View, CA", Bullets: []string{"Built search", "Cut latency 40%"}},
		{Company: "Initech", Title: "Intern", Bullets: []string{"Filed TPS reports"}},
	}
	v.Education = []types.EducationEntry{{Institution: "MIT", Honors: []string{"Cum Laude"}}}
	v.Skills.Languages = []string{"go", "Rust"}
	v.Projects = []types.ProjectEntry{{Name: "tracker", Technologies: []string{"Go"}}}
	v.Certifications = []types.Certification{{Name: "CKA"}}

	result := Merge(text, visionOf(v))
	data := result.Data

	assert.Equal(t, "Jane Roe", data.Contact.Name, "a shorter vision value never replaces text")
	assert.Equal(t, "(555) 123-4567", data.Contact.Phone)
	assert.Equal(t, "Austin, TX", data.Contact.Location)

	require.Len(t, data.Experience, 2)
	assert.Equal(t, "Google", data.Experience[0].Company)
	assert.Equal(t, []string{"Built search", "Cut latency 40%"}, data.Experience[0].Bullets)
	assert.Equal(t, "Mountain View, CA", data.Experience[0].Location)
	assert.Equal(t, "Initech", data.Experience[1].Company)

	require.Len(t, data.Education, 1)
	assert.Equal(t, []string{"Cum Laude"}, data.Education[0].Honors)
	assert.Equal(t, []string{"Go", "Rust"}, data.Skills.Languages)
	require.Len(t, data.Projects, 1)
	assert.Equal(t, []string{"Go"}, data.Projects[0].Technologies)
	assert.Len(t, data.Certifications, 1)

	assert.Equal(t, []string{
		"contact.phone",
		"contact.location",
		"experience.Google.bullets",
		"experience.Google.location",
		"experience.Initech",
		"education.MIT.honors",
		"skills.languages",
		"projects.Tracker.technologies",
		"certifications",
	}, result.Sources.FromVision)
	assert.Equal(t, []string{"experience.Google", "education.MIT", "projects.Tracker"}, result.Sources.Merged)
	assert.Equal(t, []string{"contact", "experience", "education", "skills", "projects"}, result.Sources.FromText)

	require.NotNil(t, result.Visual)
	assert.Equal(t, 1, result.Visual.BulletPoints)
	assert.Equal(t, "single-column", result.Visual.Layout)

	assert.Len(t, text.Experience, 1, "input record is not mutated")
	assert.Equal(t, []string{"Built search"}, text.Experience[0].Bullets)
	assert.Empty(t, text.Contact.Phone)
}

func TestMerge_SubsetAddsNothing(t *testing.T) {
	text := textRecord()

	subset := text.Clone()
	subset.Contact.Name = "Jane"
	subset.Projects = nil
	subset.Experience[0].Bullets = nil
	subset.Experience[0].Company = "GOOGLE"

	result := Merge(text, visionOf(subset))

	assert.Equal(t, []string{}, result.Sources.FromVision)
	assert.Equal(t, text.Clone(), result.Data)

	total := CountFields(text)
	assert.Equal(t, Completeness(total, total), result.Completeness)
}

func TestMerge_NilInputs(t *testing.T) {
	result := Merge(textRecord(), nil)
	assert.Empty(t, result.Sources.FromVision)
	assert.Nil(t, result.Visual)

	result = Merge(nil, &visual.VisualExtractionResult{})
	require.NotNil(t, result.Data)
	assert.NotNil(t, result.Data.Experience)
	assert.Equal(t, []string{}, result.Sources.FromText)
}

func TestMerge_EntriesWithoutKeysAreSkipped(t *testing.T) {
	v := types.NewResumeRecord()
	v.Experience = []types.ExperienceEntry{{}}
	v.Projects = []types.ProjectEntry{{Description: "no name"}}

	result := Merge(textRecord(), visionOf(v))
	assert.Len(t, result.Data.Experience, 1)
	assert.Len(t, result.Data.Projects, 1)
	assert.Empty(t, result.Sources.FromVision)
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		total, textOnly, want int
	}{
		{20, 15, 80},
		{30, 15, 100},
		{15, 15, 60},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Completeness(tt.total, tt.textOnly), "total=%d textOnly=%d", tt.total, tt.textOnly)
	}
}

func TestCountFields(t *testing.T) {
	r := types.NewResumeRecord()
	r.Contact.Name = "Jane Roe"
	r.Contact.Email = "jane@example.com"
	r.Experience = []types.ExperienceEntry{{Company: "A"}, {Company: "B"}}
	r.Skills.Languages = []string{"Go", "Rust", "C"}
	r.RawText = "not counted"

	assert.Equal(t, 7, CountFields(r))
	assert.Zero(t, CountFields(nil))
}

func TestMergeExtractions(t *testing.T) {
	primary := types.NewResumeRecord()
	primary.Contact.Name = "Jane Roe"
	primary.Experience = []types.ExperienceEntry{{Company: "Google", Bullets: []string{"a"}}}
	primary.Skills.Languages = []string{"Go"}

	secondary := types.NewResumeRecord()
	secondary.Contact.Name = "J. Roe"
	secondary.Contact.Email = "jane@example.com"
	secondary.Summary = "Engineer"
	secondary.Experience = []types.ExperienceEntry{
		{Company: "google", Bullets: []string{"b"}},
		{Company: "Initech"},
	}
	secondary.Skills.Languages = []string{"golang", "Rust"}
	secondary.Certifications = []types.Certification{{Name: "CKA"}}

	got := MergeExtractions(primary, secondary)

	assert.Equal(t, "Jane Roe", got.Contact.Name)
	assert.Equal(t, "jane@example.com", got.Contact.Email)
	assert.Equal(t, "Engineer", got.Summary)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, []string{"a"}, got.Experience[0].Bullets, "matched entries are not merged")
	assert.Equal(t, "Initech", got.Experience[1].Company)
	assert.Equal(t, []string{"Go", "Rust"}, got.Skills.Languages)
	assert.Len(t, got.Certifications, 1)

	assert.Empty(t, primary.Contact.Email, "primary is not mutated")

	assert.Equal(t, primary.Clone(), MergeExtractions(primary, nil))
	assert.Equal(t, "J. Roe", MergeExtractions(nil, secondary).Contact.Name)
}
