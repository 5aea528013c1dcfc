package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func goodResumeText() string {
	lines := []string{
		"Jane Roe",
		"jane@example.com | 555-123-4567 | Austin, TX",
		"",
		"EXPERIENCE",
		"Senior Software Engineer, Initech (2019 - Present)",
	}
	for i := 0; i < 8; i++ {
		lines = append(lines, "• Designed and shipped reliable services used by thousands of customers every day")
	}
	lines = append(lines,
		"EDUCATION",
		"Bachelor of Science in Computer Science, State University",
		"SKILLS",
		"Go, Python, PostgreSQL, Docker, Kubernetes",
	)
	return strings.Join(lines, "\n")
}

func TestAssessQuality_Good(t *testing.T) {
	q := AssessQuality(goodResumeText())

	assert.Equal(t, 100, q.Score)
	assert.Empty(t, q.Issues)
	assert.True(t, q.IsGoodQuality)
}

func TestAssessQuality_Empty(t *testing.T) {
	q := AssessQuality("")

	assert.Equal(t, 0, q.Score)
	assert.False(t, q.IsGoodQuality)
	assert.Contains(t, q.Issues, "Extracted text is too short (< 100 characters)")
	assert.Contains(t, q.Issues, "No common resume keywords found")
}

func TestAssessQuality_Deductions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "short single line with keywords",
			// <100 chars, 1 line, <50 words, 3 keywords
			text: "Jane Roe Software Engineer with experience in skills and education",
			want: 100 - 50 - 20 - 30,
		},
		{
			name: "lowercase with one keyword",
			text: strings.Repeat("just some words about work\n", 20),
			want: 100 - 15 - 15,
		},
		{
			name: "special character noise",
			text: strings.Repeat("Engineer #### #### #### experience\n", 20),
			want: 100 - 25 - 15,
		},
		{
			name: "symbol noise",
			// <100 chars, 1 line, <50 words, no keywords, high special ratio, no capitalization
			text: "##### $$$$$ %%%%% ^^^^^ &&&&&",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessQuality(tt.text).Score)
		})
	}
}

func TestAssessQuality_LongLines(t *testing.T) {
	text := goodResumeText()
	long := strings.Repeat("Experienced engineer building distributed systems ", 30)
	text = strings.ReplaceAll(text, "\n", " "+long+"\n")

	q := AssessQuality(text)
	assert.Equal(t, 90, q.Score)
	assert.True(t, q.IsGoodQuality)
}
