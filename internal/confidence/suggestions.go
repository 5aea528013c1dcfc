package confidence

import "github.com/kairoscv/resume-extractor/internal/types"

// Section thresholds below which suggestions are generated.
const (
	contactThreshold    = 70
	experienceThreshold = 60
	educationThreshold  = 60
	skillsThreshold     = 50
	projectsThreshold   = 50
	overallTipThreshold = 75

	// minBullets is the bullet count below which a role gets a suggestion.
	minBullets = 3
)

var contactSuggestions = map[string]string{
	IssueName:     "Make sure your full name is clearly visible at the top of your resume",
	IssueEmail:    "Add a valid email address to your contact information",
	IssuePhone:    "Add a phone number to your contact information",
	IssueProfiles: "Consider adding LinkedIn or GitHub profile links to your contact information",
}

const (
	suggestAddExperience  = "Add a work experience section with job titles, companies, and accomplishments"
	suggestMoreExperience = "Add more detail to your work experience, including dates and locations for each role"
	suggestBullets        = "Add 3-5 bullet points for each job describing your achievements and impact"
	suggestEducation      = "Complete your education details: degree, field of study, and institution"
	suggestSkills         = "Expand your technical skills section with more languages, frameworks, and tools"
	suggestProjectDetail  = "Add 2-3 bullet points and the technologies used for each project"
	suggestAddProjects    = "Add a projects section to showcase what you have built"
	suggestQuantify       = "Use action verbs and quantify your achievements (e.g. 'Increased performance by 40%')"
	suggestNone           = "Your resume looks great! All sections are complete and well-detailed."
)

// Suggestions turns weak sections into actionable advice. The list is
// never empty.
func Suggestions(record *types.ResumeRecord, s Sections, overall int) []string {
	var out []string

	if s.Contact.Score < contactThreshold {
		for _, issue := range s.Contact.Issues {
			if msg, ok := contactSuggestions[issue]; ok {
				out = append(out, msg)
			}
		}
	}

	switch {
	case len(record.Experience) == 0:
		out = append(out, suggestAddExperience)
	case s.Experience.Score < experienceThreshold:
		out = append(out, suggestMoreExperience)
	}
	for _, e := range record.Experience {
		if len(e.Bullets) < minBullets {
			out = append(out, suggestBullets)
			break
		}
	}

	if s.Education.Score < educationThreshold {
		out = append(out, suggestEducation)
	}
	if s.Skills.Score < skillsThreshold {
		out = append(out, suggestSkills)
	}

	switch {
	case len(record.Projects) == 0:
		out = append(out, suggestAddProjects)
	case s.Projects.Score < projectsThreshold:
		out = append(out, suggestProjectDetail)
	}

	if overall < overallTipThreshold {
		out = append(out, suggestQuantify)
	}
	if len(out) == 0 {
		out = append(out, suggestNone)
	}
	return out
}
