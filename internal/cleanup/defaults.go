package cleanup

import "github.com/kairoscv/resume-extractor/internal/types"

// Placeholders written into required fields that are still empty after
// normalization.
const (
	UnknownCompany     = "Unknown Company"
	UnknownPosition    = "Unknown Position"
	UnknownInstitution = "Unknown Institution"
	UntitledProject    = "Untitled Project"
)

// FillDefaults writes placeholders into empty required entry fields and
// replaces nil lists with empty ones. It mutates the record in place.
func FillDefaults(record *types.ResumeRecord) {
	if record == nil {
		return
	}
	for i := range record.Experience {
		if record.Experience[i].Company == "" {
			record.Experience[i].Company = UnknownCompany
		}
		if record.Experience[i].Title == "" {
			record.Experience[i].Title = UnknownPosition
		}
	}
	for i := range record.Education {
		if record.Education[i].Institution == "" {
			record.Education[i].Institution = UnknownInstitution
		}
	}
	for i := range record.Projects {
		if record.Projects[i].Name == "" {
			record.Projects[i].Name = UntitledProject
		}
	}
	record.EnsureLists()
}
