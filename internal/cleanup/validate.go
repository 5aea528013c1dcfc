package cleanup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kairoscv/resume-extractor/internal/types"
)

// ValidationResult reports problems found in a processed record. Issues make
// the record invalid; warnings do not.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// ValidateProcessedData checks a normalized record for missing identity,
// thin sections, surviving duplicates, and field constraint failures.
func ValidateProcessedData(record *types.ResumeRecord) ValidationResult {
	result := ValidationResult{Issues: []string{}, Warnings: []string{}}
	if record == nil {
		result.Issues = append(result.Issues, "record is missing")
		return result
	}

	name := strings.TrimSpace(record.Contact.Name)
	if len([]rune(name)) < 2 {
		result.Issues = append(result.Issues, "Name is missing or too short")
	}
	if record.Contact.Email == "" && record.Contact.Phone == "" {
		result.Warnings = append(result.Warnings, "No contact information (email or phone)")
	}
	if len(record.Experience) == 0 {
		result.Warnings = append(result.Warnings, "No work experience found")
	}
	if len(record.Education) == 0 {
		result.Warnings = append(result.Warnings, "No education found")
	}

	seen := make(map[string]bool, len(record.Experience))
	for _, e := range record.Experience {
		key := strings.ToLower(e.Company + "|" + e.Title + "|" + e.StartDate)
		if seen[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate experience: %s at %s", e.Title, e.Company))
			continue
		}
		seen[key] = true
	}

	if err := record.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Field %s failed %s check", fe.Namespace(), fe.Tag()))
			}
		} else {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result
}
