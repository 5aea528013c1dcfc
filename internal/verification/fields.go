package verification

import "github.com/kairoscv/resume-extractor/internal/types"

// Status is a step of the per-field state machine:
// unchecked → verifying → valid | invalid → researching → found | not_found.
type Status string

const (
	StatusUnchecked   Status = "unchecked"
	StatusVerifying   Status = "verifying"
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
	StatusResearching Status = "researching"
	StatusFound       Status = "found"
	StatusNotFound    Status = "not_found"
)

// Stage names carried by progress events.
const (
	StageVerification = "verification"
	StageResearch     = "research"
)

// Field is a contact field the engine checks. Build one with NewField; a
// Field without an accessor is skipped by the engine.
type Field struct {
	// Key is the dotted path reported in events, e.g. "contact.email".
	Key string
	// Name is the short name used in messages and label searches.
	Name         string
	ExpectedType string
	Required     bool
	value        func(*types.Contact) *string
}

// NewField returns a Field that reads and writes the string value points at.
func NewField(key, name, expectedType string, required bool, value func(*types.Contact) *string) Field {
	return Field{Key: key, Name: name, ExpectedType: expectedType, Required: required, value: value}
}

func (f Field) usable() bool {
	return f.value != nil && f.Key != ""
}

// Get returns the field's current value in c.
func (f Field) Get(c *types.Contact) string {
	if f.value == nil {
		return ""
	}
	return *f.value(c)
}

// Set stores v in c.
func (f Field) Set(c *types.Contact, v string) {
	if f.value != nil {
		*f.value(c) = v
	}
}

// CriticalFields are checked in this order. The first four are required.
var CriticalFields = []Field{
	NewField("contact.name", "name", "person's full name", true,
		func(c *types.Contact) *string { return &c.Name }),
	NewField("contact.email", "email", "email address", true,
		func(c *types.Contact) *string { return &c.Email }),
	NewField("contact.phone", "phone", "phone number", true,
		func(c *types.Contact) *string { return &c.Phone }),
	NewField("contact.location", "location", "city and state or country", true,
		func(c *types.Contact) *string { return &c.Location }),
	NewField("contact.linkedin", "linkedin", "LinkedIn profile URL", false,
		func(c *types.Contact) *string { return &c.LinkedIn }),
	NewField("contact.github", "github", "GitHub profile URL", false,
		func(c *types.Contact) *string { return &c.GitHub }),
	NewField("contact.website", "website", "personal website URL", false,
		func(c *types.Contact) *string { return &c.Website }),
}
