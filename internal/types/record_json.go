package types

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// UnmarshalJSON decodes a record permissively. Model output and legacy
// snapshots routinely carry nulls, null list elements, and mixed shapes
// (certifications as plain strings, skills as a flat array). Recognized
// fields are filled, unrecognized or mistyped values are skipped, and the
// decode only fails when the payload is not a JSON object at all.
func (r *ResumeRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = ResumeRecord{}
	r.Contact = decodeContact(fields["contact"])
	r.Summary = rawString(fields["summary"])
	r.RawText = rawString(fields["rawText"])
	r.Skills = decodeSkills(fields["skills"])

	for _, obj := range rawObjects(fields["experience"]) {
		r.Experience = append(r.Experience, ExperienceEntry{
			Company:   rawString(obj["company"]),
			Title:     firstString(obj, "title", "position", "role"),
			Location:  rawString(obj["location"]),
			StartDate: rawString(obj["startDate"]),
			EndDate:   rawString(obj["endDate"]),
			Bullets:   rawStrings(firstRaw(obj, "bullets", "responsibilities", "highlights")),
		})
	}

	for _, obj := range rawObjects(fields["education"]) {
		r.Education = append(r.Education, EducationEntry{
			Institution:        firstString(obj, "institution", "school", "university"),
			Degree:             rawString(obj["degree"]),
			Field:              firstString(obj, "field", "major", "fieldOfStudy"),
			Location:           rawString(obj["location"]),
			StartDate:          rawString(obj["startDate"]),
			EndDate:            rawString(obj["endDate"]),
			GPA:                rawString(obj["gpa"]),
			Honors:             rawStrings(obj["honors"]),
			RelevantCoursework: rawStrings(firstRaw(obj, "relevantCoursework", "coursework")),
		})
	}

	for _, obj := range rawObjects(fields["projects"]) {
		r.Projects = append(r.Projects, ProjectEntry{
			Name:         firstString(obj, "name", "title"),
			Description:  rawString(obj["description"]),
			Technologies: rawStrings(obj["technologies"]),
			Bullets:      rawStrings(obj["bullets"]),
			Link:         firstString(obj, "link", "url"),
			GitHub:       rawString(obj["github"]),
		})
	}

	r.Certifications = decodeCertifications(fields["certifications"])

	for _, obj := range rawObjects(fields["awards"]) {
		r.Awards = append(r.Awards, Award{
			Name:        firstString(obj, "name", "title"),
			Issuer:      rawString(obj["issuer"]),
			Date:        rawString(obj["date"]),
			Description: rawString(obj["description"]),
		})
	}

	for _, obj := range rawObjects(fields["publications"]) {
		r.Publications = append(r.Publications, Publication{
			Title:   rawString(obj["title"]),
			Authors: rawStrings(obj["authors"]),
			Venue:   rawString(obj["venue"]),
			Date:    rawString(obj["date"]),
			URL:     rawString(obj["url"]),
		})
	}

	for _, obj := range rawObjects(fields["languageProficiency"]) {
		r.LanguageProficiency = append(r.LanguageProficiency, LanguageProficiency{
			Language:      rawString(obj["language"]),
			Proficiency:   rawString(obj["proficiency"]),
			Certification: rawString(obj["certification"]),
		})
	}

	for _, obj := range rawObjects(fields["volunteer"]) {
		r.Volunteer = append(r.Volunteer, VolunteerEntry{
			Organization: rawString(obj["organization"]),
			Role:         rawString(obj["role"]),
			Location:     rawString(obj["location"]),
			StartDate:    rawString(obj["startDate"]),
			EndDate:      rawString(obj["endDate"]),
			Bullets:      rawStrings(obj["bullets"]),
		})
	}

	for _, obj := range rawObjects(fields["hobbies"]) {
		r.Hobbies = append(r.Hobbies, Hobby{
			Name:        rawString(obj["name"]),
			Description: rawString(obj["description"]),
		})
	}
	// hobbies are also commonly given as plain strings
	for _, s := range rawStrings(fields["hobbies"]) {
		r.Hobbies = append(r.Hobbies, Hobby{Name: s})
	}

	r.References = rawStrings(fields["references"])

	for _, obj := range rawObjects(fields["customSections"]) {
		r.CustomSections = append(r.CustomSections, CustomSection{
			Heading: firstString(obj, "heading", "title"),
			Content: rawStrings(firstRaw(obj, "content", "items")),
		})
	}

	r.EnsureLists()
	return nil
}

func decodeContact(raw json.RawMessage) Contact {
	obj := rawObject(raw)
	if obj == nil {
		return Contact{}
	}
	return Contact{
		Name:     rawString(obj["name"]),
		Email:    rawString(obj["email"]),
		Phone:    rawString(obj["phone"]),
		LinkedIn: rawString(obj["linkedin"]),
		GitHub:   rawString(obj["github"]),
		Website:  firstString(obj, "website", "portfolio"),
		Location: rawString(obj["location"]),
	}
}

func decodeSkills(raw json.RawMessage) Skills {
	if flat := rawStrings(raw); len(flat) > 0 {
		return Skills{Other: flat}
	}
	obj := rawObject(raw)
	if obj == nil {
		return Skills{}
	}
	return Skills{
		Languages:  rawStrings(obj["languages"]),
		Frameworks: rawStrings(obj["frameworks"]),
		Tools:      rawStrings(obj["tools"]),
		Databases:  rawStrings(obj["databases"]),
		Other:      rawStrings(obj["other"]),
	}
}

func decodeCertifications(raw json.RawMessage) []Certification {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	var out []Certification
	for _, elem := range elems {
		if s := rawString(elem); s != "" {
			out = append(out, Certification{Name: s})
			continue
		}
		obj := rawObject(elem)
		if obj == nil {
			continue
		}
		out = append(out, Certification{
			Name:         rawString(obj["name"]),
			Issuer:       rawString(obj["issuer"]),
			Date:         rawString(obj["date"]),
			ExpiryDate:   rawString(obj["expiryDate"]),
			CredentialID: rawString(obj["credentialId"]),
			URL:          rawString(obj["url"]),
		})
	}
	return out
}

// rawObject decodes raw into an object, or nil when raw is not an object.
func rawObject(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

// rawObjects decodes raw as an array and keeps only the object elements.
func rawObjects(raw json.RawMessage) []map[string]json.RawMessage {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	var out []map[string]json.RawMessage
	for _, elem := range elems {
		if obj := rawObject(elem); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

// LenientString is the exported form of rawString for decoders outside
// this package.
func LenientString(raw json.RawMessage) string {
	return rawString(raw)
}

// LenientStrings is the exported form of rawStrings for decoders outside
// this package.
func LenientStrings(raw json.RawMessage) []string {
	return rawStrings(raw)
}

// rawString returns the string value of raw. Numbers and booleans are
// rendered as text; anything else yields "".
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	case 'n', '{', '[':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

// rawStrings decodes raw as a list of strings, dropping nulls and
// non-string elements. A bare string becomes a one-element list.
func rawStrings(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		if s := strings.TrimSpace(rawString(raw)); s != "" {
			return []string{s}
		}
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] == '{' || elem[0] == '[' {
			continue
		}
		if s := rawString(elem); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstRaw(obj map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := obj[k]; ok && string(bytes.TrimSpace(v)) != "null" {
			return v
		}
	}
	return nil
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if s := rawString(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

var recordKeys = map[string]bool{
	"contact": true, "summary": true, "rawText": true, "skills": true,
	"experience": true, "education": true, "projects": true,
	"certifications": true, "awards": true, "publications": true,
	"languageProficiency": true, "volunteer": true, "hobbies": true,
	"references": true, "customSections": true, "_metadata": true,
}

// UnknownFields lists the top-level keys of a JSON object that a record
// decode ignores, sorted. It returns nil when data is not an object.
func UnknownFields(data []byte) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	var unknown []string
	for k := range fields {
		if !recordKeys[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
