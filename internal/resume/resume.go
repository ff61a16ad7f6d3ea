// Package resume defines the candidate data model and the typed normalisation
// applied at the input boundary.
//
// A resume arrives as a loose JSON mapping. The raw Document keeps every key
// the caller sent so that untouched fields survive a no-JD round trip; the
// typed Resume view is decoded from it for the fields the engine understands.
package resume

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Project source discriminators set by the extractor.
const (
	SourceProjects   = "projects"
	SourceExperience = "experience"
)

// Document is the raw resume mapping as decoded from JSON.
type Document map[string]any

// Project is a tagged record unifying entries from the projects and
// experience sections.
type Project struct {
	Title        string   `json:"title" mapstructure:"title"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
	Company      string   `json:"company,omitempty" mapstructure:"company"`
	Duration     string   `json:"duration,omitempty" mapstructure:"duration"`
	Source       string   `json:"source,omitempty" mapstructure:"source"`
}

// Experience is a single work-history entry.
type Experience struct {
	Title        string   `json:"title" mapstructure:"title"`
	Position     string   `json:"position" mapstructure:"position"`
	Company      string   `json:"company" mapstructure:"company"`
	Location     string   `json:"location" mapstructure:"location"`
	Duration     string   `json:"duration" mapstructure:"duration"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
}

// Resume is the typed view of the fields the engine reads and rewrites.
// Education and certifications are passed through untouched, so they stay raw.
type Resume struct {
	Name           string       `mapstructure:"name"`
	Title          string       `mapstructure:"title"`
	Summary        string       `mapstructure:"summary"`
	Email          string       `mapstructure:"email"`
	Phone          string       `mapstructure:"phone"`
	EmployeeID     string       `mapstructure:"employee_id"`
	Skills         []string     `mapstructure:"skills"`
	Education      []any        `mapstructure:"education"`
	Certifications []any        `mapstructure:"certifications"`
	Projects       []Project    `mapstructure:"projects"`
	Experience     []Experience `mapstructure:"experience"`
	Keywords       []string     `mapstructure:"keywords"`
}

// Normalize recursively coerces opaque object-id wrappers (Mongo extended
// JSON, `{"$oid": "..."}`) into plain strings. It returns a new value and
// never mutates the input.
func Normalize(doc Document) Document {
	normalized, ok := normalizeValue(map[string]any(doc)).(map[string]any)
	if !ok {
		return doc
	}
	return Document(normalized)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if id, ok := objectID(val); ok {
			return id
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func objectID(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	id, ok := m["$oid"].(string)
	return id, ok
}

// Decode builds the typed view from a normalised document. Decoding is weakly
// typed: scalar keywords, numeric ids and similar loose input are coerced
// rather than rejected.
func Decode(doc Document) (*Resume, error) {
	var r Resume

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &r,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return nil, fmt.Errorf("decoding resume: %w", err)
	}

	return &r, nil
}

// HasKeywords reports whether the document carries the keywords key at all,
// regardless of whether it is empty. An empty-but-present set still selects
// the JD-mode output shape.
func (d Document) HasKeywords() bool {
	_, ok := d["keywords"]
	return ok
}

// CandidateText flattens the candidate's projects, experience, education,
// certifications and summary into a single lowercase string used for keyword
// matching. Every string leaf in those sections contributes.
func CandidateText(doc Document) string {
	var parts []string

	for _, key := range []string{"projects", "experience", "education", "certifications"} {
		collectStrings(doc[key], &parts)
	}
	if summary, ok := doc["summary"].(string); ok && summary != "" {
		parts = append(parts, summary)
	}

	return strings.ToLower(strings.Join(parts, " "))
}

func collectStrings(v any, parts *[]string) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) != "" {
			*parts = append(*parts, val)
		}
	case []any:
		for _, item := range val {
			collectStrings(item, parts)
		}
	case map[string]any:
		for _, item := range val {
			collectStrings(item, parts)
		}
	}
}

// DedupeSkills removes case-insensitive duplicates preserving first-occurrence
// order and casing.
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}

	return out
}
