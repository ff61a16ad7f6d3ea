package retailor

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

const (
	skillsPassthroughMax = 20
	skillsBackfillMin    = 15
	skillsHardCap        = 25
	skillsFallbackCap    = 20
	maxSkillKeywords     = 10
	maxMatchedKeywords   = 5
	snippetLen           = 200
)

// SkillCurator trims skill lists down to the ones the rest of the resume
// actually supports, optionally promoting job description keywords.
type SkillCurator struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewSkillCurator(gateway *llm.Gateway, logger *zap.Logger) *SkillCurator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillCurator{gateway: gateway, logger: logger}
}

// Curate filters skills against the resume content alone. Small lists
// pass through untouched.
func (c *SkillCurator) Curate(ctx context.Context, r *resume.Resume) []string {
	skills := resume.DedupeSkills(r.Skills)
	if len(skills) <= skillsPassthroughMax {
		return skills
	}

	prompt := renderPrompt(skillsNoJDPrompt, map[string]string{
		"CONTEXT": buildSkillContext(r),
		"SKILLS":  strings.Join(skills, ", "),
	})

	raw, err := c.gateway.Complete(ctx, llm.Request{
		System:      "You are a senior technical recruiter specializing in skill assessment and resume optimization.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.3,
		Purpose:     "skills_filtering_no_jd",
	})
	if err != nil {
		return shortestSkills(skills, skillsFallbackCap)
	}

	filtered := validateSkills(parseSkillsReply(raw), skills)
	if len(filtered) == 0 {
		return shortestSkills(skills, skillsFallbackCap)
	}

	// Backfill from the untouched originals when the model was too
	// aggressive.
	if len(filtered) < skillsBackfillMin {
		have := lowerSet(filtered)
		for _, s := range skills {
			if len(filtered) >= skillsBackfillMin {
				break
			}
			if !have[strings.ToLower(s)] {
				filtered = append(filtered, s)
				have[strings.ToLower(s)] = true
			}
		}
	}
	if len(filtered) > skillsHardCap {
		filtered = filtered[:skillsHardCap]
	}
	return filtered
}

// CurateForKeywords filters skills with a job description in hand, then
// appends keywords the resume supports but the filtered list misses.
func (c *SkillCurator) CurateForKeywords(ctx context.Context, r *resume.Resume, keywords []string) []string {
	skills := resume.DedupeSkills(r.Skills)
	if len(skills) == 0 {
		return skills
	}

	injected := keywords
	if len(injected) > maxSkillKeywords {
		injected = injected[:maxSkillKeywords]
	}

	prompt := renderPrompt(skillsJDPrompt, map[string]string{
		"CONTEXT":  buildSkillContext(r),
		"SKILLS":   strings.Join(skills, ", "),
		"KEYWORDS": strings.Join(injected, ", "),
	})

	raw, err := c.gateway.Complete(ctx, llm.Request{
		System:      "You are a senior technical recruiter specializing in skill assessment and resume optimization.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.3,
		Purpose:     "skills_filtering_jd",
	})
	if err != nil {
		return keywordFallbackSkills(skills, keywords)
	}

	filtered := validateSkills(parseSkillsReply(raw), skills)
	if len(filtered) == 0 {
		return keywordFallbackSkills(skills, keywords)
	}

	// Promote job keywords the resume text backs up but the filtered
	// list does not yet carry.
	candidate := resume.CandidateText(resume.Document{
		"summary":        r.Summary,
		"projects":       anySlice(r.Projects),
		"experience":     anySliceExp(r.Experience),
		"education":      r.Education,
		"certifications": r.Certifications,
	})
	have := lowerSet(filtered)
	matched := 0
	for _, kw := range keywords {
		if matched >= maxMatchedKeywords {
			break
		}
		trimmed := strings.TrimSpace(kw)
		if trimmed == "" || have[strings.ToLower(trimmed)] {
			continue
		}
		if strings.Contains(candidate, strings.ToLower(trimmed)) {
			filtered = append(filtered, trimmed)
			have[strings.ToLower(trimmed)] = true
			matched++
		}
	}

	filtered = resume.DedupeSkills(filtered)
	if len(filtered) > skillsHardCap {
		filtered = filtered[:skillsHardCap]
	}
	return filtered
}

// buildSkillContext summarizes the resume for the skills prompts. Long
// descriptions are cut to a snippet to keep the prompt bounded.
func buildSkillContext(r *resume.Resume) string {
	var b strings.Builder
	for _, e := range r.Experience {
		title := e.Title
		if title == "" {
			title = e.Position
		}
		b.WriteString("Experience: " + title)
		if e.Company != "" {
			b.WriteString(" at " + e.Company)
		}
		if e.Description != "" {
			b.WriteString(". " + snippet(e.Description))
		}
		b.WriteString("\n")
	}
	for _, p := range r.Projects {
		b.WriteString("Project: " + p.Title)
		if p.Description != "" {
			b.WriteString(". " + snippet(p.Description))
		}
		if len(p.Technologies) > 0 {
			b.WriteString(" Technologies: " + strings.Join(p.Technologies, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func snippet(s string) string {
	if len(s) > snippetLen {
		return s[:snippetLen]
	}
	return s
}

// parseSkillsReply splits the model's comma-separated skill list, tolerating
// newlines, bullets and stray quoting.
func parseSkillsReply(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		part = strings.TrimPrefix(strings.TrimSpace(part), "- ")
		part = strings.TrimSpace(strings.Trim(part, `"'`))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateSkills keeps only replies that correspond to an original skill,
// preferring the original spelling.
func validateSkills(candidates, originals []string) []string {
	byLower := make(map[string]string, len(originals))
	for _, o := range originals {
		byLower[strings.ToLower(o)] = o
	}
	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		match := ""
		if o, ok := byLower[strings.ToLower(trimmed)]; ok {
			match = o
		} else {
			lower := strings.ToLower(trimmed)
			for _, o := range originals {
				ol := strings.ToLower(o)
				if strings.Contains(ol, lower) || strings.Contains(lower, ol) {
					match = o
					break
				}
			}
		}
		if match == "" || seen[strings.ToLower(match)] {
			continue
		}
		seen[strings.ToLower(match)] = true
		out = append(out, match)
	}
	return out
}

// shortestSkills keeps the limit shortest skills, original order among equals.
func shortestSkills(skills []string, limit int) []string {
	out := make([]string, len(skills))
	copy(out, skills)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) < len(out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// keywordFallbackSkills ranks skills by keyword affinity when the model is
// unavailable: exact keyword matches first, then skills containing a
// keyword, then the rest.
func keywordFallbackSkills(skills, keywords []string) []string {
	kwSet := lowerSet(keywords)
	var exact, partial, rest []string
	for _, s := range skills {
		lower := strings.ToLower(s)
		switch {
		case kwSet[lower]:
			exact = append(exact, s)
		case containsAnyKeyword(lower, keywords):
			partial = append(partial, s)
		default:
			rest = append(rest, s)
		}
	}
	out := append(append(exact, partial...), rest...)
	if len(out) > skillsFallbackCap {
		out = out[:skillsFallbackCap]
	}
	return out
}

func containsAnyKeyword(skill string, keywords []string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(strings.TrimSpace(kw))
		if lower != "" && strings.Contains(skill, lower) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

func anySlice(projects []resume.Project) []any {
	out := make([]any, len(projects))
	for i, p := range projects {
		out[i] = map[string]any{
			"title":        p.Title,
			"description":  p.Description,
			"technologies": strings.Join(p.Technologies, " "),
		}
	}
	return out
}

func anySliceExp(exps []resume.Experience) []any {
	out := make([]any, len(exps))
	for i, e := range exps {
		out[i] = map[string]any{
			"title":       e.Title,
			"position":    e.Position,
			"description": e.Description,
		}
	}
	return out
}
