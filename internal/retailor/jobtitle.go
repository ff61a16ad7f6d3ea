package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

// TitleSynthesiser derives the candidate's headline job title from the
// resume content, optionally aligned with job keywords.
type TitleSynthesiser struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewTitleSynthesiser(gateway *llm.Gateway, logger *zap.Logger) *TitleSynthesiser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleSynthesiser{gateway: gateway, logger: logger}
}

// Synthesise returns the new headline title, or the existing one when the
// model fails or returns nothing.
func (s *TitleSynthesiser) Synthesise(ctx context.Context, r *resume.Resume, keywords []string) string {
	lines := []string{
		"Craft a single professional job title for this candidate.",
		"",
	}
	if r.Title != "" {
		lines = append(lines, "Current title: "+r.Title)
	}
	if len(r.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(r.Skills, ", "))
	}
	roles := experienceRoles(r.Experience)
	if len(roles) > 0 {
		lines = append(lines, "Previous roles: "+strings.Join(roles, ", "))
	}
	if r.Summary != "" {
		lines = append(lines, "Summary: "+snippet(r.Summary))
	}
	lines = append(lines, "")
	if len(keywords) > 0 {
		lines = append(lines,
			"Target job keywords: "+strings.Join(keywords, ", "),
			"Pick a title that the candidate's history supports and that aligns with the target role.",
		)
	} else {
		lines = append(lines,
			"Pick the title that best reflects the candidate's actual seniority and specialty.",
		)
	}
	lines = append(lines,
		"Do not inflate seniority. Respond with the title only, no quotes and no explanation.",
	)

	generated, err := s.gateway.Complete(ctx, llm.Request{
		System:      "You are a senior technical recruiter and career coach who excels at crafting accurate job titles.",
		Prompt:      strings.Join(lines, "\n"),
		Mode:        llm.ModeText,
		Temperature: 0.2,
		Purpose:     "job_title",
	})

	title := trimQuoted(generated)
	if err != nil || title == "" {
		return r.Title
	}
	return title
}

// experienceRoles lists the distinct role names in work history order.
func experienceRoles(exps []resume.Experience) []string {
	var roles []string
	seen := make(map[string]bool)
	for _, e := range exps {
		role := e.Title
		if role == "" {
			role = e.Position
		}
		if role == "" || seen[strings.ToLower(role)] {
			continue
		}
		seen[strings.ToLower(role)] = true
		roles = append(roles, role)
	}
	return roles
}
