package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

const summaryTopSkills = 10

// SummaryGenerator writes the professional summary from the already
// retailored title, skills and projects.
type SummaryGenerator struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewSummaryGenerator(gateway *llm.Gateway, logger *zap.Logger) *SummaryGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryGenerator{gateway: gateway, logger: logger}
}

// Generate returns a new summary. An empty model reply falls back to a
// mechanical summary; a failed call keeps the original summary when one
// exists.
func (g *SummaryGenerator) Generate(ctx context.Context, title, original string, skills []string, roles []string, projects []resume.Project) string {
	titles := make([]string, 0, len(projects))
	for _, p := range projects {
		if p.Title != "" {
			titles = append(titles, p.Title)
		}
	}

	prompt := renderPrompt(summaryPrompt, map[string]string{
		"TITLE":    title,
		"SKILLS":   strings.Join(skills, ", "),
		"ROLES":    strings.Join(roles, ", "),
		"PROJECTS": strings.Join(titles, "; "),
	})

	generated, err := g.gateway.Complete(ctx, llm.Request{
		System:      "You are a top-tier resume writer and career strategist.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.5,
		Purpose:     "summary",
	})
	if err != nil {
		if strings.TrimSpace(original) != "" {
			return original
		}
		return mechanicalSummary(skills, roles, titles)
	}
	if strings.TrimSpace(generated) == "" {
		return mechanicalSummary(skills, roles, titles)
	}
	return strings.TrimSpace(generated)
}

// mechanicalSummary assembles a plain factual summary from whatever parts
// are non-empty.
func mechanicalSummary(skills, roles, projectTitles []string) string {
	var sentences []string
	if len(roles) > 0 {
		sentences = append(sentences, "Professional background includes roles such as "+strings.Join(roles, ", ")+".")
	}
	top := skills
	if len(top) > summaryTopSkills {
		top = top[:summaryTopSkills]
	}
	if len(top) > 0 {
		sentences = append(sentences, "Demonstrated expertise in "+strings.Join(top, ", ")+".")
	}
	if len(projectTitles) > 0 {
		sentences = append(sentences, "Projects delivered: "+strings.Join(projectTitles, ", ")+".")
	}
	sentences = append(sentences, "Recognized for reliability and technical proficiency.")
	return strings.Join(sentences, " ")
}
