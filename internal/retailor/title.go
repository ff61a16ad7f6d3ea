package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

const (
	untitledProject = "Untitled Technical Project"
	maxTitleWords   = 7
)

// TitleEnhancer rewrites project titles into short, impactful ones. Work
// experience entries additionally get an industry suffix.
type TitleEnhancer struct {
	gateway  *llm.Gateway
	industry *IndustryClassifier
	logger   *zap.Logger
}

func NewTitleEnhancer(gateway *llm.Gateway, industry *IndustryClassifier, logger *zap.Logger) *TitleEnhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleEnhancer{gateway: gateway, industry: industry, logger: logger}
}

// Enhance returns the new title. The base title never exceeds seven words;
// the optional " - <Industry>" suffix comes after that cap. The suffix is
// appended on every path, including when the LLM is unavailable.
func (e *TitleEnhancer) Enhance(ctx context.Context, project resume.Project) string {
	originalTitle := strings.TrimSpace(project.Title)
	if originalTitle == "" {
		originalTitle = untitledProject
	}

	isWorkExperience := project.Source == resume.SourceExperience

	suffix := ""
	if isWorkExperience && project.Company != "" {
		if industry := e.industry.Classify(ctx, project.Company, project.Description); industry != "" {
			suffix = " - " + industry
		}
	}

	source := "Personal Project"
	if isWorkExperience {
		source = "Work Experience"
	}

	technologies := "Not specified"
	if len(project.Technologies) > 0 {
		technologies = strings.Join(project.Technologies, ", ")
	}

	prompt := renderPrompt(titlePrompt, map[string]string{
		"ORIGINAL_TITLE": originalTitle,
		"DESCRIPTION":    project.Description,
		"TECHNOLOGIES":   technologies,
		"COMPANY":        project.Company,
		"SOURCE":         source,
	})

	raw, err := e.gateway.Complete(ctx, llm.Request{
		System:      "You are a highly skilled resume and technical writer.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.4,
		Purpose:     "project_title",
	})

	enhanced := trimQuoted(raw)
	if err != nil || enhanced == "" || normalizeTitle(enhanced) == normalizeTitle(originalTitle) {
		// Guaranteed-different fallback when the model echoes the input
		// or is unavailable.
		enhanced = "Optimized: " + originalTitle
	}

	return capWords(enhanced, maxTitleWords) + suffix
}
