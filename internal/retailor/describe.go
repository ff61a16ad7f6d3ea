package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
)

const (
	// Descriptions at or under this many words are already too thin to
	// rewrite without inventing facts.
	minDescriptionWords = 10

	// Anything shorter than this coming back from the model is treated
	// as a refusal and the original is kept.
	minEnhancedChars = 20

	maxDescriptionKeywords = 8
)

// DescriptionEnhancer rewrites project descriptions into achievement-focused
// prose, optionally steered towards job description keywords.
type DescriptionEnhancer struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewDescriptionEnhancer(gateway *llm.Gateway, logger *zap.Logger) *DescriptionEnhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DescriptionEnhancer{gateway: gateway, logger: logger}
}

// Enhance rewrites a description without job context. Short descriptions
// pass through untouched.
func (e *DescriptionEnhancer) Enhance(ctx context.Context, description string) string {
	original := strings.TrimSpace(description)
	if original == "" {
		return ""
	}
	if wordCount(original) <= minDescriptionWords {
		return original
	}

	prompt := renderPrompt(descriptionNoJDPrompt, map[string]string{
		"DESCRIPTION": original,
	})

	enhanced, err := e.gateway.Complete(ctx, llm.Request{
		System:      "You are a highly skilled resume and technical writer.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.4,
		Purpose:     "project_description_no_jd",
	})
	if err != nil || len(strings.TrimSpace(enhanced)) < minEnhancedChars {
		return original
	}
	return strings.TrimSpace(enhanced)
}

// EnhanceForKeywords rewrites a description so that relevant job keywords
// appear naturally. Bold markers the model adds for emphasis are stripped
// since the output is plain text.
func (e *DescriptionEnhancer) EnhanceForKeywords(ctx context.Context, description string, keywords []string) string {
	original := strings.TrimSpace(description)
	if original == "" {
		return ""
	}
	if len(keywords) == 0 {
		return e.Enhance(ctx, original)
	}

	injected := keywords
	if len(injected) > maxDescriptionKeywords {
		injected = injected[:maxDescriptionKeywords]
	}

	prompt := renderPrompt(descriptionJDPrompt, map[string]string{
		"DESCRIPTION": original,
		"KEYWORDS":    strings.Join(injected, ", "),
	})

	enhanced, err := e.gateway.Complete(ctx, llm.Request{
		System:      "You are a highly skilled resume and technical writer.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.4,
		Purpose:     "project_description_jd",
	})
	if err != nil || len(strings.TrimSpace(enhanced)) < minEnhancedChars {
		return original
	}
	return strings.TrimSpace(strings.ReplaceAll(enhanced, "**", ""))
}
