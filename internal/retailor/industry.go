package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
)

// industryKeywords is the ordered fallback map. Order matters: the first
// industry whose keyword appears in the combined company+description text
// wins, so the sequence is fixed here rather than left to map iteration.
var industryKeywords = []struct {
	name     string
	keywords []string
}{
	{"Finance", []string{"bank", "financial", "investment", "credit", "insurance", "wealth", "capital", "trading", "fund", "asset", "mortgage", "loan"}},
	{"Healthcare", []string{"hospital", "medical", "health", "pharmaceutical", "biotech", "clinical", "patient", "doctor", "nurse", "therapy", "diagnostic"}},
	{"Technology", []string{"tech", "software", "ai", "machine learning", "data", "cloud", "digital", "platform", "app", "system", "development"}},
	{"Retail", []string{"retail", "ecommerce", "shopping", "store", "merchant", "commerce", "marketplace", "sales", "customer"}},
	{"Manufacturing", []string{"manufacturing", "factory", "production", "industrial", "automotive", "aerospace", "chemical", "materials"}},
	{"Education", []string{"university", "college", "school", "education", "learning", "academic", "research", "student"}},
	{"Consulting", []string{"consulting", "advisory", "strategy", "management", "professional services", "business services"}},
	{"Government", []string{"government", "public", "federal", "state", "municipal", "agency", "department"}},
	{"Nonprofit", []string{"nonprofit", "charity", "foundation", "ngo", "volunteer", "social impact"}},
	{"Media", []string{"media", "entertainment", "publishing", "broadcasting", "advertising", "marketing", "content"}},
	{"Real Estate", []string{"real estate", "property", "construction", "development", "architecture", "building"}},
	{"Energy", []string{"energy", "oil", "gas", "renewable", "solar", "wind", "power", "utility"}},
	{"Transportation", []string{"transportation", "logistics", "shipping", "delivery", "freight", "supply chain"}},
}

// companyTokenIndustries maps specific company-name tokens that identify an
// industry on their own. Checked before the keyword scan.
var companyTokenIndustries = []struct {
	token    string
	industry string
}{
	{"bank", "Finance"},
	{"clinic", "Healthcare"},
	{"hospital", "Healthcare"},
	{"university", "Education"},
	{"college", "Education"},
}

var rejectedIndustries = map[string]struct{}{
	"unknown":   {},
	"unclear":   {},
	"ambiguous": {},
	"":          {},
}

// IndustryClassifier maps (company, description) to a Title-Case industry
// label. An empty result means "no suffix".
type IndustryClassifier struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewIndustryClassifier(gateway *llm.Gateway, logger *zap.Logger) *IndustryClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndustryClassifier{gateway: gateway, logger: logger}
}

// Classify tries the LLM first and falls back to the keyword map.
func (c *IndustryClassifier) Classify(ctx context.Context, company, description string) string {
	if industry := c.classifyLLM(ctx, company, description); industry != "" {
		return industry
	}
	return classifyByKeywords(company, description)
}

func (c *IndustryClassifier) classifyLLM(ctx context.Context, company, description string) string {
	prompt := renderPrompt(industryPrompt, map[string]string{
		"COMPANY":     company,
		"DESCRIPTION": description,
	})

	raw, err := c.gateway.Complete(ctx, llm.Request{
		System:      "You are an expert business analyst specializing in industry classification.",
		Prompt:      prompt,
		Mode:        llm.ModeText,
		Temperature: 0.1,
		Purpose:     "industry_detection",
	})
	if err != nil {
		return ""
	}

	industry := trimQuoted(raw)
	if _, rejected := rejectedIndustries[strings.ToLower(industry)]; rejected {
		return ""
	}

	return industry
}

func classifyByKeywords(company, description string) string {
	companyLower := strings.ToLower(company)
	combined := companyLower + " " + strings.ToLower(description)

	for _, word := range strings.Fields(companyLower) {
		for _, entry := range companyTokenIndustries {
			if word == entry.token {
				return entry.industry
			}
		}
	}

	for _, entry := range industryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(combined, keyword) {
				return entry.name
			}
		}
	}

	return ""
}
