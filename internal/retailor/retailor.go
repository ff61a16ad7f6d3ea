// Package retailor implements the resume retailoring pipeline: project
// extraction, per-project enrichment, selection against job keywords, skill
// curation, summary and headline generation, and the final output shaping.
//
// Every stage degrades to a deterministic fallback on model failure, so a
// total LLM outage still produces a complete resume.
package retailor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

// Config carries the pipeline knobs.
type Config struct {
	// MaxProjects bounds the selected project list in keyword mode.
	MaxProjects int
	// EnhanceNoJDDescriptions enables description rewriting when no job
	// keywords are supplied. Off, descriptions pass through untouched.
	EnhanceNoJDDescriptions bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{MaxProjects: 3, EnhanceNoJDDescriptions: true}
}

// Retailor drives the pipeline over a single resume. It is stateless across
// calls; one value may serve many invocations sequentially.
type Retailor struct {
	cfg    Config
	logger *zap.Logger

	titles       *TitleEnhancer
	descriptions *DescriptionEnhancer
	selector     *Selector
	skills       *SkillCurator
	summaries    *SummaryGenerator
	headline     *TitleSynthesiser
}

func New(gateway *llm.Gateway, cfg Config, logger *zap.Logger) *Retailor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxProjects <= 0 {
		cfg.MaxProjects = DefaultConfig().MaxProjects
	}
	industry := NewIndustryClassifier(gateway, logger)
	return &Retailor{
		cfg:          cfg,
		logger:       logger,
		titles:       NewTitleEnhancer(gateway, industry, logger),
		descriptions: NewDescriptionEnhancer(gateway, logger),
		selector:     NewSelector(gateway, logger),
		skills:       NewSkillCurator(gateway, logger),
		summaries:    NewSummaryGenerator(gateway, logger),
		headline:     NewTitleSynthesiser(gateway, logger),
	}
}

// Run retailors a single resume document. The presence of the keywords key
// selects the output shape: with it the result is projected onto the fixed
// schema and keywords are dropped; without it the enriched document keeps
// every input key.
func (t *Retailor) Run(ctx context.Context, doc resume.Document) (resume.Document, error) {
	doc = resume.Normalize(doc)

	r, err := resume.Decode(doc)
	if err != nil {
		return nil, err
	}

	if doc.HasKeywords() {
		return t.runTargeted(ctx, r), nil
	}
	return t.runGeneral(ctx, doc, r), nil
}

// runTargeted is the keyword-aware path. An empty-but-present keyword set
// still produces the projected shape, but selection and description
// enhancement behave as in the general path: every project is kept.
func (t *Retailor) runTargeted(ctx context.Context, r *resume.Resume) resume.Document {
	keywords := r.Keywords

	all := ExtractProjects(r)
	selected := all
	if len(keywords) > 0 {
		selected = t.selector.Select(ctx, all, keywords, t.cfg.MaxProjects)
	}

	for i := range selected {
		selected[i].Title = t.titles.Enhance(ctx, selected[i])
		switch {
		case len(keywords) > 0:
			selected[i].Description = t.descriptions.EnhanceForKeywords(ctx, selected[i].Description, keywords)
		case t.cfg.EnhanceNoJDDescriptions:
			selected[i].Description = t.descriptions.Enhance(ctx, selected[i].Description)
		}
	}
	r.Projects = selected

	r.Title = t.headline.Synthesise(ctx, r, keywords)
	r.Summary = t.summaries.Generate(ctx, r.Title, r.Summary, r.Skills, experienceRoles(r.Experience), selected)
	skills := t.skills.CurateForKeywords(ctx, r, keywords)

	return resume.Document{
		"name":           r.Name,
		"title":          r.Title,
		"summary":        r.Summary,
		"education":      emptyIfNil(r.Education),
		"skills":         skills,
		"certifications": emptyIfNil(r.Certifications),
		"projects":       selected,
	}
}

// runGeneral is the no-keyword path: enhance everything in place and hand the
// document back with all original keys intact.
func (t *Retailor) runGeneral(ctx context.Context, doc resume.Document, r *resume.Resume) resume.Document {
	all := ExtractProjects(r)
	for i := range all {
		all[i].Title = t.titles.Enhance(ctx, all[i])
		if t.cfg.EnhanceNoJDDescriptions {
			all[i].Description = t.descriptions.Enhance(ctx, all[i].Description)
		}
	}
	r.Projects = all

	out := make(resume.Document, len(doc)+2)
	for k, v := range doc {
		out[k] = v
	}
	out["projects"] = all

	if strings.TrimSpace(r.Title) == "" {
		if title := t.headline.Synthesise(ctx, r, nil); title != "" {
			r.Title = title
			out["title"] = title
		}
	}

	out["summary"] = t.summaries.Generate(ctx, r.Title, r.Summary, r.Skills, experienceRoles(r.Experience), all)

	if len(resume.DedupeSkills(r.Skills)) > skillsHardCap {
		out["skills"] = t.skills.Curate(ctx, r)
	}

	return out
}

func emptyIfNil(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}
