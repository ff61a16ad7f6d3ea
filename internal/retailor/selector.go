package retailor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

const (
	keywordMatchThreshold = 0.8
	duplicateThreshold    = 0.85
)

// Selector picks the projects most relevant to a set of job keywords.
// The LLM ranks candidates by stable ids; a scoring fallback covers
// outages and unparseable replies.
type Selector struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewSelector(gateway *llm.Gateway, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{gateway: gateway, logger: logger}
}

type selectionReply struct {
	SelectedProjectIDs []string `json:"selected_project_ids"`
}

// Select returns at most max projects, most relevant first. With no
// keywords there is nothing to rank against, so the list is deduplicated
// and truncated without consulting the LLM.
func (s *Selector) Select(ctx context.Context, projects []resume.Project, keywords []string, max int) []resume.Project {
	if max <= 0 || len(projects) == 0 {
		return []resume.Project{}
	}
	if len(keywords) == 0 {
		return dedupeProjects(projects, max)
	}

	selected := s.selectLLM(ctx, projects, keywords, max)
	if len(selected) == 0 {
		return s.selectByScore(projects, keywords, max)
	}
	return selected
}

func (s *Selector) selectLLM(ctx context.Context, projects []resume.Project, keywords []string, max int) []resume.Project {
	var b strings.Builder
	for i, p := range projects {
		fmt.Fprintf(&b, "Project%d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", p.Title)
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
		if len(p.Technologies) > 0 {
			fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(p.Technologies, ", "))
		}
		b.WriteString("\n")
	}

	prompt := renderPrompt(selectionPrompt, map[string]string{
		"MAX_PROJECTS": fmt.Sprintf("%d", max),
		"KEYWORDS":     strings.Join(keywords, ", "),
		"PROJECTS":     b.String(),
	})

	raw, err := s.gateway.Complete(ctx, llm.Request{
		System:      "You are a helpful assistant designed to output JSON.",
		Prompt:      prompt,
		Mode:        llm.ModeJSON,
		Temperature: 0.1,
		Purpose:     "project_selection",
	})
	if err != nil {
		return nil
	}

	var reply selectionReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		s.logger.Debug("unparseable selection reply", zap.Error(err))
		return nil
	}

	byID := make(map[string]resume.Project, len(projects))
	for i, p := range projects {
		byID[fmt.Sprintf("project%d", i+1)] = p
	}

	seen := make(map[string]bool, len(reply.SelectedProjectIDs))
	var selected []resume.Project
	for _, id := range reply.SelectedProjectIDs {
		key := strings.ToLower(strings.TrimSpace(id))
		if seen[key] {
			continue
		}
		seen[key] = true
		if p, ok := byID[key]; ok {
			selected = append(selected, p)
		}
	}
	if len(selected) > max {
		selected = selected[:max]
	}
	return selected
}

// selectByScore counts keyword hits per project over the title and
// description only. A keyword matches on a substring hit or a close
// word-level match.
func (s *Selector) selectByScore(projects []resume.Project, keywords []string, max int) []resume.Project {
	type scored struct {
		project resume.Project
		score   int
	}
	ranked := make([]scored, 0, len(projects))
	for _, p := range projects {
		text := strings.ToLower(p.Title + " " + p.Description)
		words := strings.Fields(text)
		score := 0
		for _, kw := range keywords {
			lower := strings.ToLower(strings.TrimSpace(kw))
			if lower == "" {
				continue
			}
			if strings.Contains(text, lower) {
				score++
				continue
			}
			for _, w := range words {
				if matchRatio(w, lower) >= keywordMatchThreshold {
					score++
					break
				}
			}
		}
		ranked = append(ranked, scored{project: p, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return len(ranked[i].project.Description) > len(ranked[j].project.Description)
	})

	anyHit := false
	for _, r := range ranked {
		if r.score > 0 {
			anyHit = true
			break
		}
	}

	result := make([]resume.Project, 0, len(ranked))
	for _, r := range ranked {
		if anyHit && r.score == 0 {
			continue
		}
		result = append(result, r.project)
	}
	return dedupeProjects(result, max)
}

// dedupeProjects drops projects whose titles are near-duplicates of an
// earlier one, then truncates to max.
func dedupeProjects(projects []resume.Project, max int) []resume.Project {
	var kept []resume.Project
	var titles []string
	for _, p := range projects {
		title := normalizeAlnum(p.Title)
		dup := false
		for _, t := range titles {
			if matchRatio(title, t) >= duplicateThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, p)
		titles = append(titles, title)
		if len(kept) == max {
			break
		}
	}
	if kept == nil {
		kept = []resume.Project{}
	}
	return kept
}
