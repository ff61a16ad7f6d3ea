package retailor

import (
	"strings"

	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

const fallbackExperienceTitle = "Professional Experience"

// ExtractProjects collects every project from both the projects and the
// experience sections into one uniform list. Declared projects come first, in
// their original order; each entry carries a source discriminator.
func ExtractProjects(r *resume.Resume) []resume.Project {
	all := make([]resume.Project, 0, len(r.Projects)+len(r.Experience))

	for _, proj := range r.Projects {
		p := proj
		p.Source = resume.SourceProjects
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
		all = append(all, p)
	}

	for _, exp := range r.Experience {
		title := strings.TrimSpace(exp.Title)
		if title == "" {
			title = strings.TrimSpace(exp.Position)
		}
		if title == "" {
			title = fallbackExperienceTitle
		}

		technologies := exp.Technologies
		if technologies == nil {
			technologies = []string{}
		}

		all = append(all, resume.Project{
			Title:        title,
			Description:  exp.Description,
			Technologies: technologies,
			Company:      exp.Company,
			Duration:     exp.Duration,
			Source:       resume.SourceExperience,
		})
	}

	return all
}
