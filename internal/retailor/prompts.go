package retailor

import (
	_ "embed"
	"strings"
)

//go:embed prompts/industry.md
var industryPrompt string

//go:embed prompts/title.md
var titlePrompt string

//go:embed prompts/description_nojd.md
var descriptionNoJDPrompt string

//go:embed prompts/description_jd.md
var descriptionJDPrompt string

//go:embed prompts/selection.md
var selectionPrompt string

//go:embed prompts/summary.md
var summaryPrompt string

//go:embed prompts/skills_nojd.md
var skillsNoJDPrompt string

//go:embed prompts/skills_jd.md
var skillsJDPrompt string

// renderPrompt substitutes {{KEY}} placeholders in a template.
func renderPrompt(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
