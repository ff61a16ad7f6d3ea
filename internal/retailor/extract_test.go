package retailor

import (
	"testing"

	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

func TestExtractProjectsOrderAndSources(t *testing.T) {
	r := &resume.Resume{
		Projects: []resume.Project{
			{Title: "Side Project", Description: "desc"},
		},
		Experience: []resume.Experience{
			{Title: "Backend Engineer", Company: "Acme", Description: "built things", Duration: "2020-2022"},
		},
	}

	all := ExtractProjects(r)
	if len(all) != 2 {
		t.Fatalf("got %d projects", len(all))
	}

	if all[0].Source != resume.SourceProjects {
		t.Errorf("first source = %q", all[0].Source)
	}
	if all[0].Technologies == nil {
		t.Error("technologies must be an empty slice, not nil")
	}

	exp := all[1]
	if exp.Source != resume.SourceExperience {
		t.Errorf("second source = %q", exp.Source)
	}
	if exp.Title != "Backend Engineer" || exp.Company != "Acme" || exp.Duration != "2020-2022" {
		t.Errorf("experience fields lost: %+v", exp)
	}
}

func TestExtractProjectsExperienceTitleFallback(t *testing.T) {
	r := &resume.Resume{
		Experience: []resume.Experience{
			{Position: "Data Analyst"},
			{},
		},
	}

	all := ExtractProjects(r)
	if all[0].Title != "Data Analyst" {
		t.Errorf("position fallback: got %q", all[0].Title)
	}
	if all[1].Title != "Professional Experience" {
		t.Errorf("generic fallback: got %q", all[1].Title)
	}
}

func TestExtractProjectsEmptyResume(t *testing.T) {
	if got := ExtractProjects(&resume.Resume{}); len(got) != 0 {
		t.Errorf("got %d projects from an empty resume", len(got))
	}
}
