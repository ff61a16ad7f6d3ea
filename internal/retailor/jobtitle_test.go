package retailor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

func TestSynthesiseTitleHappyPath(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"job_title": `"Senior Platform Engineer"`,
	}}
	s := NewTitleSynthesiser(newStubGateway(stub), zap.NewNop())

	got := s.Synthesise(context.Background(), &resume.Resume{Title: "Engineer"}, nil)
	if got != "Senior Platform Engineer" {
		t.Errorf("got %q", got)
	}
}

func TestSynthesiseTitleKeywordsReachThePrompt(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{"job_title": "DevOps Engineer"}}
	s := NewTitleSynthesiser(newStubGateway(stub), zap.NewNop())

	s.Synthesise(context.Background(), &resume.Resume{Title: "Engineer"}, []string{"Terraform", "AWS"})

	req, ok := stub.lastRequestFor("job_title")
	if !ok {
		t.Fatal("no call issued")
	}
	if !strings.Contains(req.Prompt, "Terraform, AWS") {
		t.Errorf("keywords missing from prompt: %q", req.Prompt)
	}
	if req.Temperature != 0.2 {
		t.Errorf("temperature = %v", req.Temperature)
	}
}

func TestSynthesiseTitleFailureKeepsExisting(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewTitleSynthesiser(newStubGateway(stub), zap.NewNop())

	got := s.Synthesise(context.Background(), &resume.Resume{Title: "Data Engineer"}, nil)
	if got != "Data Engineer" {
		t.Errorf("got %q", got)
	}
}

func TestSynthesiseTitleEmptyReplyKeepsExisting(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{"job_title": ""}}
	s := NewTitleSynthesiser(newStubGateway(stub), zap.NewNop())

	got := s.Synthesise(context.Background(), &resume.Resume{Title: "Data Engineer"}, nil)
	if got != "Data Engineer" {
		t.Errorf("got %q", got)
	}
}

func TestExperienceRolesDeduplicates(t *testing.T) {
	roles := experienceRoles([]resume.Experience{
		{Title: "Backend Engineer"},
		{Position: "SRE"},
		{Title: "backend engineer"},
		{},
	})
	if len(roles) != 2 || roles[0] != "Backend Engineer" || roles[1] != "SRE" {
		t.Errorf("got %v", roles)
	}
}
