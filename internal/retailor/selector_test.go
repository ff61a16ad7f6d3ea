package retailor

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/resume"
)

func selectorProjects() []resume.Project {
	return []resume.Project{
		{Title: "Chat Service", Description: "Realtime chat backend in Go with websocket fanout and presence tracking built for scale."},
		{Title: "ML Pipeline", Description: "Feature extraction pipeline in Python."},
		{Title: "Billing Portal", Description: "Invoice portal with Stripe integration."},
		{Title: "Go CLI Tool", Description: "Command line release helper written in Go."},
	}
}

func titlesOf(projects []resume.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Title
	}
	return out
}

func TestSelectUsesLLMOrder(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"project_selection": `{"selected_project_ids": ["Project4", "project1", "project4"]}`,
	}}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"Go"}, 3)
	want := []string{"Go CLI Tool", "Chat Service"}
	if !reflect.DeepEqual(titlesOf(got), want) {
		t.Errorf("got %v, want %v", titlesOf(got), want)
	}
}

func TestSelectTruncatesLLMReply(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"project_selection": `{"selected_project_ids": ["project1", "project2", "project3", "project4"]}`,
	}}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"Go"}, 2)
	if len(got) != 2 {
		t.Errorf("got %d projects", len(got))
	}
}

func TestSelectIgnoresUnknownIDs(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"project_selection": `{"selected_project_ids": ["project9", "project2"]}`,
	}}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"Python"}, 3)
	if !reflect.DeepEqual(titlesOf(got), []string{"ML Pipeline"}) {
		t.Errorf("got %v", titlesOf(got))
	}
}

func TestSelectFallsBackOnUnparseableReply(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"project_selection": "sorry, here are the projects you asked for",
	}}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"Go"}, 3)
	if len(got) == 0 {
		t.Fatal("fallback produced nothing")
	}
	// Scoring fallback: only keyword hits survive, best first.
	for _, title := range titlesOf(got) {
		if title == "Billing Portal" {
			t.Error("zero-score project kept while others scored")
		}
	}
}

func TestSelectFallbackScoring(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"Go"}, 3)
	// Both Go projects score 1; the longer description wins the tie.
	want := []string{"Chat Service", "Go CLI Tool"}
	if !reflect.DeepEqual(titlesOf(got), want) {
		t.Errorf("got %v, want %v", titlesOf(got), want)
	}
}

func TestSelectFallbackIsStable(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	first := titlesOf(s.Select(context.Background(), selectorProjects(), []string{"Go", "Python"}, 3))
	for i := 0; i < 5; i++ {
		again := titlesOf(s.Select(context.Background(), selectorProjects(), []string{"Go", "Python"}, 3))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("unstable selection: %v vs %v", first, again)
		}
	}
}

func TestSelectFallbackKeepsAllOnZeroScores(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), []string{"blockchain"}, 3)
	if len(got) != 3 {
		t.Errorf("got %d projects, want all capped at 3", len(got))
	}
}

func TestSelectFuzzyWordMatch(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	projects := []resume.Project{
		{Title: "Cluster Ops", Description: "Managed kubernets upgrades."},
		{Title: "Docs Site", Description: "Static documentation website."},
	}
	got := s.Select(context.Background(), projects, []string{"kubernetes"}, 2)
	if titlesOf(got)[0] != "Cluster Ops" {
		t.Errorf("got %v", titlesOf(got))
	}
}

func TestSelectDeduplicatesNearIdenticalTitles(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	projects := []resume.Project{
		{Title: "Payment Gateway", Description: "Go payment gateway with retries and idempotency keys."},
		{Title: "Payment Gateway!", Description: "Go payment gateway."},
		{Title: "Search Engine", Description: "Go search service."},
	}
	got := s.Select(context.Background(), projects, []string{"Go"}, 3)
	if len(got) != 2 {
		t.Fatalf("got %v", titlesOf(got))
	}
}

func TestSelectNoKeywordsNoLLM(t *testing.T) {
	stub := &stubCompleter{}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	got := s.Select(context.Background(), selectorProjects(), nil, 2)
	// Without keywords there is no ranking: input order survives.
	if !reflect.DeepEqual(titlesOf(got), []string{"Chat Service", "ML Pipeline"}) {
		t.Errorf("got %v", titlesOf(got))
	}
	if len(stub.requests) != 0 {
		t.Error("LLM consulted without keywords")
	}
}

func TestSelectFallbackScoresTitleAndDescriptionOnly(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	s := NewSelector(newStubGateway(stub), zap.NewNop())

	projects := []resume.Project{
		{Title: "Messaging Layer", Description: "Async event backbone.", Technologies: []string{"RabbitMQ", "Go"}},
		{Title: "Reporting Portal", Description: "Nightly report exports."},
	}
	got := s.Select(context.Background(), projects, []string{"rabbitmq"}, 3)
	// A keyword found only in the technologies list is not a hit, so
	// every project scores zero and all of them are kept.
	if len(got) != 2 {
		t.Errorf("got %d projects (%v), want 2", len(got), titlesOf(got))
	}
}
