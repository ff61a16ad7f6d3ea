package retailor

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestClassifyUsesLLMAnswer(t *testing.T) {
	stub := &stubCompleter{byPurpose: map[string]string{
		"industry_detection": `"Healthcare"`,
	}}
	c := NewIndustryClassifier(newStubGateway(stub), zap.NewNop())

	if got := c.Classify(context.Background(), "MediCorp", "patient records platform"); got != "Healthcare" {
		t.Errorf("got %q", got)
	}
	req, ok := stub.lastRequestFor("industry_detection")
	if !ok {
		t.Fatal("no industry call issued")
	}
	if req.Temperature != 0.1 {
		t.Errorf("temperature = %v", req.Temperature)
	}
}

func TestClassifyRejectsNonAnswers(t *testing.T) {
	for _, reply := range []string{"Unknown", "unclear", `"Ambiguous"`, ""} {
		stub := &stubCompleter{byPurpose: map[string]string{"industry_detection": reply}}
		c := NewIndustryClassifier(newStubGateway(stub), zap.NewNop())

		// customer platform gives the keyword fallback a Retail hit.
		got := c.Classify(context.Background(), "Shopwell", "customer facing retail storefront")
		if got != "Retail" {
			t.Errorf("reply %q: got %q, want keyword fallback", reply, got)
		}
	}
}

func TestClassifyFallsBackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	c := NewIndustryClassifier(newStubGateway(stub), zap.NewNop())

	if got := c.Classify(context.Background(), "Acme", "investment portfolio management"); got != "Finance" {
		t.Errorf("got %q", got)
	}
}

func TestClassifyCompanyTokenWinsOverKeywords(t *testing.T) {
	// Description keywords say Technology, the company token says Healthcare.
	got := classifyByKeywords("City Clinic", "cloud software platform")
	if got != "Healthcare" {
		t.Errorf("got %q", got)
	}
}

func TestClassifyKeywordOrderIsStable(t *testing.T) {
	// Both Finance and Technology keywords appear; Finance is checked first.
	got := classifyByKeywords("", "trading platform software")
	if got != "Finance" {
		t.Errorf("got %q", got)
	}
}

func TestClassifyNoSignal(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	c := NewIndustryClassifier(newStubGateway(stub), zap.NewNop())

	if got := c.Classify(context.Background(), "Xyzzy", "frobnicated widgets"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
