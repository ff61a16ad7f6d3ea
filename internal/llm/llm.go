// Package llm provides the gateway through which every engine stage talks to
// a chat-completions provider. The gateway owns usage accounting: each
// attempted call leaves exactly one record in the usage log, success or not.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/logger"
	"github.com/shorthills-ai/resume-retailor/internal/usagelog"
)

// Mode selects the provider-side response format.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json_object"
)

// Pricing per 1K tokens for the deployed model. These are deliberately code
// constants, not configuration.
const (
	InputCostPer1K  = 0.000165
	OutputCostPer1K = 0.000660
)

const defaultMaxLogLength = 200

// Request describes a single chat completion.
type Request struct {
	// System is an optional system message.
	System string
	// Prompt is the user message.
	Prompt string
	// Mode is the response format to request.
	Mode Mode
	// Temperature is passed through to the provider.
	Temperature float32
	// Purpose is an opaque tag used only for usage accounting.
	Purpose string
}

// Response carries the provider's reply and its token usage.
type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Completer is the transport behind the gateway. Implementations live in the
// azure and gemini subpackages.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}

// Cost computes the dollar cost of a call from its token usage.
func Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000*InputCostPer1K + float64(completionTokens)/1000*OutputCostPer1K
}

// Gateway wraps a Completer with usage accounting and debug logging. Stages
// treat any returned error as "use the fallback".
type Gateway struct {
	completer Completer
	usage     *usagelog.Log
	logger    *zap.Logger
	maxLogLen int
}

// NewGateway builds a gateway around the provided transport. The usage log may
// be nil in tests; accounting is skipped then.
func NewGateway(completer Completer, usage *usagelog.Log, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}

	return &Gateway{
		completer: completer,
		usage:     usage,
		logger:    log,
		maxLogLen: defaultMaxLogLength,
	}
}

// Complete issues the request and returns the reply body. In ModeJSON the body
// is checked to parse as JSON; when it does not, the raw string is returned
// anyway and the caller is expected to cope. An empty body with no transport
// error is a valid outcome and is returned as "".
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	if g.completer == nil {
		return "", fmt.Errorf("no completer configured")
	}

	if req.Mode == "" {
		req.Mode = ModeText
	}

	g.logger.Debug("llm request",
		zap.String(logger.FieldPurpose, req.Purpose),
		zap.String("mode", string(req.Mode)),
		zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(req.Prompt, g.maxLogLen)),
	)

	resp, err := g.completer.Complete(ctx, req)
	if err != nil {
		g.recordError(req.Purpose, err)
		g.logger.Warn("llm call failed",
			zap.String(logger.FieldPurpose, req.Purpose),
			zap.Error(err),
		)
		return "", err
	}

	g.record(req.Purpose, resp)

	content := strings.TrimSpace(resp.Content)

	g.logger.Debug("llm response",
		zap.String(logger.FieldPurpose, req.Purpose),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("completion_tokens", resp.CompletionTokens),
		zap.String("response_preview", logger.TruncateForLog(content, g.maxLogLen)),
	)

	if req.Mode == ModeJSON && content != "" && !json.Valid([]byte(content)) {
		g.logger.Debug("llm response is not valid json, returning raw body",
			zap.String(logger.FieldPurpose, req.Purpose),
		)
	}

	return content, nil
}

// Model reports the underlying deployment or model name.
func (g *Gateway) Model() string {
	if g.completer == nil {
		return ""
	}
	return g.completer.Model()
}

func (g *Gateway) record(purpose string, resp *Response) {
	if g.usage == nil {
		return
	}

	err := g.usage.Record(usagelog.Usage{
		Model:            g.completer.Model(),
		Purpose:          purpose,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalCost:        Cost(resp.PromptTokens, resp.CompletionTokens),
	})
	if err != nil {
		g.logger.Warn("writing usage record failed", zap.Error(err))
	}
}

func (g *Gateway) recordError(purpose string, callErr error) {
	if g.usage == nil {
		return
	}

	if err := g.usage.RecordError(g.completer.Model(), purpose, callErr); err != nil {
		g.logger.Warn("writing usage error record failed", zap.Error(err))
	}
}
