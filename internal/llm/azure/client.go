// Package azure implements the llm.Completer transport for Azure OpenAI
// chat-completions deployments.
package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
)

// Config carries the Azure OpenAI connection settings.
type Config struct {
	APIKey     string
	Endpoint   string
	APIVersion string
	Deployment string
}

// Client talks to a single Azure OpenAI deployment.
type Client struct {
	client     *openai.Client
	deployment string
}

// New validates the configuration and builds a client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("azure openai api key is required")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("azure openai endpoint is required")
	}
	deployment := strings.TrimSpace(cfg.Deployment)
	if deployment == "" {
		return nil, errors.New("azure openai deployment is required")
	}

	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if v := strings.TrimSpace(cfg.APIVersion); v != "" {
		clientCfg.APIVersion = v
	}
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }

	return &Client{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
	}, nil
}

// Complete issues one chat completion against the deployment.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("azure client is not initialized")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	format := openai.ChatCompletionResponseFormatTypeText
	if req.Mode == llm.ModeJSON {
		format = openai.ChatCompletionResponseFormatTypeJSONObject
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    messages,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: format,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("azure openai returned no choices")
	}

	return &llm.Response{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Model reports the deployment name used for usage accounting.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.deployment
}
