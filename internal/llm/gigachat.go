// Package llm wraps the GigaChat client behind the analyze.Generator
// contract.
package llm

import (
	"context"
	"fmt"

	"finreview/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const systemInstruction = `You are a professional financial analyst reviewing documents for a law firm. You analyze bank statements, credit reports, and other financial documents against provided criteria. You always respond with exactly the structured JSON you are asked for, extracting actual amounts, dates, and account data from the document. You never invent data that is not in the document.`

type GigaChatClient struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

// NewGigaChatClient constructs the model client, failing fast when the
// credentials are rejected so the process never starts degraded.
func NewGigaChatClient(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	logger.Info("GigaChat client initialized")

	return &GigaChatClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Generate performs one synchronous completion. No retries, no streaming, no
// timeout beyond the transport default.
func (c *GigaChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *GigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
