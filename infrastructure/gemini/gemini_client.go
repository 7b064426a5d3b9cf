package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"topic-tasks/domain/ports"
	"topic-tasks/pkg/config"
	"topic-tasks/pkg/logger"
)

const promptTemplate = "Generate 5 actionable steps to learn about %s. Return only the steps on separate lines, no numbering or formatting."

// contentGenerator is the slice of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client    *genai.Client
	model     contentGenerator
	modelName string
	logger    *slog.Logger
}

// NewGeminiClient builds the client. Without an API key it still returns a
// client; every GenerateSteps call then fails with a ConfigurationError.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	c := &GeminiClient{
		modelName: cfg.Model,
		logger:    logger.Component("gemini"),
	}

	if cfg.APIKey == "" {
		c.logger.Warn("GEMINI_API_KEY not set, task generation will fail")
		return c, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c.client = client
	c.model = client.GenerativeModel(cfg.Model)
	return c, nil
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *GeminiClient) GenerateSteps(ctx context.Context, topic string) ([]string, error) {
	if c.model == nil {
		return nil, &ports.ConfigurationError{Reason: "GEMINI_API_KEY is not set"}
	}

	prompt := BuildPrompt(topic)
	c.logger.DebugContext(ctx, "Sending prompt to Gemini", "model", c.modelName, "prompt", prompt)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			c.logger.WarnContext(ctx, "Gemini blocked the request", "error", err)
			return nil, &ports.EmptyResponseError{Reason: blocked.Error()}
		}
		upstream := toUpstreamError(err)
		c.logger.ErrorContext(ctx, "Gemini request failed",
			"status", upstream.StatusCode,
			"body", upstream.Body,
			"error", err,
		)
		return nil, upstream
	}

	raw, err := extractText(resp)
	if err != nil {
		c.logger.WarnContext(ctx, "Gemini responded without text", "error", err)
		return nil, err
	}

	steps := ParseSteps(raw)
	if len(steps) == 0 {
		return nil, &ports.EmptyResponseError{Reason: "response contained only blank lines"}
	}

	c.logger.InfoContext(ctx, "Gemini generated steps", "model", c.modelName, "count", len(steps))
	return steps, nil
}

func BuildPrompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic)
}

// ParseSteps splits raw model output into lines and drops blank ones.
// Lines are returned verbatim in model order.
func ParseSteps(raw string) []string {
	lines := strings.Split(raw, "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		steps = append(steps, line)
	}
	return steps
}

// extractText reads the text of the first part of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ports.EmptyResponseError{Reason: "no candidates"}
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ports.EmptyResponseError{Reason: "first candidate has no parts"}
	}

	text, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return "", &ports.EmptyResponseError{Reason: fmt.Sprintf("unexpected part type %T", candidate.Content.Parts[0])}
	}
	if string(text) == "" {
		return "", &ports.EmptyResponseError{Reason: "first part has no text"}
	}

	return string(text), nil
}

func toUpstreamError(err error) *ports.UpstreamError {
	upstream := &ports.UpstreamError{Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		upstream.StatusCode = apiErr.Code
		upstream.Body = apiErr.Body
	}

	return upstream
}

var _ ports.StepGenerator = (*GeminiClient)(nil)
