package matcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Completer sends one prompt to a text completion service.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var errEmptyCompletion = errors.New("completion returned no choices")

// OpenAICompleter talks to an OpenAI compatible chat completion API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTries    uint
	retryDelay  time.Duration
	logger      *zap.Logger
}

// NewOpenAICompleter creates a completer from the matcher configuration.
func NewOpenAICompleter(cfg Config, logger *zap.Logger) *OpenAICompleter {
	oc := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTries:    cfg.maxTries(),
		retryDelay:  cfg.retryDelay(),
		logger:      logger,
	}
}

// Complete returns the content of the first choice. Rate limits, server
// errors and network failures are retried; other client errors are not.
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay

	attempt := 0
	content, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if isPermanent(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("Matcher request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("matcher request failed after %d attempts: %w", attempt, err)
	}
	return content, nil
}

func isPermanent(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}
