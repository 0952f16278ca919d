package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/common"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentClassifier labels a mention sentence. Classification is optional
// enrichment: implementations return a label, never an error, and fall back
// to neutral when the label cannot be determined.
type SentimentClassifier interface {
	Classify(ctx context.Context, candidate, sentence string) string
}

// ClaudeClassifier classifies mention sentences with a Claude model.
type ClaudeClassifier struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    arbor.ILogger
}

const sentimentSystemPrompt = "You label the sentiment of a news sentence toward a named person. " +
	"Respond with exactly one word: positive, neutral, or negative."

// NewClaudeClassifier creates a classifier from the sentiment configuration.
func NewClaudeClassifier(cfg common.SentimentConfig, logger arbor.ILogger) (*ClaudeClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sentiment classifier requires an API key")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid sentiment timeout %q: %w", cfg.Timeout, err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	return &ClaudeClassifier{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Classify returns the sentiment label for the sentence with respect to the
// candidate. Any API failure or unexpected reply degrades to neutral.
func (c *ClaudeClassifier) Classify(ctx context.Context, candidate, sentence string) string {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Person: %s\nSentence: %s", candidate, sentence)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: sentimentSystemPrompt},
		},
		Temperature: anthropic.Float(0),
	}

	resp, err := c.client.Messages.New(timeoutCtx, params)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Msg("Sentiment classification failed, defaulting to neutral")
		}
		return SentimentNeutral
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	switch strings.ToLower(strings.TrimSpace(reply.String())) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
