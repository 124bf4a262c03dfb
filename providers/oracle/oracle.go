package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"trust-monitor/config"
)

// ErrNotConfigured wird zurückgegeben, wenn kein API-Key gesetzt ist.
// Der Aufrufer behandelt das wie jeden anderen Oracle-Ausfall (fail-closed).
var ErrNotConfigured = errors.New("oracle: no API key configured")

// Client ist die OpenAI-Anbindung des Fact-Check-Oracles.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient erstellt einen neuen Oracle-Client aus der Konfiguration.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	var client *openai.Client
	if cfg.OracleAPIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.OracleAPIKey)
		if cfg.OracleBaseURL != "" {
			clientCfg.BaseURL = cfg.OracleBaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}
	return &Client{
		client:  client,
		model:   cfg.OracleModel,
		timeout: cfg.OracleTimeout,
		logger:  logger,
	}
}

// Name gibt den eindeutigen Namen des Oracles zurück.
func (c *Client) Name() string {
	return "openai"
}

// Verify schickt den Prompt an das Chat-Completion-API und gibt die rohe
// Antwort zurück. Der Timeout ist hart begrenzt; ein Überschreiten ist
// für den Aufrufer ein terminaler Fehler, kein Retry-Fall.
func (c *Client) Verify(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("oracle returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("Oracle response received", zap.Int("length", len(content)))
	return content, nil
}
