// Package ai wraps the chat completion service. Failures are classified into
// the small taxonomy the dialogue engine knows how to turn into user-facing
// error replies: timeout, connection failure, or other.
package ai

import (
	"context"
	"net"
	"time"

	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/sashabaranov/go-openai"
)

var (
	// ErrTimeout means the completion call exceeded its ceiling.
	ErrTimeout = errors.NewSentinel("completion timed out")
	// ErrUnreachable means the completion service refused or dropped the connection.
	ErrUnreachable = errors.NewSentinel("completion service unreachable")
)

const MaxTokens = 4096

// completionTimeout is a long fixed ceiling to prevent infinite hangs. A call
// that runs past it fails fast and ends the turn with a recoverable error.
const completionTimeout = 45 * time.Second

type Client struct {
	client *openai.Client
	model  string
}

// NewClient connects to an OpenAI-compatible completion endpoint. An empty
// baseURL targets the OpenAI API, anything else (e.g. a local inference
// server) is used as-is.
func NewClient(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete sends the messages to the completion service and returns the
// assistant's reply. There is no retry and no cancellation beyond the
// ceiling; errors come back classified as ErrTimeout, ErrUnreachable, or a
// plain annotated error.
func (c *Client) Complete(ctx context.Context, messages []models.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, message := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{ //nolint:exhaustruct // this is better for readability
			Role:    message.Role,
			Content: message.Content,
		}
	}

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  chatMessages,
		},
	)
	if err != nil {
		return "", classify(err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// Models lists the model names the completion service reports. Used by the
// connectivity check; a failure here means the service is down, not us.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	response, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, classify(err)
	}
	names := make([]string, len(response.Models))
	for i, model := range response.Models {
		names[i] = model.ID
	}
	return names, nil
}

// classify maps transport-level failures onto the error taxonomy.
func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(ErrTimeout, "complete chat")
	case errors.As(err, &netErr) && netErr.Timeout():
		return errors.Wrap(ErrTimeout, "complete chat")
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Wrap(ErrUnreachable, "complete chat")
	}

	return errors.Wrap(err, "complete chat")
}
