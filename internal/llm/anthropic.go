package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient implements Client against the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates an Anthropic-backed client.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is empty")
	}
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
	}, nil
}

func (c *AnthropicClient) request(req Request) anthropic.MessagesRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = 0.1
	}

	out := anthropic.MessagesRequest{
		Model: anthropic.Model(model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.User)},
			},
		},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if req.System != "" {
		out.MultiSystem = []anthropic.MessageSystemPart{{Type: "text", Text: req.System}}
	}
	return out
}

// Complete implements Client.Complete.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateMessages(ctx, c.request(req))
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return text, nil
}

// Stream implements Client.Stream. The SDK delivers deltas through
// callbacks; we adapt them to channels.
func (c *AnthropicClient) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	textCh := make(chan string, 16)
	// Room for both the OnError callback and the stream call's own error.
	errCh := make(chan error, 2)

	go func() {
		defer close(textCh)
		defer close(errCh)

		streamReq := anthropic.MessagesStreamRequest{MessagesRequest: c.request(req)}
		streamReq.OnError = func(errResp anthropic.ErrorResponse) {
			errCh <- fmt.Errorf("anthropic streaming: %s", errResp.Error.Message)
		}
		streamReq.OnContentBlockDelta = func(delta anthropic.MessagesEventContentBlockDeltaData) {
			if delta.Delta.Type == "text_delta" && delta.Delta.Text != nil {
				select {
				case textCh <- *delta.Delta.Text:
				case <-ctx.Done():
				}
			}
		}

		if _, err := c.client.CreateMessagesStream(ctx, streamReq); err != nil {
			errCh <- fmt.Errorf("anthropic stream: %w", err)
		}
	}()

	return textCh, errCh
}
