package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const jsonOnlyInstruction = "\n\nReturn ONLY valid JSON, no additional text or explanation."

// AnthropicClient implements Client for Anthropic Claude
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Claude client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, []anthropic.ContentBlockParamUnion{{
		OfText: &anthropic.TextBlockParam{Text: prompt},
	}})
}

// GenerateJSON generates JSON content using the specified model tier.
// Claude has no JSON response mode, so the prompt carries the instruction.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.send(ctx, tier, []anthropic.ContentBlockParamUnion{{
		OfText: &anthropic.TextBlockParam{Text: prompt + jsonOnlyInstruction},
	}})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GenerateFromDocument sends the document as a base64 image block ahead of
// the prompt.
func (c *AnthropicClient) GenerateFromDocument(ctx context.Context, prompt string, document []byte, mimeType string, tier ModelTier) (string, error) {
	if len(document) == 0 {
		return "", errEmptyDocument
	}
	encoded := base64.StdEncoding.EncodeToString(document)
	return c.send(ctx, tier, []anthropic.ContentBlockParamUnion{
		anthropic.NewImageBlockBase64(mimeType, encoded),
		{OfText: &anthropic.TextBlockParam{Text: prompt}},
	})
}

func (c *AnthropicClient) send(ctx context.Context, tier ModelTier, content []anthropic.ContentBlockParamUnion) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(c.config.maxOutputTokens()),
		Temperature: anthropic.Float(float64(c.config.temperature())),
		Messages: []anthropic.MessageParam{{
			Content: content,
			Role:    anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", wrapProviderError(ProviderAnthropic, "failed to create message", err)
	}

	return extractTextFromMessage(response)
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the Anthropic client holds no long-lived resources.
func (c *AnthropicClient) Close() error {
	return nil
}

func extractTextFromMessage(response *anthropic.Message) (string, error) {
	if response == nil || len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type != "text" {
			continue
		}
		parts = append(parts, block.AsText().Text)
	}

	text := strings.Join(parts, "")
	if text == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return text, nil
}
