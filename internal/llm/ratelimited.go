package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient caps the request rate of a wrapped Client. Every call
// waits for a token, so callers block rather than fail when the budget is
// spent, and a cancelled context aborts the wait.
type RateLimitedClient struct {
	Client
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps client with a limiter allowing
// requestsPerMinute calls per minute. A non-positive rate returns client
// unchanged.
func NewRateLimitedClient(client Client, requestsPerMinute int) Client {
	if requestsPerMinute <= 0 {
		return client
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

func (c *RateLimitedClient) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// GenerateContent waits for a token before delegating.
func (c *RateLimitedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateContent(ctx, prompt, tier)
}

// GenerateJSON waits for a token before delegating.
func (c *RateLimitedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateJSON(ctx, prompt, tier)
}

// GenerateFromDocument waits for a token before delegating.
func (c *RateLimitedClient) GenerateFromDocument(ctx context.Context, prompt string, document []byte, mimeType string, tier ModelTier) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateFromDocument(ctx, prompt, document, mimeType, tier)
}
