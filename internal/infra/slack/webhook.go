// Package slack posts plain text messages to a Slack incoming webhook.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/sirupsen/logrus"
	slackapi "github.com/slack-go/slack"
)

// Config holds the webhook client configuration.
type Config struct {
	URL     string
	Timeout time.Duration
	// RateLimitRetries is the number of extra attempts made when the webhook
	// answers 429. Zero means a single POST per message.
	RateLimitRetries uint
	RateLimitDelay   time.Duration
}

// WebhookClient implements webhook.Sender for Slack incoming webhooks.
type WebhookClient struct {
	url        string
	httpClient *http.Client
	retries    uint
	delay      time.Duration
	logger     *logrus.Entry
}

func NewWebhookClient(cfg Config, logger *logrus.Entry) *WebhookClient {
	return &WebhookClient{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retries:    cfg.RateLimitRetries,
		delay:      cfg.RateLimitDelay,
		logger:     logger,
	}
}

// Send posts {"text": text} to the webhook. Any 2xx answer counts as delivered;
// other statuses surface as slack.StatusCodeError.
func (c *WebhookClient) Send(ctx context.Context, text string) error {
	msg := &slackapi.WebhookMessage{Text: text}

	err := retry.Do(
		func() error {
			return c.post(ctx, msg)
		},
		retry.RetryIf(isRateLimited),
		retry.OnRetry(func(n uint, err error) {
			// Also called after the last attempt, when nothing follows.
			if n < c.retries {
				c.logger.WithError(err).WithField("attempt", n+1).Warn("Webhook rate limited, retrying")
			}
		}),
		retry.Attempts(c.retries+1),
		retry.Delay(c.delay),
		retry.DelayType(c.retryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	return nil
}

func (c *WebhookClient) post(ctx context.Context, msg *slackapi.WebhookMessage) error {
	err := slackapi.PostWebhookCustomHTTPContext(ctx, c.url, c.httpClient, msg)

	// The SDK only treats 200 as success.
	var statusErr slackapi.StatusCodeError
	if errors.As(err, &statusErr) && statusErr.Code >= 200 && statusErr.Code < 300 {
		return nil
	}
	return err
}

// retryDelay waits for the configured delay, or longer when the webhook sent a
// Retry-After header.
func (c *WebhookClient) retryDelay(n uint, err error, config *retry.Config) time.Duration {
	var limited *slackapi.RateLimitedError
	if errors.As(err, &limited) && limited.RetryAfter > c.delay {
		return limited.RetryAfter
	}
	return retry.FixedDelay(n, err, config)
}

func isRateLimited(err error) bool {
	var limited *slackapi.RateLimitedError
	if errors.As(err, &limited) {
		return true
	}
	var statusErr slackapi.StatusCodeError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests
}
