package webhook

import "context"

// Sender delivers a plain text message to the configured chat webhook.
// This keeps the notifier independent of the concrete chat service.
type Sender interface {
	Send(ctx context.Context, text string) error
}
