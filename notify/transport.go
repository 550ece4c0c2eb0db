package notify

import "context"

// Transport delivers one message to one destination address or phone number.
// Concrete implementations: SMTP submission to an email-to-SMS gateway, an
// HTTPS SMS provider API, or none at all (preview mode).
type Transport interface {
	Send(ctx context.Context, text, recipient string) error
}
