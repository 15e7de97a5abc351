// Package out defines outbound ports (driven ports) for the digest pipeline.
package out

import (
	"context"

	"digest_server/core/domain"
)

// MailSource lists a user's unread messages. Ordering is provider-defined
// and treated as opaque by the pipeline.
type MailSource interface {
	// Profile returns the authenticated account's email address.
	Profile(ctx context.Context) (string, error)

	// ListUnread returns up to maxResults unread raw messages.
	ListUnread(ctx context.Context, maxResults int) ([]*domain.RawMessage, error)
}

// MailModifier mutates provider-side message state after a run.
type MailModifier interface {
	MarkRead(ctx context.Context, messageIDs []string) error
}

// MailSender sends an outbound message through the provider.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LLMClient is the minimal completion surface the pipeline consumes.
// Implementations fail with an ordinary error on transport, auth, or
// rate-limit problems; callers never inspect the subtype.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// DeliverySink renders the digests of one run into a human-facing artifact.
type DeliverySink interface {
	Deliver(ctx context.Context, report *domain.RunReport, digests []*domain.TopicDigest) error
}
