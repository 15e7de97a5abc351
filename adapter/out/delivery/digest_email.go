package delivery

import (
	"context"
	"fmt"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/pkg/apperr"
)

// EmailSink sends the rendered digest through the mail provider. An empty
// recipient addresses the authenticated account itself.
type EmailSink struct {
	sender out.MailSender
	to     string
}

// NewEmailSink creates an email delivery sink.
func NewEmailSink(sender out.MailSender, to string) *EmailSink {
	return &EmailSink{sender: sender, to: to}
}

// Deliver sends the digest as a plain-text message. Empty runs send
// nothing; an inbox digest about an empty inbox is just noise.
func (s *EmailSink) Deliver(ctx context.Context, report *domain.RunReport, digests []*domain.TopicDigest) error {
	if len(digests) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Unread mail digest - %s", report.StartedAt.Format("Mon Jan 2"))
	if err := s.sender.Send(ctx, s.to, subject, renderText(report, digests)); err != nil {
		return apperr.DeliveryFailed("email", err)
	}
	return nil
}

var _ out.DeliverySink = (*EmailSink)(nil)
