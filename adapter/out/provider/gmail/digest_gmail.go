// Package gmail provides the Gmail API adapter for the digest pipeline.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/pkg/apperr"
	"digest_server/pkg/logger"
)

const (
	unreadQuery = "is:unread"
	labelUnread = "UNREAD"

	// Bounded concurrency for full-message fetches, keeps the adapter
	// under the Gmail API per-user rate limits.
	fetchConcurrency = 5
)

// Provider implements out.MailSource, out.MailModifier and out.MailSender
// on top of the Gmail API.
type Provider struct {
	service *gmail.Service
	email   string
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
}

// NewProvider creates a Gmail provider from an authenticated token source.
func NewProvider(ctx context.Context, src oauth2.TokenSource) (*Provider, error) {
	client := oauth2.NewClient(ctx, src)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.AuthFailed(err)
	}

	profile, err := service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, apperr.AuthFailed(err)
	}

	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}

	return &Provider{
		service: service,
		email:   profile.EmailAddress,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		log:     logger.WithField("component", "gmail"),
	}, nil
}

// Profile returns the authenticated account's email address.
func (p *Provider) Profile(ctx context.Context) (string, error) {
	return p.email, nil
}

// ListUnread lists up to maxResults unread messages and fetches each in
// full format with bounded concurrency. Messages that fail to fetch are
// skipped rather than failing the whole listing.
func (p *Provider) ListUnread(ctx context.Context, maxResults int) ([]*domain.RawMessage, error) {
	listResp, err := p.cb.Execute(func() (any, error) {
		return p.service.Users.Messages.List("me").
			Q(unreadQuery).
			MaxResults(int64(maxResults)).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, apperr.FetchFailed(err)
	}

	resp := listResp.(*gmail.ListMessagesResponse)
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	// Parallel fetch with bounded concurrency
	type result struct {
		index int
		msg   *domain.RawMessage
		err   error
	}

	results := make(chan result, len(resp.Messages))
	semaphore := make(chan struct{}, fetchConcurrency)

	for i, m := range resp.Messages {
		go func(idx int, msgID string) {
			semaphore <- struct{}{}        // acquire
			defer func() { <-semaphore }() // release

			msg, err := p.getMessage(ctx, msgID)
			results <- result{index: idx, msg: msg, err: err}
		}(i, m.Id)
	}

	// Collect results in order
	messages := make([]*domain.RawMessage, len(resp.Messages))
	for range resp.Messages {
		r := <-results
		if r.err != nil {
			p.log.WithError(r.err).Warn("skipping message that failed to fetch")
			continue
		}
		messages[r.index] = r.msg
	}

	final := make([]*domain.RawMessage, 0, len(messages))
	for _, msg := range messages {
		if msg != nil {
			final = append(final, msg)
		}
	}

	return final, nil
}

// MarkRead removes the UNREAD label from the given messages in one batch.
func (p *Provider) MarkRead(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := p.cb.Execute(func() (any, error) {
		err := p.service.Users.Messages.BatchModify("me", &gmail.BatchModifyMessagesRequest{
			Ids:            messageIDs,
			RemoveLabelIds: []string{labelUnread},
		}).Context(ctx).Do()
		return nil, err
	})
	if err != nil {
		return apperr.ProviderError("batch mark read", err)
	}
	return nil
}

// Send sends a plain-text message. An empty recipient addresses the
// authenticated account itself.
func (p *Provider) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		to = p.email
	}

	raw := buildRawMessage(to, subject, body)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := p.cb.Execute(func() (any, error) {
		return p.service.Users.Messages.Send("me", msg).Context(ctx).Do()
	})
	if err != nil {
		return apperr.ProviderError("send message", err)
	}
	return nil
}

// Helper functions

func (p *Provider) getMessage(ctx context.Context, messageID string) (*domain.RawMessage, error) {
	msgResp, err := p.cb.Execute(func() (any, error) {
		return p.service.Users.Messages.Get("me", messageID).
			Format("full").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return convertMessage(msgResp.(*gmail.Message)), nil
}

// convertMessage maps the wire message onto the domain's raw-message tree.
func convertMessage(msg *gmail.Message) *domain.RawMessage {
	raw := &domain.RawMessage{ID: msg.Id}

	if msg.Payload != nil {
		raw.Headers = make([]domain.Header, 0, len(msg.Payload.Headers))
		for _, h := range msg.Payload.Headers {
			raw.Headers = append(raw.Headers, domain.Header{Name: h.Name, Value: h.Value})
		}
		raw.Payload = convertPart(msg.Payload)
	}

	return raw
}

func convertPart(part *gmail.MessagePart) *domain.Part {
	if part == nil {
		return nil
	}

	converted := &domain.Part{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}
	if part.Body != nil {
		converted.Data = part.Body.Data
	}
	for _, child := range part.Parts {
		if c := convertPart(child); c != nil {
			converted.Parts = append(converted.Parts, c)
		}
	}

	return converted
}

func buildRawMessage(to, subject, body string) string {
	var sb strings.Builder

	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return sb.String()
}

// Ensure Provider implements the mail ports
var (
	_ out.MailSource   = (*Provider)(nil)
	_ out.MailModifier = (*Provider)(nil)
	_ out.MailSender   = (*Provider)(nil)
)
