// Package summarize generates one natural-language digest per topic group.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/pkg/logger"
)

const (
	// Per-email body prefix inside a digest prompt. Enough signal for
	// dates, venues and requirements without blowing the prompt budget.
	summaryBodyLimit = 2000

	// Global character budget per digest prompt. Exceeding content is cut
	// with an explicit marker rather than silently dropped.
	promptCharBudget = 50000

	// Digest completions are bounded to keep output size predictable.
	summaryMaxTokens = 800

	truncationMarker = "\n\n[Content truncated due to length...]"
)

// Generator produces topic digests. It never fails: a model failure yields
// a diagnostic placeholder so every non-empty group still gets a digest.
type Generator struct {
	llm         out.LLMClient
	concurrency int
	log         *logger.Logger
}

// NewGenerator creates a digest generator. concurrency caps the number of
// simultaneous model calls across groups.
func NewGenerator(llm out.LLMClient, concurrency int) *Generator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Generator{
		llm:         llm,
		concurrency: concurrency,
		log:         logger.WithField("component", "digest_generator"),
	}
}

// Summarize builds the digest for one topic group. On model failure the
// returned text is a diagnostic embedding the topic and error, and the
// second result reports the degradation.
func (g *Generator) Summarize(ctx context.Context, topic domain.Topic, members []*domain.EmailContent) (string, bool) {
	prompt := buildDigestPrompt(topic, members)

	text, err := g.llm.Complete(ctx, prompt, summaryMaxTokens)
	if err != nil {
		g.log.WithError(err).WithField("topic", string(topic)).
			Warn("digest model call failed, substituting placeholder")
		return fmt.Sprintf("Could not generate the %s digest (%d emails): %v", topic, len(members), err), true
	}

	return strings.TrimSpace(text), false
}

// GenerateAll produces one digest per group under the concurrency cap.
// Groups are independent, so a failure in one never blocks the others, and
// indexed collection keeps the output in group order.
func (g *Generator) GenerateAll(ctx context.Context, groups []*domain.TopicGroup) []*domain.TopicDigest {
	if len(groups) == 0 {
		return nil
	}

	type result struct {
		index  int
		digest *domain.TopicDigest
	}

	results := make(chan result, len(groups))
	semaphore := make(chan struct{}, g.concurrency)

	for i, grp := range groups {
		go func(idx int, grp *domain.TopicGroup) {
			semaphore <- struct{}{}        // acquire
			defer func() { <-semaphore }() // release

			text, degraded := g.Summarize(ctx, grp.Topic, grp.Members)
			results <- result{index: idx, digest: &domain.TopicDigest{
				Topic:       grp.Topic,
				RecordCount: len(grp.Members),
				Text:        text,
				Degraded:    degraded,
				GeneratedAt: time.Now(),
			}}
		}(i, grp)
	}

	digests := make([]*domain.TopicDigest, len(groups))
	for range groups {
		r := <-results
		digests[r.index] = r.digest
	}

	return digests
}

// buildDigestPrompt assembles the topic instruction plus one delimited block
// per member, each body bounded per email and the whole prompt bounded by
// the global character budget.
func buildDigestPrompt(topic domain.Topic, members []*domain.EmailContent) string {
	var sb strings.Builder

	sb.WriteString(digestInstruction(topic))
	sb.WriteString("\n\n")

	for i, rec := range members {
		block := fmt.Sprintf("--- Email %d ---\nSubject: %s\nFrom: %s\n\n%s\n\n",
			i+1, rec.Subject, rec.Sender, truncateBody(rec.Body, summaryBodyLimit))

		if sb.Len()+len(block) > promptCharBudget {
			remaining := promptCharBudget - sb.Len()
			if remaining > 0 {
				sb.WriteString(block[:remaining])
			}
			sb.WriteString(truncationMarker)
			break
		}
		sb.WriteString(block)
	}

	return sb.String()
}

// digestInstruction returns the topic-family-specific extraction policy.
func digestInstruction(topic domain.Topic) string {
	switch {
	case topic.IsEventLike():
		return `Summarize these event emails as one cohesive digest. For each event extract:
- Event name
- Date and time
- Venue or location
- Registration or ticket links
- RSVP deadlines
Organize everything into a single readable summary. Do not add an overall framing sentence; go straight to the events.`
	case topic == domain.TopicOutreach:
		return `Summarize these messages from individuals reaching out. For each one extract:
- Company and who is reaching out
- Role or opportunity being offered
- Requirements mentioned
- Deadlines
- Compensation if stated
- Location / remote status`
	case topic == domain.TopicJobPostings:
		return `Summarize these bulk job posting emails. For each posting extract:
- Job title and company
- Compensation if stated
- Location and job type
- Application deadlines
Group similar roles together.`
	default:
		return `Provide a concise summary of these emails, highlighting the most important items and any action items.`
	}
}

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
