// Package classify maps extracted records onto the topic taxonomy.
package classify

import (
	"context"
	"fmt"
	"strings"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/pkg/logger"
)

const (
	// Body prefix handed to the model. Bounding keeps classification cheap
	// and inside the model's input limits.
	classifyBodyLimit = 1000

	// The response is a single taxonomy token; anything longer is noise.
	classifyMaxTokens = 10
)

// Classifier assigns one Topic per record via a single model call.
// It never raises to its caller: model failures and out-of-taxonomy
// responses both coerce to TopicOther.
type Classifier struct {
	llm out.LLMClient
	log *logger.Logger
}

// NewClassifier creates a new topic classifier.
func NewClassifier(llm out.LLMClient) *Classifier {
	return &Classifier{
		llm: llm,
		log: logger.WithField("component", "classifier"),
	}
}

// Classify returns the topic for one record. Total: any failure in the
// underlying model call degrades to TopicOther.
func (c *Classifier) Classify(ctx context.Context, rec *domain.EmailContent) domain.Topic {
	topic, _ := c.classify(ctx, rec)
	return topic
}

// classify additionally reports whether the result is a fallback, either
// from a model failure or from an out-of-taxonomy response.
func (c *Classifier) classify(ctx context.Context, rec *domain.EmailContent) (domain.Topic, bool) {
	prompt := buildClassifyPrompt(rec)

	resp, err := c.llm.Complete(ctx, prompt, classifyMaxTokens)
	if err != nil {
		c.log.WithError(err).WithField("message_id", rec.ID).
			Warn("classification model call failed, falling back to other")
		return domain.TopicOther, true
	}

	normalized := strings.ToLower(strings.TrimSpace(resp))
	topic := domain.ParseTopic(resp)
	if topic == domain.TopicOther && normalized != string(domain.TopicOther) {
		// Response was outside the taxonomy rather than a literal "other".
		c.log.WithFields(map[string]any{
			"message_id": rec.ID,
			"response":   strings.TrimSpace(resp),
		}).Debug("out-of-taxonomy classification response coerced to other")
		return domain.TopicOther, true
	}

	return topic, false
}

// buildClassifyPrompt embeds the full taxonomy with descriptions plus the
// record's subject, sender, and bounded body prefix.
func buildClassifyPrompt(rec *domain.EmailContent) string {
	var sb strings.Builder

	sb.WriteString("You are an email classification AI. Assign the email to exactly ONE category.\n\n")
	sb.WriteString("Categories (pick ONE):\n")
	for _, t := range domain.AllTopics {
		fmt.Fprintf(&sb, "- %s: %s\n", t, t.Description())
	}
	sb.WriteString("\nRespond with only the category name, nothing else.\n\n")

	fmt.Fprintf(&sb, "From: %s\nSubject: %s\n\nBody:\n%s",
		rec.Sender, rec.Subject, truncateBody(rec.Body, classifyBodyLimit))

	return sb.String()
}

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
