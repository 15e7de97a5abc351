package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"digest_server/core/domain"
)

// fakeLLM returns canned responses for classification prompts.
type fakeLLM struct {
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f.respond(prompt)
}

func record(id, subject string) *domain.EmailContent {
	return &domain.EmailContent{
		ID:      id,
		Subject: subject,
		Sender:  "someone@example.com",
		Body:    "body text",
	}
}

func TestClassifyNormalization(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantTopic    domain.Topic
		wantFallback bool
	}{
		{
			name:      "exact taxonomy value",
			response:  "social_events",
			wantTopic: domain.TopicSocialEvents,
		},
		{
			name:      "mixed case with surrounding whitespace",
			response:  " Social_Events\n",
			wantTopic: domain.TopicSocialEvents,
		},
		{
			name:      "uppercase",
			response:  "JOB_POSTINGS",
			wantTopic: domain.TopicJobPostings,
		},
		{
			name:         "space instead of underscore is not equivalent",
			response:     "social events",
			wantTopic:    domain.TopicOther,
			wantFallback: true,
		},
		{
			name:         "empty response",
			response:     "",
			wantTopic:    domain.TopicOther,
			wantFallback: true,
		},
		{
			name:         "multi-line explanation around a valid label",
			response:     "tech_events\nbecause it mentions a conference",
			wantTopic:    domain.TopicOther,
			wantFallback: true,
		},
		{
			name:         "valid label as substring only",
			response:     "probably social_events I think",
			wantTopic:    domain.TopicOther,
			wantFallback: true,
		},
		{
			name:      "literal other is not a fallback",
			response:  "other",
			wantTopic: domain.TopicOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&fakeLLM{respond: func(string) (string, error) {
				return tt.response, nil
			}})

			topic, fellBack := c.classify(context.Background(), record("m1", "Test"))
			if topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", topic, tt.wantTopic)
			}
			if fellBack != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fellBack, tt.wantFallback)
			}
		})
	}
}

func TestClassifyModelFailureDegradesToOther(t *testing.T) {
	c := NewClassifier(&fakeLLM{respond: func(string) (string, error) {
		return "", errors.New("rate limited")
	}})

	topic := c.Classify(context.Background(), record("m1", "Test"))
	if topic != domain.TopicOther {
		t.Errorf("topic = %q, want %q", topic, domain.TopicOther)
	}
}

func TestClassifyPromptContents(t *testing.T) {
	var captured string
	c := NewClassifier(&fakeLLM{respond: func(prompt string) (string, error) {
		captured = prompt
		return "other", nil
	}})

	rec := &domain.EmailContent{
		ID:      "m1",
		Subject: "Hack Night",
		Sender:  "organizer@example.com",
		Body:    strings.Repeat("x", 5000),
	}
	c.Classify(context.Background(), rec)

	for _, topic := range domain.AllTopics {
		if !strings.Contains(captured, string(topic)) {
			t.Errorf("prompt is missing taxonomy entry %q", topic)
		}
	}
	if !strings.Contains(captured, "Hack Night") {
		t.Error("prompt is missing the subject")
	}
	if !strings.Contains(captured, "organizer@example.com") {
		t.Error("prompt is missing the sender")
	}
	if strings.Count(captured, "x") > classifyBodyLimit {
		t.Errorf("body was not truncated: %d chars", strings.Count(captured, "x"))
	}
}

func TestParseTopicIsTotal(t *testing.T) {
	inputs := []string{"", "garbage", "SOCIAL_EVENTS", "  fashion  ", "Social_Events", "何か"}
	for _, in := range inputs {
		got := domain.ParseTopic(in)
		found := false
		for _, topic := range domain.AllTopics {
			if got == topic {
				found = true
			}
		}
		if !found {
			t.Errorf("ParseTopic(%q) = %q, outside taxonomy", in, got)
		}
	}
}
