package delivery

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"digest_server/core/domain"
)

func sampleReport() *domain.RunReport {
	report := domain.NewRunReport()
	report.Account = "me@example.com"
	report.TotalFetched = 4
	return report
}

func TestRenderText(t *testing.T) {
	digests := []*domain.TopicDigest{
		{Topic: domain.TopicSocialEvents, RecordCount: 3, Text: "three invites"},
		{Topic: domain.TopicOther, RecordCount: 1, Text: "one misc item"},
	}

	got := renderText(sampleReport(), digests)

	for _, want := range []string{
		strings.Repeat("=", 60),
		"UNREAD MAIL DIGEST",
		"Account: me@example.com",
		"Messages: 4 unread, 2 digest topics",
		"## Social Events (3 emails)",
		"## Everything Else (1 emails)",
		"three invites",
		"one misc item",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered digest missing %q", want)
		}
	}
}

func TestRenderTextEmptyRun(t *testing.T) {
	got := renderText(sampleReport(), nil)

	if !strings.Contains(got, "No unread emails found.") {
		t.Error("empty run missing placeholder line")
	}
	if strings.Contains(got, "##") {
		t.Error("empty run rendered a topic heading")
	}
}

func TestTopicTitleFallsBackToRawValue(t *testing.T) {
	if got := topicTitle(domain.Topic("mystery")); got != "mystery" {
		t.Errorf("topicTitle = %q, want raw value", got)
	}
}

func TestConsoleSinkWrites(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSinkWriter(&buf)

	digests := []*domain.TopicDigest{
		{Topic: domain.TopicTechEvents, RecordCount: 2, Text: "two meetups"},
	}
	if err := sink.Deliver(context.Background(), sampleReport(), digests); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if !strings.Contains(buf.String(), "two meetups") {
		t.Errorf("console output missing digest text: %q", buf.String())
	}
}
