// Package delivery renders finished digests into human-facing artifacts.
package delivery

import (
	"fmt"
	"strings"

	"digest_server/core/domain"
)

// topicTitles maps taxonomy values to display headings.
var topicTitles = map[domain.Topic]string{
	domain.TopicSocialEvents: "Social Events",
	domain.TopicArtsCulture:  "Arts & Culture",
	domain.TopicTechEvents:   "Tech & Professional Events",
	domain.TopicFashion:      "Fashion",
	domain.TopicOutreach:     "Personal Outreach",
	domain.TopicJobPostings:  "Job Postings",
	domain.TopicOther:        "Everything Else",
}

func topicTitle(t domain.Topic) string {
	if title, ok := topicTitles[t]; ok {
		return title
	}
	return string(t)
}

// renderText formats a run's digests as the plain-text artifact shared by
// the console and email sinks.
func renderText(report *domain.RunReport, digests []*domain.TopicDigest) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString("UNREAD MAIL DIGEST\n")
	if report.Account != "" {
		fmt.Fprintf(&sb, "Account: %s\n", report.Account)
	}
	fmt.Fprintf(&sb, "Messages: %d unread, %d digest topics\n", report.TotalFetched, len(digests))
	sb.WriteString(rule + "\n")

	if len(digests) == 0 {
		sb.WriteString("\nNo unread emails found.\n")
		return sb.String()
	}

	for _, d := range digests {
		fmt.Fprintf(&sb, "\n## %s (%d emails)\n\n", topicTitle(d.Topic), d.RecordCount)
		sb.WriteString(d.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + rule + "\n")

	return sb.String()
}
