package domain

import "strings"

// Topic is one value of the closed classification taxonomy. Every message
// lands in exactly one topic; anything the model cannot place lands in
// TopicOther.
type Topic string

const (
	TopicSocialEvents Topic = "social_events"
	TopicArtsCulture  Topic = "arts_culture"
	TopicTechEvents   Topic = "tech_events"
	TopicFashion      Topic = "fashion"
	TopicOutreach     Topic = "outreach"
	TopicJobPostings  Topic = "job_postings"
	TopicOther        Topic = "other"
)

// AllTopics lists the taxonomy in its canonical order. Prompt construction
// and reporting both iterate this slice so the ordering is stable.
var AllTopics = []Topic{
	TopicSocialEvents,
	TopicArtsCulture,
	TopicTechEvents,
	TopicFashion,
	TopicOutreach,
	TopicJobPostings,
	TopicOther,
}

// topicDescriptions carries the one-line description plus illustrative
// sub-cases embedded in the classification prompt.
var topicDescriptions = map[Topic]string{
	TopicSocialEvents: "social gatherings and invitations (parties, meetups, dinners, community hangouts)",
	TopicArtsCulture:  "culture and arts happenings (exhibitions, concerts, theater, film screenings, museums)",
	TopicTechEvents:   "professional and tech events (conferences, hackathons, tech talks, networking sessions)",
	TopicFashion:      "fashion content (brand drops, runway shows, sample sales, styling newsletters)",
	TopicOutreach:     "an individual reaching out directly (recruiter messages, collaboration offers, personal asks)",
	TopicJobPostings:  "bulk job postings (job boards, role digests, mass hiring announcements)",
	TopicOther:        "anything that does not fit the categories above",
}

// Description returns the prompt description for the topic.
func (t Topic) Description() string {
	return topicDescriptions[t]
}

// IsEventLike reports whether the topic belongs to the event family, which
// shares one digest instruction (event name, date, venue, links, deadlines).
func (t Topic) IsEventLike() bool {
	switch t {
	case TopicSocialEvents, TopicArtsCulture, TopicTechEvents, TopicFashion:
		return true
	}
	return false
}

// ParseTopic maps free-form model output onto the taxonomy. It is total:
// the response is trimmed and lowercased, then checked for exact membership;
// everything else coerces to TopicOther. No whitespace/underscore
// equivalence is applied beyond the lowercasing.
func ParseTopic(s string) Topic {
	normalized := Topic(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AllTopics {
		if normalized == t {
			return t
		}
	}
	return TopicOther
}
