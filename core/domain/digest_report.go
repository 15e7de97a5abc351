package domain

import (
	"time"

	"github.com/google/uuid"
)

// TopicGroup holds all extracted records that classified into one topic.
// Members keep the order in which they entered the pipeline.
type TopicGroup struct {
	Topic   Topic           `json:"topic"`
	Members []*EmailContent `json:"members"`
}

// TopicDigest is the generated summary for one non-empty group.
// Immutable after creation; one per topic per run.
type TopicDigest struct {
	Topic       Topic     `json:"topic"`
	RecordCount int       `json:"record_count"`
	Text        string    `json:"text"`
	Degraded    bool      `json:"degraded,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RunReport carries per-stage observability counts for one pipeline run.
type RunReport struct {
	RunID        uuid.UUID     `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ms"`
	Account      string        `json:"account,omitempty"`
	TotalFetched int           `json:"total_fetched"`
	Extracted    int           `json:"extracted"`
	TopicCounts  map[Topic]int `json:"topic_counts"`
	Digests      int           `json:"digests"`

	// Degradation counters. A run completes even when every stage degrades.
	ClassifyFallbacks int  `json:"classify_fallbacks"`
	DigestFailures    int  `json:"digest_failures"`
	FetchFailed       bool `json:"fetch_failed,omitempty"`
}

// NewRunReport seeds a report for a run starting now.
func NewRunReport() *RunReport {
	return &RunReport{
		RunID:       uuid.New(),
		StartedAt:   time.Now(),
		TopicCounts: make(map[Topic]int),
	}
}
