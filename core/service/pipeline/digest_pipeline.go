// Package pipeline sequences the digest stages for one run.
package pipeline

import (
	"context"
	"time"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/core/service/classify"
	"digest_server/core/service/extract"
	"digest_server/core/service/summarize"
	"digest_server/pkg/logger"
)

// Config bounds one pipeline run.
type Config struct {
	MaxMessages int  // upper bound on fetched unread messages
	MarkRead    bool // mark digested messages as read after delivery
}

// Pipeline drives extract -> classify -> aggregate -> summarize for one run.
// Every stage degrades locally; a run always completes and always emits a
// digest set, however degraded.
type Pipeline struct {
	source     out.MailSource
	modifier   out.MailModifier
	extractor  *extract.Extractor
	classifier *classify.BatchClassifier
	generator  *summarize.Generator
	sinks      []out.DeliverySink
	cfg        Config
	log        *logger.Logger
}

// New creates a pipeline. modifier may be nil when read-state mutation is
// disabled; sinks may be empty when the caller only wants the report.
func New(
	source out.MailSource,
	modifier out.MailModifier,
	extractor *extract.Extractor,
	classifier *classify.BatchClassifier,
	generator *summarize.Generator,
	sinks []out.DeliverySink,
	cfg Config,
) *Pipeline {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 50
	}
	return &Pipeline{
		source:     source,
		modifier:   modifier,
		extractor:  extractor,
		classifier: classifier,
		generator:  generator,
		sinks:      sinks,
		cfg:        cfg,
		log:        logger.WithField("component", "pipeline"),
	}
}

// Run executes one full pipeline pass and returns its report. The only
// returned error is context cancellation; every other failure degrades into
// the report instead of aborting the run.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunReport, error) {
	report := domain.NewRunReport()
	log := p.log.WithField("run_id", report.RunID.String())

	if account, err := p.source.Profile(ctx); err == nil {
		report.Account = account
		log.Info("connected to %s", account)
	} else {
		log.WithError(err).Warn("could not resolve account profile")
	}

	raw := p.fetch(ctx, report, log)
	records := p.extractAll(raw, report)

	batch := p.classifier.ClassifyAll(ctx, records)
	report.ClassifyFallbacks = batch.Fallbacks
	for _, topic := range batch.Topics {
		report.TopicCounts[topic]++
	}

	groups := classify.Aggregate(records, batch.Topics)
	digests := p.generator.GenerateAll(ctx, groups)

	report.Digests = len(digests)
	for _, d := range digests {
		if d.Degraded {
			report.DigestFailures++
		}
	}

	p.deliver(ctx, report, digests, log)
	p.markRead(ctx, digests, groups, log)

	report.Duration = time.Since(report.StartedAt)
	log.WithDuration(report.Duration).WithFields(map[string]any{
		"fetched":            report.TotalFetched,
		"digests":            report.Digests,
		"classify_fallbacks": report.ClassifyFallbacks,
		"digest_failures":    report.DigestFailures,
	}).Info("pipeline run complete")

	return report, ctx.Err()
}

// fetch lists unread messages. A source failure is treated as zero messages
// available for this run, never as a hard abort.
func (p *Pipeline) fetch(ctx context.Context, report *domain.RunReport, log *logger.Logger) []*domain.RawMessage {
	raw, err := p.source.ListUnread(ctx, p.cfg.MaxMessages)
	if err != nil {
		log.WithError(err).Warn("fetching unread messages failed, continuing with empty run")
		report.FetchFailed = true
		return nil
	}
	report.TotalFetched = len(raw)
	return raw
}

func (p *Pipeline) extractAll(raw []*domain.RawMessage, report *domain.RunReport) []*domain.EmailContent {
	records := make([]*domain.EmailContent, 0, len(raw))
	for _, msg := range raw {
		if msg == nil {
			continue
		}
		records = append(records, p.extractor.Extract(msg))
	}
	report.Extracted = len(records)
	return records
}

func (p *Pipeline) deliver(ctx context.Context, report *domain.RunReport, digests []*domain.TopicDigest, log *logger.Logger) {
	for _, sink := range p.sinks {
		if err := sink.Deliver(ctx, report, digests); err != nil {
			log.WithError(err).Warn("digest delivery failed")
		}
	}
}

// markRead flags the members of successfully digested groups as read.
// Read-state consistency under partial failure is explicitly not guaranteed;
// a modifier error is logged and dropped.
func (p *Pipeline) markRead(ctx context.Context, digests []*domain.TopicDigest, groups []*domain.TopicGroup, log *logger.Logger) {
	if !p.cfg.MarkRead || p.modifier == nil {
		return
	}

	degraded := make(map[domain.Topic]bool, len(digests))
	for _, d := range digests {
		degraded[d.Topic] = d.Degraded
	}

	var ids []string
	for _, grp := range groups {
		if degraded[grp.Topic] {
			continue
		}
		for _, rec := range grp.Members {
			ids = append(ids, rec.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	if err := p.modifier.MarkRead(ctx, ids); err != nil {
		log.WithError(err).WithField("count", len(ids)).Warn("marking messages read failed")
		return
	}
	log.WithField("count", len(ids)).Info("marked digested messages as read")
}
