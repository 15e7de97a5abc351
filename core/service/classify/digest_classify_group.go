package classify

import (
	"context"
	"sync/atomic"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"

	"digest_server/core/domain"
)

// BatchResult carries the labels of one classification batch plus the
// number of records that degraded to the catch-all topic.
type BatchResult struct {
	Topics    []domain.Topic
	Fallbacks int
}

// classifyTask pairs a record with its input index so results re-associate
// by explicit correlation, never by completion order.
type classifyTask struct {
	idx int
	rec *domain.EmailContent
}

// classifyWorker implements pool.Worker for classification tasks. Each task
// writes only its own result slot, so no locking is needed.
type classifyWorker struct {
	classifier *Classifier
	topics     []domain.Topic
	fallbacks  int64 // atomic
}

// Do implements pool.Worker.
func (w *classifyWorker) Do(ctx context.Context, task *classifyTask) error {
	topic, fellBack := w.classifier.classify(ctx, task.rec)
	w.topics[task.idx] = topic
	if fellBack {
		atomic.AddInt64(&w.fallbacks, 1)
	}
	return nil
}

// BatchClassifier fans classification out over a bounded worker group.
// Records have no data dependency on each other, so only the worker count
// bounds concurrency against the model's rate limits.
type BatchClassifier struct {
	classifier *Classifier
	workers    int
	log        zerolog.Logger
}

// NewBatchClassifier creates a batch classifier with the given concurrency.
func NewBatchClassifier(classifier *Classifier, workers int, log zerolog.Logger) *BatchClassifier {
	if workers < 1 {
		workers = 1
	}
	return &BatchClassifier{
		classifier: classifier,
		workers:    workers,
		log:        log.With().Str("component", "classify_group").Logger(),
	}
}

// ClassifyAll labels every record of the batch. The result slice is parallel
// to the input. One record's failure never cancels the rest; it only
// degrades that record to the catch-all topic.
func (b *BatchClassifier) ClassifyAll(ctx context.Context, records []*domain.EmailContent) *BatchResult {
	if len(records) == 0 {
		return &BatchResult{Topics: nil}
	}

	worker := &classifyWorker{
		classifier: b.classifier,
		topics:     make([]domain.Topic, len(records)),
	}

	group := pool.New[*classifyTask](b.workers, worker).
		WithWorkerChanSize(len(records)).
		WithContinueOnError()

	if err := group.Go(ctx); err != nil {
		b.log.Warn().Err(err).Msg("worker group failed to start, classifying serially")
		return b.classifySerial(ctx, records, worker)
	}

	for i, rec := range records {
		group.Submit(&classifyTask{idx: i, rec: rec})
	}

	if err := group.Close(ctx); err != nil {
		b.log.Warn().Err(err).Msg("worker group closed with error")
	}

	b.log.Debug().
		Int("records", len(records)).
		Int("workers", b.workers).
		Int64("fallbacks", atomic.LoadInt64(&worker.fallbacks)).
		Msg("classification batch complete")

	return &BatchResult{
		Topics:    worker.topics,
		Fallbacks: int(atomic.LoadInt64(&worker.fallbacks)),
	}
}

func (b *BatchClassifier) classifySerial(ctx context.Context, records []*domain.EmailContent, worker *classifyWorker) *BatchResult {
	for i, rec := range records {
		_ = worker.Do(ctx, &classifyTask{idx: i, rec: rec})
	}
	return &BatchResult{
		Topics:    worker.topics,
		Fallbacks: int(atomic.LoadInt64(&worker.fallbacks)),
	}
}
