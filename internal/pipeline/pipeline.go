package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/uwg-schema/internal/observability"
)

// BatchExtractor reads up to batchSize submissions from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]Submission, error)
}

// Transformer turns a submission into a validation report.
type Transformer interface {
	Transform(ctx context.Context, sub Submission) (Report, error)
}

// BatchLoader writes multiple reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, reports []Report) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates the extract-validate-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one report.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not produced any reports yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Retries double from 200ms up to 5s.
	b := &backoff{current: initialBackoff}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, b) {
			return nil
		}
	}
}

// processBatch runs one extract-validate-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, b *backoff) bool {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return b.wait(ctx)
	}
	b.reset()
	if len(batch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	loaded, ok := p.validateAndLoad(ctx, batch, b)
	if !ok {
		return false
	}
	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// validateAndLoad builds a report per submission, loads them, and commits
// offsets. Submissions that yield no report are logged, counted and
// committed so they are not redelivered. Returns the number of loaded
// reports and false if the pipeline should stop.
func (p *Pipeline) validateAndLoad(ctx context.Context, batch []Submission, b *backoff) (int, bool) {
	reports := make([]Report, 0, len(batch))
	done := make([]Submission, 0, len(batch))

	for _, sub := range batch {
		report, err := p.transformer.Transform(ctx, sub)
		if err != nil {
			p.logger.Warn("validation report failed, skipping submission",
				"error", err,
				"topic", sub.Topic,
				"partition", sub.Partition,
				"offset", sub.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, sub)
			continue
		}
		reports = append(reports, report)
		done = append(done, sub)
	}

	if len(reports) == 0 {
		return 0, true
	}

	// Offsets stay uncommitted until the load succeeds, so the same batch is
	// retried rather than refetched.
	for {
		err := p.loader.LoadBatch(ctx, reports)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(reports))
		if !b.wait(ctx) {
			return 0, false
		}
	}
	b.reset()
	p.metrics.MessagesProduced.Add(float64(len(reports)))

	for _, sub := range done {
		p.commit(ctx, sub)
	}
	return len(reports), true
}

// commit commits the submission offset if a commit function is available.
func (p *Pipeline) commit(ctx context.Context, sub Submission) {
	if sub.Commit == nil {
		return
	}
	if err := sub.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", sub.Topic, "partition", sub.Partition, "offset", sub.Offset)
	}
}

type backoff struct {
	current time.Duration
}

func (b *backoff) reset() { b.current = initialBackoff }

// wait sleeps for the current delay and doubles it. Returns false if the
// context ended first.
func (b *backoff) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, b.current) {
		return false
	}
	b.current = min(b.current*2, maxBackoff)
	return true
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
