package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/uwg-schema/internal/observability"
	"github.com/couchcryptid/uwg-schema/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]pipeline.Submission
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]pipeline.Submission, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	fail map[string]error
}

func (m *mockTransformer) Transform(_ context.Context, sub pipeline.Submission) (pipeline.Report, error) {
	if err := m.fail[string(sub.Key)]; err != nil {
		return pipeline.Report{}, err
	}
	return pipeline.Report{ID: string(sub.Key), Valid: true}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []pipeline.Report
	failures int
	calls    int
}

func (m *mockLoader) LoadBatch(_ context.Context, reports []pipeline.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("sink unavailable")
	}
	m.loaded = append(m.loaded, reports...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func submission(key string, committed *atomic.Int64) pipeline.Submission {
	return pipeline.Submission{
		Key:   []byte(key),
		Value: []byte(`{"type":"Material"}`),
		Topic: "uwg-model-submissions",
		Commit: func(_ context.Context) error {
			if committed != nil {
				committed.Add(1)
			}
			return nil
		},
	}
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var committed atomic.Int64
	ext := &mockExtractor{batches: [][]pipeline.Submission{{
		submission("a", &committed),
		submission("b", &committed),
	}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	require.Error(t, p.CheckReadiness(context.Background()))

	runFor(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "a", ldr.loaded[0].ID)
	assert.Equal(t, "b", ldr.loaded[1].ID)
	assert.Equal(t, int64(2), committed.Load())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	var committed atomic.Int64
	ext := &mockExtractor{batches: [][]pipeline.Submission{{
		submission("bad", &committed),
		submission("good", &committed),
	}}}
	tfm := &mockTransformer{fail: map[string]error{"bad": errors.New("cannot encode")}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "good", ldr.loaded[0].ID)
	assert.Equal(t, int64(2), committed.Load())
}

func TestPipeline_Run_AllTransformsFail(t *testing.T) {
	ext := &mockExtractor{batches: [][]pipeline.Submission{{submission("bad", nil)}}}
	tfm := &mockTransformer{fail: map[string]error{"bad": errors.New("cannot encode")}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Zero(t, ldr.calls)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RetriesLoadBeforeCommit(t *testing.T) {
	var committed atomic.Int64
	ext := &mockExtractor{batches: [][]pipeline.Submission{{submission("a", &committed)}}}
	ldr := &mockLoader{failures: 1}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, time.Second)

	assert.Equal(t, 2, ldr.calls)
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, int64(1), committed.Load())
}

func TestPipeline_Run_LoadNeverSucceedsLeavesOffsets(t *testing.T) {
	var committed atomic.Int64
	ext := &mockExtractor{batches: [][]pipeline.Submission{{submission("a", &committed)}}}
	ldr := &mockLoader{failures: 1000}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Zero(t, committed.Load())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitErrorDoesNotStop(t *testing.T) {
	sub := submission("a", nil)
	sub.Commit = func(_ context.Context) error { return errors.New("rebalance in progress") }
	ext := &mockExtractor{batches: [][]pipeline.Submission{{sub}, {submission("b", nil)}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.Len(t, ldr.loaded, 2)
}

func TestFanOut_LoadBatch(t *testing.T) {
	first, second := &mockLoader{}, &mockLoader{}
	reports := []pipeline.Report{{ID: "a"}, {ID: "b"}}

	require.NoError(t, pipeline.FanOut{first, second}.LoadBatch(context.Background(), reports))
	assert.Equal(t, reports, first.loaded)
	assert.Equal(t, reports, second.loaded)
}

func TestFanOut_StopsAtFirstFailure(t *testing.T) {
	first, second := &mockLoader{failures: 1}, &mockLoader{}

	err := pipeline.FanOut{first, second}.LoadBatch(context.Background(), []pipeline.Report{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader 0")
	assert.Zero(t, second.calls)
}
