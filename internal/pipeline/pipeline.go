package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"subgen/internal/audio"
	"subgen/internal/logging"
	"subgen/internal/segment"
	"subgen/internal/services"
	"subgen/internal/timescale"
	"subgen/internal/transcriber"
	"subgen/internal/transcript"
)

const (
	// DefaultWorkers is the size of the chunk worker pool. Backend calls are
	// the only blocking work, so a small pool keeps ordering pressure low
	// while still hiding network latency.
	DefaultWorkers = 2
	// DefaultRetries bounds per-chunk retry attempts after the first try.
	DefaultRetries = 3
	// DefaultRetryInterval seeds the exponential backoff (1s, 2s, 4s).
	DefaultRetryInterval = time.Second
)

// Callbacks deliver incremental results to the consumer. Both are optional.
// OnSnapshot is invoked under the merge lock so snapshots arrive in fold
// order; handlers must not block.
type Callbacks struct {
	OnSnapshot func(segments []transcript.Segment)
	OnStatus   func(phase string)
}

// Options tunes one Run.
type Options struct {
	Workers       int
	Retries       int
	RetryInterval time.Duration
	// OverlapClampSeconds overrides the merge clamp threshold. Zero selects
	// the default for the backend's kind.
	OverlapClampSeconds float64
	// Capture, when non-nil, records the exact audio bytes sent to the
	// backend for every chunk. Diagnostic only.
	Capture *Capture
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	return o
}

// Runner owns the job epoch counter. Starting a new run atomically
// supersedes the previous one: workers of the old epoch notice the mismatch
// and stop publishing. A Runner is safe for concurrent use.
type Runner struct {
	epoch  atomic.Uint64
	logger *slog.Logger
}

// NewRunner constructs a runner. A nil logger disables logging.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logging.NewComponentLogger(logger, "pipeline")}
}

// Cancel supersedes the current job without starting a new one. In-flight
// backend calls are allowed to finish; their results are discarded.
func (r *Runner) Cancel() {
	r.epoch.Add(1)
}

// job carries the per-run state shared by the workers.
type job struct {
	epoch  uint64
	buf    audio.Buffer
	seg    *segment.Segmenter
	tr     transcriber.ChunkTranscriber
	opts   Options
	cb     Callbacks
	policy transcript.MergePolicy
	logger *slog.Logger

	mu sync.Mutex // guards seg.Next, tx, and snapshot publication
	tx *transcript.Transcript
}

// Run segments the waveform, transcribes every chunk under the worker pool,
// and folds results into a transcript that is republished after each chunk.
// It blocks until the traversal completes and returns the final transcript.
//
// A chunk that keeps failing contributes nothing; only setup errors fail the
// run. If the run is superseded (another Run or Cancel), Run returns
// services.ErrCancelled and the caller should discard the result.
func (r *Runner) Run(ctx context.Context, buf audio.Buffer, segCfg segment.Config, tr transcriber.ChunkTranscriber, cb Callbacks, opts Options) ([]transcript.Segment, error) {
	opts = opts.withDefaults()

	if tr == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "transcriber required", nil)
	}
	seg, err := segment.New(buf, segCfg)
	if err != nil {
		return nil, err
	}

	epoch := r.epoch.Add(1)
	ctx = services.WithEpoch(services.WithBackend(ctx, tr.Name()), epoch)

	j := &job{
		epoch:  epoch,
		buf:    buf,
		seg:    seg,
		tr:     tr,
		opts:   opts,
		cb:     cb,
		policy: mergePolicy(tr.Kind(), opts.OverlapClampSeconds),
		logger: r.logger.With(logging.Uint64(logging.FieldEpoch, epoch), logging.String(logging.FieldBackend, tr.Name())),
		tx:     transcript.New(),
	}

	j.status("transcribing")

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer wg.Done()
			j.workerLoop(ctx, r)
		}()
	}
	wg.Wait()

	if r.epoch.Load() != epoch || ctx.Err() != nil {
		return nil, services.ErrCancelled
	}

	if j.opts.Capture != nil {
		if err := j.opts.Capture.Finalize(); err != nil {
			j.logger.Warn("chunk capture archive failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "capture_archive_failed"),
				logging.String(logging.FieldErrorHint, "check capture directory permissions"),
			)
		}
	}

	j.status("complete")
	return j.tx.Snapshot(), nil
}

// workerLoop repeatedly takes the next chunk and processes it. The epoch is
// checked before and after each chunk; a mismatch is the cancellation
// signal, no explicit channel required.
func (j *job) workerLoop(ctx context.Context, r *Runner) {
	for {
		if r.epoch.Load() != j.epoch || ctx.Err() != nil {
			return
		}

		j.mu.Lock()
		chunk, ok := j.seg.Next()
		j.mu.Unlock()
		if !ok {
			return
		}

		segments := j.processChunk(ctx, chunk)

		if r.epoch.Load() != j.epoch || ctx.Err() != nil {
			// Superseded while the backend call was in flight: discard.
			return
		}

		j.mu.Lock()
		j.tx.Fold(segments, j.policy)
		if j.cb.OnSnapshot != nil {
			j.cb.OnSnapshot(j.tx.Snapshot())
		}
		j.mu.Unlock()
	}
}

// processChunk transcribes one chunk with retry, scales its timestamps, and
// offsets them to absolute file time. Failures after retry exhaustion yield
// an empty contribution.
func (j *job) processChunk(ctx context.Context, chunk segment.Chunk) []transcript.Segment {
	samples := j.buf.Samples[chunk.StartSample:chunk.EndSample]

	if j.opts.Capture != nil {
		j.opts.Capture.Add(chunk, samples, j.buf.Rate)
	}

	raw, err := j.transcribeWithRetry(ctx, samples)
	if err != nil {
		j.logger.Warn("chunk abandoned after retries",
			logging.Int(logging.FieldChunkIndex, chunk.Index),
			logging.Error(err),
			logging.String(logging.FieldEventType, "chunk_failed"),
			logging.String(logging.FieldErrorHint, "the time range will have no text; check backend availability"),
		)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	chunkStart := chunk.StartSeconds(j.buf.Rate)
	chunkSeconds := chunk.DurationSeconds(j.buf.Rate)
	scale := timescale.Detect(raw, chunkSeconds)

	segments := make([]transcript.Segment, 0, len(raw))
	for _, rs := range raw {
		start := chunkStart + rs.Start*scale
		end := chunkStart + rs.End*scale
		if end <= start {
			// Untimed segment (text-only response): span the whole chunk.
			start = chunkStart
			end = chunkStart + chunkSeconds
		}
		segments = append(segments, transcript.Segment{Start: start, End: end, Text: rs.Text})
	}

	j.logger.Debug("chunk transcribed",
		logging.Int(logging.FieldChunkIndex, chunk.Index),
		logging.Float64("chunk_seconds", chunkSeconds),
		logging.Float64("scale", scale),
		logging.Int("segments", len(segments)),
	)
	return segments
}

// transcribeWithRetry calls the backend with bounded exponential backoff.
// Only errors tagged transient are retried; everything else is permanent
// for the chunk.
func (j *job) transcribeWithRetry(ctx context.Context, samples []float32) ([]transcriber.RawSegment, error) {
	var raw []transcriber.RawSegment

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = j.opts.RetryInterval
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	operation := func() error {
		var err error
		raw, err = j.tr.Transcribe(ctx, samples, j.buf.Rate)
		if err != nil && !services.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(j.opts.Retries)), ctx))
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (j *job) status(phase string) {
	if j.cb.OnStatus != nil {
		j.cb.OnStatus(phase)
	}
}

// mergePolicy picks the clamp threshold for the backend class unless the
// caller overrode it.
func mergePolicy(kind transcriber.Kind, override float64) transcript.MergePolicy {
	if override > 0 {
		return transcript.MergePolicy{OverlapClampSeconds: override}
	}
	if kind == transcriber.KindInProcess {
		return transcript.MergePolicy{OverlapClampSeconds: transcript.InProcessOverlapClampSeconds}
	}
	return transcript.MergePolicy{OverlapClampSeconds: transcript.NetworkOverlapClampSeconds}
}
