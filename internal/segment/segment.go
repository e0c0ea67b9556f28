package segment

import (
	"fmt"

	"subgen/internal/audio"
	"subgen/internal/services"
)

// Chunk is one contiguous window of the waveform dispatched to the
// transcriber as a unit. Chunks are produced in increasing Index order and
// together cover the traversed range exactly once, with adjacent chunks
// sharing a boundary sample.
type Chunk struct {
	Index       int
	StartSample int
	EndSample   int
}

// StartSeconds returns the chunk's absolute start time.
func (c Chunk) StartSeconds(rate int) float64 {
	return float64(c.StartSample) / float64(rate)
}

// EndSeconds returns the chunk's absolute end time.
func (c Chunk) EndSeconds(rate int) float64 {
	return float64(c.EndSample) / float64(rate)
}

// DurationSeconds returns the chunk length in seconds.
func (c Chunk) DurationSeconds(rate int) float64 {
	return float64(c.EndSample-c.StartSample) / float64(rate)
}

// Method selects the segmentation strategy.
type Method string

const (
	// MethodFixed cuts on an absolute-time schedule: a short first window
	// for fast first results, growing windows after that.
	MethodFixed Method = "fixed"
	// MethodVAD cuts only at detected silence so no chunk boundary lands
	// mid-word.
	MethodVAD Method = "vad"
)

// Config carries the segmentation knobs. Zero values are replaced by the
// defaults below in New.
type Config struct {
	Method Method

	// BatchSeconds is the amount of new waveform appended to the VAD bank
	// per iteration.
	BatchSeconds float64
	// MinSilenceSeconds is the shortest quiet run accepted as a cut point.
	MinSilenceSeconds float64
	// SilenceThreshold is the RMS level below which a window counts as quiet.
	SilenceThreshold float64
	// VocalFilterEnabled band-passes a copy of the bank before energy
	// analysis. The samples handed to the transcriber are never filtered.
	VocalFilterEnabled bool
	// LimitSeconds truncates the traversal early when positive ("test the
	// first N seconds" mode).
	LimitSeconds float64

	// ForcedSplitMultiplier bounds the VAD carry-over: once the bank exceeds
	// this many batches with no silence found, a split is forced anyway.
	ForcedSplitMultiplier float64
	// MinChunkSeconds discards degenerate candidate chunks by merging them
	// into their successor. The unavoidable final flush is exempt.
	MinChunkSeconds float64
}

const (
	DefaultBatchSeconds          = 120
	DefaultMinSilenceSeconds     = 0.5
	DefaultSilenceThreshold      = 0.01
	DefaultForcedSplitMultiplier = 3
	DefaultMinChunkSeconds       = 0.2
)

func (c Config) withDefaults() Config {
	if c.Method == "" {
		c.Method = MethodVAD
	}
	if c.BatchSeconds <= 0 {
		c.BatchSeconds = DefaultBatchSeconds
	}
	if c.MinSilenceSeconds <= 0 {
		c.MinSilenceSeconds = DefaultMinSilenceSeconds
	}
	if c.SilenceThreshold <= 0 {
		c.SilenceThreshold = DefaultSilenceThreshold
	}
	if c.ForcedSplitMultiplier <= 0 {
		c.ForcedSplitMultiplier = DefaultForcedSplitMultiplier
	}
	if c.MinChunkSeconds <= 0 {
		c.MinChunkSeconds = DefaultMinChunkSeconds
	}
	return c
}

// Segmenter turns a waveform into a lazy, finite, forward-only stream of
// chunks. It is not safe for concurrent use; the pipeline serializes Next
// calls behind its own mutex.
type Segmenter struct {
	buf   audio.Buffer
	cfg   Config
	limit int // exclusive sample bound of the traversal

	next      int // next index to assign
	exhausted bool

	// fixed-schedule state
	cursor int

	// VAD state
	bankStart int       // absolute offset of bank[0]
	bank      []float32 // carry-over not yet proven to end at silence
	appendPos int       // absolute offset of the next batch append
	pending   []Chunk
}

// New validates the waveform and configuration and returns a segmenter
// positioned at the start of the traversal.
func New(buf audio.Buffer, cfg Config) (*Segmenter, error) {
	if buf.Rate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "segment", "new", fmt.Sprintf("invalid sample rate %d", buf.Rate), nil)
	}
	if buf.Len() == 0 {
		return nil, services.Wrap(services.ErrValidation, "segment", "new", "empty waveform", nil)
	}
	cfg = cfg.withDefaults()
	if cfg.Method != MethodFixed && cfg.Method != MethodVAD {
		return nil, services.Wrap(services.ErrValidation, "segment", "new", fmt.Sprintf("unknown method %q", cfg.Method), nil)
	}

	limit := buf.Len()
	if cfg.LimitSeconds > 0 {
		if capped := buf.SecondsToSamples(cfg.LimitSeconds); capped < limit {
			limit = capped
		}
	}
	if limit <= 0 {
		return nil, services.Wrap(services.ErrValidation, "segment", "new", "limit truncates the waveform to nothing", nil)
	}

	return &Segmenter{buf: buf, cfg: cfg, limit: limit}, nil
}

// Next returns the next chunk in the traversal. The second return value is
// false once the waveform (or the configured limit) is exhausted.
func (s *Segmenter) Next() (Chunk, bool) {
	if s.exhausted {
		return Chunk{}, false
	}
	var (
		chunk Chunk
		ok    bool
	)
	switch s.cfg.Method {
	case MethodFixed:
		chunk, ok = s.nextFixed()
	default:
		chunk, ok = s.nextVAD()
	}
	if !ok {
		s.exhausted = true
		return Chunk{}, false
	}
	chunk.Index = s.next
	s.next++
	return chunk, true
}

// emit builds an unindexed chunk; Next assigns the index.
func emit(start, end int) Chunk {
	return Chunk{StartSample: start, EndSample: end}
}
