package transcript

import (
	"sort"
	"strings"
)

// Segment is one subtitle cue: absolute, file-relative times in seconds and
// the text spoken in that span. ID is a display index reassigned on every
// re-sort; it carries no identity across snapshots.
type Segment struct {
	ID    int
	Start float64
	End   float64
	Text  string
}

// MergePolicy tunes the overlap resolution between a newly folded segment
// and its neighbour. The thresholds are empirically tuned per backend class:
// network backends report sloppier boundaries than in-process inference.
type MergePolicy struct {
	// OverlapClampSeconds is the largest overlap that is treated as a
	// boundary artifact and clamped away. Larger overlaps mean the segment
	// is a duplicate of audio already transcribed.
	OverlapClampSeconds float64
}

const (
	// NetworkOverlapClampSeconds applies to cloud and local-server backends.
	NetworkOverlapClampSeconds = 1.0
	// InProcessOverlapClampSeconds applies to in-process inference.
	InProcessOverlapClampSeconds = 0.5
)

// Transcript accumulates the sorted, deduplicated, non-overlapping segment
// sequence for one job. It is owned by the pipeline; callers receive copies
// via Snapshot. Methods are not safe for concurrent use; the pipeline
// serializes folds behind its own mutex.
type Transcript struct {
	segments []Segment
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Len returns the number of segments.
func (t *Transcript) Len() int {
	return len(t.segments)
}

// Snapshot returns a copy of the current segment sequence, sorted by start
// and indexed 0..N-1.
func (t *Transcript) Snapshot() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Fold merges a newly arrived, already-scaled segment list into the
// transcript, preserving ordering and the no-overlap invariant, then
// re-indexes all entries by ascending start.
//
// Folding is idempotent: an empty increment changes nothing, and folding the
// same increment twice (a duplicate delivery) yields the same transcript as
// folding it once.
func (t *Transcript) Fold(incoming []Segment, policy MergePolicy) {
	if len(incoming) == 0 {
		return
	}
	for _, seg := range incoming {
		t.fold(seg, policy)
	}
	t.reindex()
}

// fold inserts one segment at its sorted position, resolving duplication
// and overlap against its predecessor and overlap against its successor.
func (t *Transcript) fold(seg Segment, policy MergePolicy) {
	if seg.End <= seg.Start && seg.Text == "" {
		return
	}

	// Insertion point: first existing segment starting strictly after seg.
	at := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].Start > seg.Start
	})

	if at > 0 {
		last := &t.segments[at-1]

		// Exact repeat: a known hallucination pattern from windowed backends.
		if seg.Text == last.Text {
			return
		}
		// Sub-phrase repeat at a chunk boundary.
		if cleaned := cleanForCompare(seg.Text); cleaned != "" &&
			strings.HasSuffix(cleanForCompare(last.Text), cleaned) {
			return
		}
		if seg.Start < last.End {
			overlap := last.End - seg.Start
			if overlap < policy.OverlapClampSeconds {
				seg.Start = last.End
			} else if seg.End <= last.End {
				// Fully contained in audio already transcribed.
				return
			} else {
				// Large overlap but new tail content: keep the tail.
				seg.Start = last.End
			}
		}
	}

	// Never intrude into the successor either; scale detection tolerates
	// reported ends that overshoot the chunk boundary.
	if at < len(t.segments) {
		if next := t.segments[at]; seg.End > next.Start {
			seg.End = next.Start
		}
	}

	if seg.End <= seg.Start {
		return
	}

	t.segments = append(t.segments, Segment{})
	copy(t.segments[at+1:], t.segments[at:])
	t.segments[at] = seg
}

// reindex reassigns display IDs by ascending start. The slice is kept
// sorted by fold, so this is a single pass.
func (t *Transcript) reindex() {
	sort.SliceStable(t.segments, func(i, j int) bool {
		return t.segments[i].Start < t.segments[j].Start
	})
	for i := range t.segments {
		t.segments[i].ID = i
	}
}

// cleanForCompare lowercases text and strips terminal punctuation so that
// "Hello there." and "hello there" compare equal.
func cleanForCompare(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".,!?;:…。、 ")
}

// Text returns the transcript as plain text, one segment per line.
func (t *Transcript) Text() string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
