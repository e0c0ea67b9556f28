package transcript

import (
	"reflect"
	"testing"
)

var testPolicy = MergePolicy{OverlapClampSeconds: NetworkOverlapClampSeconds}

func texts(segments []Segment) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, seg.Text)
	}
	return out
}

func TestFoldKeepsSortedOrderAcrossOutOfOrderArrival(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 60, End: 63, Text: "later"}}, testPolicy)
	tx.Fold([]Segment{{Start: 0, End: 3, Text: "first"}}, testPolicy)
	tx.Fold([]Segment{{Start: 30, End: 33, Text: "middle"}}, testPolicy)

	got := tx.Snapshot()
	want := []string{"first", "middle", "later"}
	if !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("expected order %v, got %v", want, texts(got))
	}
	for i, seg := range got {
		if seg.ID != i {
			t.Fatalf("expected ID %d, got %d", i, seg.ID)
		}
	}
}

func TestFoldDropsExactTextRepeat(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 3, Text: "thanks for watching"}}, testPolicy)
	tx.Fold([]Segment{{Start: 3, End: 6, Text: "thanks for watching"}}, testPolicy)

	if tx.Len() != 1 {
		t.Fatalf("expected repeat to be dropped, have %d segments", tx.Len())
	}
}

func TestFoldDropsCleanedSuffixRepeat(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 4, Text: "and that is the whole story."}}, testPolicy)
	tx.Fold([]Segment{{Start: 4, End: 6, Text: "The whole story"}}, testPolicy)

	if tx.Len() != 1 {
		t.Fatalf("expected suffix repeat to be dropped, have %d segments", tx.Len())
	}
}

func TestFoldClampsSmallOverlap(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 10, Text: "one"}}, testPolicy)
	tx.Fold([]Segment{{Start: 9.5, End: 13, Text: "two"}}, testPolicy)

	got := tx.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[1].Start != 10 {
		t.Fatalf("expected overlap clamped to 10, got %v", got[1].Start)
	}
	if got[1].End != 13 {
		t.Fatalf("expected end untouched at 13, got %v", got[1].End)
	}
}

func TestFoldDropsContainedSegment(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 10, Text: "one"}}, testPolicy)
	tx.Fold([]Segment{{Start: 2, End: 8, Text: "two"}}, testPolicy)

	if tx.Len() != 1 {
		t.Fatalf("expected contained segment to be dropped, have %d", tx.Len())
	}
}

func TestFoldKeepsTailOfLargeOverlap(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 10, Text: "one"}}, testPolicy)
	tx.Fold([]Segment{{Start: 5, End: 14, Text: "two"}}, testPolicy)

	got := tx.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[1].Start != 10 || got[1].End != 14 {
		t.Fatalf("expected tail [10, 14], got [%v, %v]", got[1].Start, got[1].End)
	}
}

func TestFoldClampsEndAgainstSuccessor(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 20, End: 25, Text: "later"}}, testPolicy)
	tx.Fold([]Segment{{Start: 15, End: 22, Text: "earlier"}}, testPolicy)

	got := tx.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[0].End != 20 {
		t.Fatalf("expected earlier segment clamped to 20, got %v", got[0].End)
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	increment := []Segment{
		{Start: 0, End: 3, Text: "alpha"},
		{Start: 3, End: 6, Text: "beta"},
	}

	tx := New()
	tx.Fold(increment, testPolicy)
	once := tx.Snapshot()

	tx.Fold(increment, testPolicy)
	twice := tx.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("duplicate fold changed the transcript: %v vs %v", once, twice)
	}

	tx.Fold(nil, testPolicy)
	if !reflect.DeepEqual(tx.Snapshot(), twice) {
		t.Fatal("empty fold changed the transcript")
	}
}

func TestFoldMaintainsNoOverlapInvariant(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 5, Text: "a"}, {Start: 5, End: 9, Text: "b"}}, testPolicy)
	tx.Fold([]Segment{{Start: 8.7, End: 12, Text: "c"}}, testPolicy)
	tx.Fold([]Segment{{Start: 4.5, End: 5.5, Text: "d"}}, testPolicy)

	got := tx.Snapshot()
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].End {
			t.Fatalf("segments %d and %d overlap: %v", i-1, i, got)
		}
	}
	for _, seg := range got {
		if seg.End <= seg.Start {
			t.Fatalf("empty segment survived: %+v", seg)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tx := New()
	tx.Fold([]Segment{{Start: 0, End: 3, Text: "a"}}, testPolicy)

	snap := tx.Snapshot()
	snap[0].Text = "mutated"

	if tx.Snapshot()[0].Text != "a" {
		t.Fatal("snapshot mutation leaked into the transcript")
	}
}
