package transcript

import (
	"strings"
	"testing"
)

func TestRenderSRT(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2.5, Text: " Hello there. "},
		{Start: 61.25, End: 3725.042, Text: "Long\nmultiline"},
	}

	out := string(RenderSRT(segments))
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there.\n\n2\n00:01:01,250 --> 01:02:05,042\nLong\nmultiline\n"
	if out != want {
		t.Fatalf("RenderSRT mismatch:\n got %q\nwant %q", out, want)
	}
}

func TestParseSRTRoundTrip(t *testing.T) {
	segments := []Segment{
		{Start: 1, End: 2.5, Text: "one"},
		{Start: 3, End: 4.25, Text: "two"},
	}
	parsed := ParseSRT(RenderSRT(segments))
	if len(parsed) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(parsed))
	}
	for i := range segments {
		if parsed[i].Start != segments[i].Start || parsed[i].End != segments[i].End {
			t.Fatalf("cue %d times [%v, %v], want [%v, %v]",
				i, parsed[i].Start, parsed[i].End, segments[i].Start, segments[i].End)
		}
		if parsed[i].Text != segments[i].Text {
			t.Fatalf("cue %d text %q, want %q", i, parsed[i].Text, segments[i].Text)
		}
	}
}

func TestParseSRTSkipsMalformedCues(t *testing.T) {
	raw := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:02,000",
		"good",
		"",
		"not a number",
		"00:00:03,000 --> 00:00:04,000",
		"bad index",
		"",
		"3",
		"garbage timestamps",
		"bad times",
		"",
		"4",
		"00:00:05.000 --> 00:00:06.000",
		"period separators are fine",
		"",
	}, "\n")

	parsed := ParseSRT([]byte(raw))
	if len(parsed) != 2 {
		t.Fatalf("expected 2 valid cues, got %d", len(parsed))
	}
	if parsed[0].Text != "good" {
		t.Fatalf("unexpected first cue %+v", parsed[0])
	}
	if parsed[1].Start != 5 || parsed[1].End != 6 {
		t.Fatalf("expected period-separated timestamps parsed, got %+v", parsed[1])
	}
}

func TestParseSRTEmptyInput(t *testing.T) {
	if got := ParseSRT(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := ParseSRT([]byte("   \n\n  ")); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}
