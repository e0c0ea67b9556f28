package segment

// fixedScheduleSeconds lists the absolute boundary times of the progressive
// schedule. The first window is small so a consumer sees its first subtitle
// quickly; later windows grow once startup latency no longer dominates.
var fixedScheduleSeconds = []float64{20, 60, 180}

// fixedTailSeconds is the window size applied beyond the explicit schedule.
const fixedTailSeconds = 180.0

// nextFixed advances the absolute-time schedule, clamping the final window
// to the traversal limit.
func (s *Segmenter) nextFixed() (Chunk, bool) {
	if s.cursor >= s.limit {
		return Chunk{}, false
	}
	start := s.cursor
	end := s.nextFixedBoundary(start)
	if end > s.limit {
		end = s.limit
	}
	s.cursor = end
	return emit(start, end), true
}

// nextFixedBoundary returns the first schedule boundary strictly after the
// given sample offset.
func (s *Segmenter) nextFixedBoundary(after int) int {
	for _, seconds := range fixedScheduleSeconds {
		if boundary := s.buf.SecondsToSamples(seconds); boundary > after {
			return boundary
		}
	}
	tail := s.buf.SecondsToSamples(fixedTailSeconds)
	last := s.buf.SecondsToSamples(fixedScheduleSeconds[len(fixedScheduleSeconds)-1])
	boundary := last
	for boundary <= after {
		boundary += tail
	}
	return boundary
}
