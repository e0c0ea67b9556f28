package segment

import "subgen/internal/audio"

// nextVAD drives the banking algorithm: append a batch of waveform to the
// carry-over bank, look for silence runs, and emit one chunk per confirmed
// cut point. Audio after the last confirmed cut stays in the bank because it
// has not been proven to end at silence.
func (s *Segmenter) nextVAD() (Chunk, bool) {
	for {
		if len(s.pending) > 0 {
			chunk := s.pending[0]
			s.pending = s.pending[1:]
			return chunk, true
		}

		if s.appendPos >= s.limit {
			// End of traversal: flush whatever remains, silence or not.
			if len(s.bank) == 0 {
				return Chunk{}, false
			}
			chunk := emit(s.bankStart, s.bankStart+len(s.bank))
			s.bankStart += len(s.bank)
			s.bank = nil
			return chunk, true
		}

		s.appendBatch()
		s.scanBank()

		// Safety valve: no silence for a very long stretch. Force a split at
		// the bank end to bound memory and chunk size.
		if float64(len(s.bank)) > s.cfg.ForcedSplitMultiplier*float64(s.batchSamples()) {
			s.pending = append(s.pending, emit(s.bankStart, s.bankStart+len(s.bank)))
			s.bankStart += len(s.bank)
			s.bank = nil
		}
	}
}

func (s *Segmenter) batchSamples() int {
	return s.buf.SecondsToSamples(s.cfg.BatchSeconds)
}

// appendBatch pulls the next batch of waveform into the bank, clamped to the
// traversal limit.
func (s *Segmenter) appendBatch() {
	end := s.appendPos + s.batchSamples()
	if end > s.limit {
		end = s.limit
	}
	s.bank = append(s.bank, s.buf.Samples[s.appendPos:end]...)
	s.appendPos = end
}

// scanBank finds silence runs in the current bank and queues one chunk per
// accepted cut point, then drops the consumed prefix from the bank.
func (s *Segmenter) scanBank() {
	detect := s.bank
	if s.cfg.VocalFilterEnabled {
		detect = audio.DefaultVocalFilter().Apply(s.bank, s.buf.Rate)
	}

	runs := audio.FindSilenceRuns(detect, s.buf.Rate, s.cfg.SilenceThreshold, s.cfg.MinSilenceSeconds)
	minChunk := s.buf.SecondsToSamples(s.cfg.MinChunkSeconds)

	prevCut := 0
	for _, run := range runs {
		cut := run.Midpoint()
		if cut <= prevCut {
			continue
		}
		if cut-prevCut < minChunk {
			// Degenerate sliver: leave prevCut alone so it merges into the
			// next candidate.
			continue
		}
		s.pending = append(s.pending, emit(s.bankStart+prevCut, s.bankStart+cut))
		prevCut = cut
	}

	if prevCut > 0 {
		s.bank = s.bank[prevCut:]
		s.bankStart += prevCut
	}
}
