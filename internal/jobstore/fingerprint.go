package jobstore

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"subgen/internal/audio"
)

// Fingerprint derives a stable identity for a waveform from its sample data
// and rate. Two decodes of the same file produce the same fingerprint, so it
// serves as the cache key for finished transcripts.
func Fingerprint(buf audio.Buffer) string {
	h := fnv.New64a()

	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(buf.Rate))
	_, _ = h.Write(scratch[:])
	binary.LittleEndian.PutUint64(scratch[:], uint64(len(buf.Samples)))
	_, _ = h.Write(scratch[:])

	for _, s := range buf.Samples {
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(s))
		_, _ = h.Write(scratch[:4])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
