package pipeline

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"subgen/internal/audio"
	"subgen/internal/segment"
)

// Capture records the exact audio bytes dispatched to the backend, one WAV
// per chunk, and packs them into a single archive when the job completes.
// It exists purely for diagnosing segmentation and backend behavior; it has
// no effect on the transcript.
type Capture struct {
	mu          sync.Mutex
	workDir     string
	archivePath string
	files       []string
	errs        []error
}

// NewCapture prepares a capture that writes chunk files under workDir and
// archives them at archivePath on Finalize.
func NewCapture(workDir, archivePath string) (*Capture, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: ensure work dir: %w", err)
	}
	return &Capture{workDir: workDir, archivePath: archivePath}, nil
}

// Add writes one chunk's samples as a WAV file named with the chunk index
// and absolute time range. Write failures are collected and reported by
// Finalize; they never disturb transcription.
func (c *Capture) Add(chunk segment.Chunk, samples []float32, rate int) {
	name := fmt.Sprintf("chunk_%03d_%.1fs-%.1fs.wav",
		chunk.Index, chunk.StartSeconds(rate), chunk.EndSeconds(rate))
	path := filepath.Join(c.workDir, name)

	wav, err := audio.EncodeWAV(audio.Buffer{Samples: samples, Rate: rate})
	if err == nil {
		err = os.WriteFile(path, wav, 0o644)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("capture %s: %w", name, err))
		return
	}
	c.files = append(c.files, path)
}

// Finalize zips every captured chunk into the archive and removes the
// per-chunk files.
func (c *Capture) Finalize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := os.Create(c.archivePath)
	if err != nil {
		return fmt.Errorf("capture: create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range c.files {
		data, err := os.ReadFile(path)
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("capture: read %s: %w", path, err))
			continue
		}
		entry, err := zw.Create(filepath.Base(path))
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("capture: archive entry %s: %w", path, err))
			continue
		}
		if _, err := entry.Write(data); err != nil {
			c.errs = append(c.errs, fmt.Errorf("capture: write entry %s: %w", path, err))
			continue
		}
		_ = os.Remove(path)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("capture: close archive: %w", err)
	}
	if len(c.errs) > 0 {
		return c.errs[0]
	}
	return nil
}

// ArchivePath returns where the archive is (or will be) written.
func (c *Capture) ArchivePath() string {
	return c.archivePath
}
