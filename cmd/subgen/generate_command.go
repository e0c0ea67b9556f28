package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subgen/internal/audio"
	"subgen/internal/config"
	"subgen/internal/jobstore"
	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/pipeline"
	"subgen/internal/segment"
	"subgen/internal/services"
	"subgen/internal/transcriber"
	"subgen/internal/transcript"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var languageFlag string
	var backendFlag string
	var methodFlag string
	var limitSeconds float64
	var noCache bool
	var captureChunks bool

	cmd := &cobra.Command{
		Use:   "generate <audio.wav>",
		Short: "Transcribe an audio file and write an SRT subtitle track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if languageFlag != "" {
				normalized, ok := language.Normalize(languageFlag)
				if !ok {
					return fmt.Errorf("unrecognized language %q", languageFlag)
				}
				cfg.Transcriber.Language = normalized
			}
			if backendFlag != "" {
				cfg.Transcriber.Backend = strings.ToLower(strings.TrimSpace(backendFlag))
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if methodFlag != "" {
				cfg.Segmentation.Method = strings.ToLower(strings.TrimSpace(methodFlag))
			}
			if limitSeconds > 0 {
				cfg.Segmentation.LimitSeconds = limitSeconds
			}
			if noCache {
				cfg.Cache.Enabled = false
			}
			if captureChunks {
				cfg.Debug.CaptureChunks = true
			}
			return runGenerate(cmd, cfg, args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination SRT path (default: output_dir/<input>.srt)")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language hint for the backend")
	cmd.Flags().StringVar(&backendFlag, "backend", "", "Transcription backend (cloud or local)")
	cmd.Flags().StringVar(&methodFlag, "method", "", "Segmentation method (fixed or vad)")
	cmd.Flags().Float64Var(&limitSeconds, "limit", 0, "Transcribe only the first N seconds")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the transcript cache")
	cmd.Flags().BoolVar(&captureChunks, "capture", false, "Archive the audio chunks sent to the backend")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, inputPath, outputPath string) error {
	started := time.Now()
	out := cmd.OutOrStdout()
	interactive := isInteractive(out)

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	jobID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldJobID, jobID))
	ctx := services.WithJobID(cmd.Context(), jobID)

	buf, err := audio.ReadWAVFile(inputPath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = filepath.Join(cfg.Paths.OutputDir, base+".srt")
	}

	tr, err := buildTranscriber(cfg)
	if err != nil {
		return err
	}

	var store *jobstore.Store
	var fingerprint string
	if cfg.Cache.Enabled {
		store, err = jobstore.Open(cfg.Paths.CacheDir)
		if err != nil {
			logger.Warn("transcript cache unavailable", logging.Error(err))
		} else {
			defer store.Close()
			fingerprint = jobstore.Fingerprint(buf)
			if rec, err := store.Lookup(ctx, fingerprint, tr.Name()); err == nil {
				if err := os.WriteFile(outputPath, []byte(rec.SRT), 0o644); err != nil {
					return fmt.Errorf("write subtitle file: %w", err)
				}
				printSummary(out, summary{
					input:     inputPath,
					output:    outputPath,
					backend:   tr.Name(),
					language:  cfg.Transcriber.Language,
					duration:  buf.Duration(),
					segments:  rec.SegmentCount,
					elapsed:   time.Since(started),
					fromCache: true,
				})
				return nil
			}
		}
	}

	segCfg := segment.Config{
		Method:                segment.Method(cfg.Segmentation.Method),
		BatchSeconds:          cfg.Segmentation.BatchSeconds,
		MinSilenceSeconds:     cfg.Segmentation.MinSilenceSeconds,
		SilenceThreshold:      cfg.Segmentation.SilenceThreshold,
		VocalFilterEnabled:    cfg.Segmentation.VocalFilterEnabled,
		LimitSeconds:          cfg.Segmentation.LimitSeconds,
		ForcedSplitMultiplier: cfg.Segmentation.ForcedSplitMultiplier,
		MinChunkSeconds:       cfg.Segmentation.MinChunkSeconds,
	}

	opts := pipeline.Options{
		Workers:             cfg.Transcriber.Workers,
		Retries:             cfg.Transcriber.Retries,
		RetryInterval:       time.Duration(cfg.Transcriber.RetryIntervalSeconds * float64(time.Second)),
		OverlapClampSeconds: cfg.Transcriber.OverlapClampSeconds,
	}
	if cfg.Debug.CaptureChunks {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		archive := filepath.Join(cfg.Paths.CaptureDir, base+"_chunks.zip")
		capture, err := pipeline.NewCapture(cfg.Paths.CaptureDir, archive)
		if err != nil {
			return err
		}
		opts.Capture = capture
	}

	chunksDone := 0
	callbacks := pipeline.Callbacks{
		OnSnapshot: func(segments []transcript.Segment) {
			chunksDone++
			if interactive {
				fmt.Fprintf(out, "\rchunks: %d  segments: %d ", chunksDone, len(segments))
			}
		},
	}

	runner := pipeline.NewRunner(logger)
	segments, err := runner.Run(ctx, buf, segCfg, tr, callbacks, opts)
	if interactive {
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}

	srt := transcript.RenderSRT(segments)
	if err := os.WriteFile(outputPath, srt, 0o644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}

	if store != nil && fingerprint != "" {
		if _, err := store.Save(ctx, jobstore.Record{
			Fingerprint:     fingerprint,
			Backend:         tr.Name(),
			Language:        cfg.Transcriber.Language,
			SegmentCount:    len(segments),
			DurationSeconds: buf.Duration(),
			SRT:             string(srt),
		}); err != nil {
			logger.Warn("transcript cache save failed", logging.Error(err))
		}
	}

	printSummary(out, summary{
		input:    inputPath,
		output:   outputPath,
		backend:  tr.Name(),
		language: cfg.Transcriber.Language,
		duration: buf.Duration(),
		chunks:   chunksDone,
		segments: len(segments),
		elapsed:  time.Since(started),
	})
	if opts.Capture != nil {
		fmt.Fprintf(out, "Chunk archive: %s\n", opts.Capture.ArchivePath())
	}
	return nil
}

func buildTranscriber(cfg *config.Config) (transcriber.ChunkTranscriber, error) {
	switch cfg.Transcriber.Backend {
	case "local":
		return transcriber.NewLocalServer(cfg.Transcriber.BaseURL, cfg.Transcriber.Model, cfg.Transcriber.Language, 0)
	default:
		return transcriber.NewCloud(cfg.Transcriber.BaseURL, cfg.Transcriber.APIKey, cfg.Transcriber.Model, cfg.Transcriber.Language, 0)
	}
}

type summary struct {
	input     string
	output    string
	backend   string
	language  string
	duration  float64
	chunks    int
	segments  int
	elapsed   time.Duration
	fromCache bool
}

func printSummary(out io.Writer, s summary) {
	source := "transcribed"
	if s.fromCache {
		source = "cache"
	}
	rows := [][]string{
		{"Input", s.input},
		{"Audio length", formatSeconds(s.duration)},
		{"Backend", s.backend},
		{"Language", language.DisplayName(s.language)},
	}
	if !s.fromCache {
		rows = append(rows, []string{"Chunks", fmt.Sprintf("%d", s.chunks)})
	}
	rows = append(rows,
		[]string{"Segments", fmt.Sprintf("%d", s.segments)},
		[]string{"Source", source},
		[]string{"Elapsed", s.elapsed.Round(time.Millisecond).String()},
		[]string{"Output", s.output},
	)
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
}

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return d.Round(100 * time.Millisecond).String()
}
