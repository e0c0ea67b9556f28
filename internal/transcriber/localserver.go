package transcriber

import (
	"context"
	"net/http"
	"strings"
	"time"

	"subgen/internal/services"
)

// LocalServer transcribes chunks against a locally hosted OpenAI-compatible
// server (a faster-whisper-server style deployment). No authentication is
// sent; the server is assumed to sit on a trusted interface.
type LocalServer struct {
	baseURL string
	model   string
	lang    string
	client  *http.Client
}

// NewLocalServer builds the local-server backend.
func NewLocalServer(baseURL, model, language string, timeout time.Duration) (*LocalServer, error) {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcriber", "local-server", "base URL required", nil)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		// Local inference on CPU can be slow; give it headroom.
		timeout = 15 * time.Minute
	}
	return &LocalServer{
		baseURL: baseURL,
		model:   model,
		lang:    language,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (l *LocalServer) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]RawSegment, error) {
	return postChunk(ctx, l.client, l.baseURL+"/audio/transcriptions", "", l.model, l.lang, samples, sampleRate)
}

func (l *LocalServer) Kind() Kind { return KindLocalServer }

func (l *LocalServer) Name() string { return "local-server" }
