package transcriber

import (
	"context"
	"net/http"
	"strings"
	"time"

	"subgen/internal/services"
)

const defaultCloudBaseURL = "https://api.openai.com/v1"

// Cloud transcribes chunks against a hosted transcription API speaking the
// OpenAI audio/transcriptions contract.
type Cloud struct {
	baseURL string
	apiKey  string
	model   string
	lang    string
	client  *http.Client
}

// NewCloud builds the hosted-API backend. The API key is required; base URL
// and model fall back to the OpenAI defaults.
func NewCloud(baseURL, apiKey, model, language string, timeout time.Duration) (*Cloud, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcriber", "cloud", "API key required", nil)
	}
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = defaultCloudBaseURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Cloud{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		lang:    language,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *Cloud) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]RawSegment, error) {
	return postChunk(ctx, c.client, c.baseURL+"/audio/transcriptions", c.apiKey, c.model, c.lang, samples, sampleRate)
}

func (c *Cloud) Kind() Kind { return KindCloud }

func (c *Cloud) Name() string { return "cloud" }
