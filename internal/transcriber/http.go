package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"subgen/internal/audio"
	"subgen/internal/services"
)

// wireSegment mirrors the verbose_json segment shape shared by the hosted
// and local OpenAI-style transcription endpoints.
type wireSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// wireResponse is normalized into RawSegments immediately at this boundary;
// the loosely-typed response never propagates inward.
type wireResponse struct {
	Text     string        `json:"text"`
	Segments []wireSegment `json:"segments"`
}

// postChunk uploads one chunk as a multipart WAV to an OpenAI-compatible
// /audio/transcriptions endpoint and normalizes the response.
func postChunk(ctx context.Context, client *http.Client, endpoint, apiKey, model, language string, samples []float32, sampleRate int) ([]RawSegment, error) {
	wav, err := audio.EncodeWAV(audio.Buffer{Samples: samples, Rate: sampleRate})
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "transcriber", "encode", "chunk WAV encoding failed", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "transcriber", "upload", "create form file", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, services.Wrap(services.ErrBackend, "transcriber", "upload", "write form file", err)
	}
	_ = writer.WriteField("model", model)
	_ = writer.WriteField("response_format", "verbose_json")
	if language != "" {
		_ = writer.WriteField("language", language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "transcriber", "upload", "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		// Transport failures (refused connections, resets, timeouts) are
		// worth retrying.
		return nil, services.Wrap(services.ErrTransient, "transcriber", "upload", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, services.Wrap(services.ErrTransient, "transcriber", "upload", detail, nil)
		}
		return nil, services.Wrap(services.ErrBackend, "transcriber", "upload", detail, nil)
	}

	var decoded wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcriber", "decode", "malformed response body", err)
	}
	return normalizeWire(decoded), nil
}

// normalizeWire converts a wire response into raw segments. A response with
// text but no segment list becomes a single untimed segment; the pipeline
// assigns it the full chunk span.
func normalizeWire(resp wireResponse) []RawSegment {
	if len(resp.Segments) == 0 {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil
		}
		return []RawSegment{{Text: text}}
	}
	segments := make([]RawSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, RawSegment{Start: seg.Start, End: seg.End, Text: text})
	}
	return segments
}
