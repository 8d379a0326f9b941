package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

const groqTranscriptionURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// Transcriber converts an uploaded audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (*Transcription, error)
}

// Transcription is the text recovered from an audio clip plus the
// language Whisper detected.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// WhisperClient calls the Groq-hosted Whisper transcription endpoint.
type WhisperClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewWhisperClient builds a transcription client.
func NewWhisperClient(apiKey, model string) *WhisperClient {
	if model == "" {
		model = "whisper-large-v3"
	}
	return &WhisperClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqTranscriptionURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Transcribe uploads the audio as multipart form data and returns the
// recognized text, retrying once on transient failure.
func (w *WhisperClient) Transcribe(ctx context.Context, filename string, audio []byte) (*Transcription, error) {
	if w.apiKey == "" {
		return nil, &models.ProviderError{
			Provider: "whisper",
			Err:      fmt.Errorf("API key not configured"),
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.WriteField("model", w.model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("failed to write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	formData := buf.Bytes()
	contentType := writer.FormDataContentType()

	// One retry on top of the initial attempt
	var body []byte
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, lastErr = w.post(ctx, formData, contentType)
		if lastErr == nil {
			break
		}
		slog.Warn("Whisper request failed",
			"attempt", attempt+1,
			"error", lastErr,
		)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, &models.ProviderError{Provider: "whisper", Err: lastErr}
	}

	var result Transcription
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &models.ProviderError{Provider: "whisper", Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if result.Language == "" {
		result.Language = "en"
	}

	slog.Info("Audio transcribed",
		"filename", filename,
		"audioBytes", len(audio),
		"textLength", len(result.Text),
		"language", result.Language,
	)
	return &result, nil
}

func (w *WhisperClient) post(ctx context.Context, formData []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL, bytes.NewReader(formData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
