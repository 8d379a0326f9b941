package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io"

// Synthesizer converts reply text to base64-encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// ElevenLabsTTSRequest is the text-to-speech request body.
type ElevenLabsTTSRequest struct {
	Text          string        `json:"text"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// VoiceSettings tunes the ElevenLabs voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ElevenLabsClient calls the ElevenLabs text-to-speech API, picking a
// voice per language.
type ElevenLabsClient struct {
	apiKey  string
	voiceEN string
	voiceUR string
	baseURL string
	client  *http.Client
}

// NewElevenLabsClient builds a TTS client with the configured voices.
func NewElevenLabsClient(apiKey, voiceEN, voiceUR string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceEN: voiceEN,
		voiceUR: voiceUR,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize converts text to base64-encoded audio, retrying once.
// Returns a ProviderError on failure; callers degrade to an empty
// audio field rather than failing the request.
func (e *ElevenLabsClient) Synthesize(ctx context.Context, text, language string) (string, error) {
	if e.apiKey == "" {
		return "", &models.ProviderError{
			Provider: "elevenlabs",
			Err:      fmt.Errorf("API key not configured"),
		}
	}

	voiceID := e.voiceEN
	if strings.HasPrefix(language, "ur") {
		voiceID = e.voiceUR
	}

	reqBody := ElevenLabsTTSRequest{
		Text: text,
		VoiceSettings: VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, voiceID)

	// One retry on top of the initial attempt
	var audio []byte
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		audio, lastErr = e.post(ctx, url, jsonData)
		if lastErr == nil {
			break
		}
		slog.Warn("ElevenLabs request failed",
			"attempt", attempt+1,
			"error", lastErr,
		)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return "", &models.ProviderError{Provider: "elevenlabs", Err: lastErr}
	}

	slog.Info("Speech synthesized",
		"textLength", len(text),
		"audioBytes", len(audio),
		"voiceID", voiceID,
	)
	return base64.StdEncoding.EncodeToString(audio), nil
}

func (e *ElevenLabsClient) post(ctx context.Context, url string, jsonData []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
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
