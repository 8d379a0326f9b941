package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

const voyageAPIURL = "https://api.voyageai.com/v1/embeddings"

// Embedder turns text into vectors for product retrieval.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VoyageEmbeddingRequest is the Voyage AI embeddings request body.
type VoyageEmbeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// VoyageEmbeddingResponse is the Voyage AI embeddings response body.
type VoyageEmbeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// VoyageEmbedder calls the Voyage AI embeddings API.
type VoyageEmbedder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	limiter *RateLimiter
}

// NewVoyageEmbedder builds an embeddings client for the given key and
// model.
func NewVoyageEmbedder(apiKey, model string) *VoyageEmbedder {
	if model == "" {
		model = "voyage-2"
	}
	return &VoyageEmbedder{
		apiKey:  apiKey,
		model:   model,
		baseURL: voyageAPIURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: voyageRateLimiter,
	}
}

// Embed generates embeddings for texts, retrying once on transient
// failure and backing off on 429 responses.
func (e *VoyageEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := VoyageEmbeddingRequest{
		Input: texts,
		Model: e.model,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// One retry on top of the initial attempt
	maxAttempts := 2
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("status %d: rate limited", resp.StatusCode)
			slog.Warn("Voyage API rate limit hit, waiting before retry",
				"attempt", attempt+1,
			)
			select {
			case <-time.After(time.Duration(20*(attempt+1)) * time.Second):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &models.ProviderError{
				Provider: "voyage",
				Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
			}
		}

		var embResp VoyageEmbeddingResponse
		if err := json.Unmarshal(body, &embResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		embeddings := make([][]float32, len(texts))
		for _, data := range embResp.Data {
			if data.Index < len(embeddings) {
				embeddings[data.Index] = data.Embedding
			}
		}

		slog.Info("Generated Voyage embeddings",
			"count", len(embeddings),
			"model", e.model,
			"totalTokens", embResp.Usage.TotalTokens,
		)
		return embeddings, nil
	}

	return nil, &models.ProviderError{Provider: "voyage", Err: lastErr}
}

// MockEmbedder generates deterministic embeddings without any network
// call. Used when no embedding provider is configured and in tests.
type MockEmbedder struct{}

func (MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding := make([]float32, 768)
		for j := range embedding {
			seed := float32(len(text)) * 0.001
			embedding[j] = (float32(i) + float32(j)/768.0 + seed) / float32(len(texts)+1)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}
