package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

const groqChatURL = "https://api.groq.com/openai/v1/chat/completions"

// PromptInput carries everything the LLM bridge needs to answer one
// customer message.
type PromptInput struct {
	Message      string
	Catalog      string
	RAGContext   string
	History      []models.ConversationTurn
	Language     string
	PriorStage   models.LeadStage
	PriorEmotion models.Emotion
}

// LLMClient produces a structured agent reply for a prompt.
type LLMClient interface {
	Generate(ctx context.Context, input PromptInput) (*models.AgentReply, error)
}

// GroqChatRequest is the OpenAI-compatible chat completions request.
type GroqChatRequest struct {
	Model          string        `json:"model"`
	Messages       []ChatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *Format       `json:"response_format,omitempty"`
}

// ChatMessage is one message in the completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Format selects the completion output format.
type Format struct {
	Type string `json:"type"`
}

// GroqChatResponse is the chat completions response.
type GroqChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GroqClient calls the Groq chat-completions endpoint.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroqClient builds a chat client with the configured timeout.
func NewGroqClient(apiKey, model string, timeout time.Duration) *GroqClient {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GroqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqChatURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate sends the prompt to Groq and decodes the structured reply.
// A malformed completion degrades to the raw text with the session's
// prior classification; network and provider errors are returned as
// ProviderError for the caller to degrade.
func (g *GroqClient) Generate(ctx context.Context, input PromptInput) (*models.AgentReply, error) {
	if g.apiKey == "" {
		return nil, &models.ProviderError{
			Provider: "groq",
			Err:      fmt.Errorf("API key not configured"),
		}
	}

	requestBody := GroqChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: buildSystemPrompt(input)},
			{Role: "user", Content: buildUserPrompt(input)},
		},
		Temperature:    0.6,
		MaxTokens:      512,
		ResponseFormat: &Format{Type: "json_object"},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// One retry on top of the initial attempt
	var body []byte
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, lastErr = g.post(ctx, jsonData)
		if lastErr == nil {
			break
		}
		slog.Warn("Groq request failed",
			"attempt", attempt+1,
			"error", lastErr,
		)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, &models.ProviderError{Provider: "groq", Err: lastErr}
	}

	var chatResp GroqChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &models.ProviderError{Provider: "groq", Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &models.ProviderError{Provider: "groq", Err: fmt.Errorf("no completion choices")}
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	slog.Info("LLM reply generated",
		"promptTokens", chatResp.Usage.PromptTokens,
		"completionTokens", chatResp.Usage.CompletionTokens,
	)

	return ParseAgentReply(content, input.PriorStage, input.PriorEmotion), nil
}

func (g *GroqClient) post(ctx context.Context, jsonData []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) || strings.Contains(err.Error(), "deadline exceeded") {
			return nil, fmt.Errorf("request timed out: %w", err)
		}
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

// ParseAgentReply strictly decodes the expected {reply, lead_stage,
// emotion} object. Anything that does not decode, or decodes without a
// reply, falls back to treating the whole text as the reply with the
// prior classification. No quote munging.
func ParseAgentReply(content string, priorStage models.LeadStage, priorEmotion models.Emotion) *models.AgentReply {
	if priorStage == "" {
		priorStage = models.StageCold
	}
	if priorEmotion == "" {
		priorEmotion = models.EmotionNeutral
	}

	var reply models.AgentReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil || reply.Reply == "" {
		return &models.AgentReply{
			Reply:     content,
			LeadStage: priorStage,
			Emotion:   priorEmotion,
		}
	}

	if !reply.LeadStage.Valid() {
		reply.LeadStage = priorStage
	}
	if !reply.Emotion.Valid() {
		reply.Emotion = priorEmotion
	}
	return &reply
}

func buildSystemPrompt(input PromptInput) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI sales agent for a computer hardware store. ")
	b.WriteString("Reply concisely in 1-2 sentences. ")
	if input.Language == "ur" {
		b.WriteString("Reply in Roman Urdu. ")
	} else {
		b.WriteString("Reply in English. ")
	}
	b.WriteString("\n\nPRODUCT CATALOG:\n")
	b.WriteString(input.Catalog)
	b.WriteString("\n\nRespond with a single JSON object with exactly these keys:\n")
	b.WriteString(`  "reply": your answer to the customer (string)` + "\n")
	b.WriteString(`  "lead_stage": one of "cold", "warm", "hot", "closed"` + "\n")
	b.WriteString(`  "emotion": one of "neutral", "curious", "happy", "satisfied"` + "\n")
	b.WriteString("Base the reply only on the catalog and context provided. Do not invent products or prices.")

	return b.String()
}

func buildUserPrompt(input PromptInput) string {
	var b strings.Builder

	if input.RAGContext != "" {
		b.WriteString("RETRIEVED CONTEXT:\n")
		b.WriteString(input.RAGContext)
		b.WriteString("\n\n")
	}

	if len(input.History) > 0 {
		b.WriteString("CONVERSATION HISTORY:\n")
		for _, turn := range input.History {
			if turn.Sender == models.SenderUser {
				b.WriteString("Customer: " + turn.Message + "\n")
			} else {
				b.WriteString("Agent: " + turn.Message + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("CURRENT CUSTOMER MESSAGE:\n")
	b.WriteString(input.Message)

	return b.String()
}
