package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// Reply sources reported in ChatResult.
const (
	SourceComparison = "comparison"
	SourceProduct    = "product"
	SourceCasual     = "casual"
	SourceLLM        = "llm"
	SourceFallback   = "fallback"
)

// apologyReply is returned when the LLM provider is unreachable.
const apologyReply = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// ruleFallbackReply is returned by the rule-only strategy when nothing
// matched.
const ruleFallbackReply = "I couldn't find that in our catalog. Could you mention a product name or model?"

// DefaultSessionID groups messages from clients that send none.
const DefaultSessionID = "default"

// ChatService runs the full message pipeline: rule matching,
// comparison/single-product formatting, LLM fallback, lead-stage and
// emotion tracking, and conversation logging.
type ChatService struct {
	catalog       *Catalog
	matcher       *Matcher
	llm           LLMClient
	retriever     Retriever
	turns         ConversationStore
	sessions      SessionStore
	strategy      string
	historyWindow int
}

// ChatServiceConfig collects the orchestrator dependencies.
type ChatServiceConfig struct {
	Catalog       *Catalog
	Matcher       *Matcher
	LLM           LLMClient
	Retriever     Retriever // optional
	Turns         ConversationStore
	Sessions      SessionStore
	Strategy      string // "rule", "llm" or "hybrid"
	HistoryWindow int
}

// NewChatService wires the orchestrator.
func NewChatService(cfg ChatServiceConfig) *ChatService {
	strategy := cfg.Strategy
	switch strategy {
	case "rule", "llm", "hybrid":
	default:
		strategy = "hybrid"
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = 6
	}
	return &ChatService{
		catalog:       cfg.Catalog,
		matcher:       cfg.Matcher,
		llm:           cfg.LLM,
		retriever:     cfg.Retriever,
		turns:         cfg.Turns,
		sessions:      cfg.Sessions,
		strategy:      strategy,
		historyWindow: window,
	}
}

// Process handles one inbound message and returns the reply plus the
// session's classification. InputError and StorageError propagate to
// the caller; provider failures degrade to an apology reply.
func (s *ChatService) Process(ctx context.Context, sessionID, message string) (*models.ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, models.NewInputError("empty message")
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Prompt context is the history before this message.
	priorHistory, err := s.turns.History(ctx, sessionID, s.historyWindow)
	if err != nil {
		return nil, err
	}

	if _, err := s.turns.Append(ctx, sessionID, models.SenderUser, message); err != nil {
		return nil, err
	}

	stage := AdvanceLeadStage(state.LeadStage, message)
	emotion := DetectEmotion(message)
	language := DetectLanguage(message)

	reply, source := s.localReply(message)
	if reply == "" {
		var llmStage models.LeadStage
		var llmEmotion models.Emotion
		reply, llmStage, llmEmotion = s.llmReply(ctx, message, priorHistory, language, stage, emotion)
		source = SourceLLM
		stage = MergeLeadStage(stage, llmStage)
		if llmEmotion.Valid() {
			emotion = llmEmotion
		}
	}

	state.LeadStage = stage
	state.Emotion = emotion
	state.Language = language
	if err := s.sessions.Save(ctx, state); err != nil {
		// Classification state is advisory; the turn log is the record.
		slog.Warn("Failed to save session state",
			"sessionID", sessionID,
			"error", err,
		)
	}

	if _, err := s.turns.Append(ctx, sessionID, models.SenderAgent, reply); err != nil {
		return nil, err
	}

	history, err := s.turns.History(ctx, sessionID, 20)
	if err != nil {
		return nil, err
	}

	slog.Info("Message processed",
		"sessionID", sessionID,
		"source", source,
		"leadStage", stage,
		"emotion", emotion,
	)

	return &models.ChatResult{
		Reply:     reply,
		LeadStage: stage,
		Emotion:   emotion,
		Source:    source,
		History:   history,
	}, nil
}

// localReply runs the rule-based matching path. An empty reply means
// the message should go to the LLM (or the rule fallback).
func (s *ChatService) localReply(message string) (string, string) {
	if s.strategy == "llm" {
		return "", ""
	}

	products := s.matcher.MatchProducts(message)
	hasCue := s.matcher.HasComparisonCue(message)

	switch {
	case len(products) >= 2 || (hasCue && len(products) >= 1):
		return FormatComparison(products), SourceComparison
	case len(products) == 1:
		return FormatSingleProduct(products[0]), SourceProduct
	}

	if reply, ok := s.matcher.MatchCasual(message); ok {
		return reply, SourceCasual
	}

	if s.strategy == "rule" {
		return ruleFallbackReply, SourceFallback
	}
	return "", ""
}

// llmReply forwards the message to the LLM bridge with catalog,
// retrieved context and recent history. Provider failure degrades to
// an apology; it never fails the request.
func (s *ChatService) llmReply(ctx context.Context, message string, history []models.ConversationTurn, language string, priorStage models.LeadStage, priorEmotion models.Emotion) (string, models.LeadStage, models.Emotion) {
	ragContext := ""
	if s.retriever != nil {
		var err error
		ragContext, err = s.retriever.Context(ctx, message, 5)
		if err != nil {
			slog.Warn("Product retrieval failed, continuing without context", "error", err)
			ragContext = ""
		}
	}

	out, err := s.llm.Generate(ctx, PromptInput{
		Message:      message,
		Catalog:      s.catalog.Describe(),
		RAGContext:   ragContext,
		History:      history,
		Language:     language,
		PriorStage:   priorStage,
		PriorEmotion: priorEmotion,
	})
	if err != nil {
		var provErr *models.ProviderError
		if errors.As(err, &provErr) {
			slog.Error("LLM provider failed, using apology reply",
				"provider", provErr.Provider,
				"error", provErr.Err,
			)
		} else {
			slog.Error("LLM call failed, using apology reply", "error", err)
		}
		return apologyReply, priorStage, priorEmotion
	}

	return out.Reply, out.LeadStage, out.Emotion
}

// History exposes the conversation log for the history endpoint.
func (s *ChatService) History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	return s.turns.History(ctx, sessionID, limit)
}
