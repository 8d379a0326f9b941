package handlers_test

import (
	"context"
	"time"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

// In-memory test doubles for the stores and providers behind the
// handlers.

type memoryConversationStore struct {
	turns map[string][]models.ConversationTurn
}

func newMemoryConversationStore() *memoryConversationStore {
	return &memoryConversationStore{turns: map[string][]models.ConversationTurn{}}
}

func (s *memoryConversationStore) Append(_ context.Context, sessionID, sender, message string) (models.ConversationTurn, error) {
	turn := models.ConversationTurn{
		SessionID: sessionID,
		Sender:    sender,
		Message:   message,
		Seq:       int64(len(s.turns[sessionID]) + 1),
		Timestamp: time.Now().UTC(),
	}
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return turn, nil
}

func (s *memoryConversationStore) History(_ context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	all := s.turns[sessionID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.ConversationTurn, len(all))
	copy(out, all)
	return out, nil
}

type memorySessionStore struct {
	states map[string]*models.SessionState
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{states: map[string]*models.SessionState{}}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	if state, ok := s.states[sessionID]; ok {
		copied := *state
		return &copied, nil
	}
	return models.NewSessionState(sessionID), nil
}

func (s *memorySessionStore) Save(_ context.Context, state *models.SessionState) error {
	copied := *state
	s.states[state.SessionID] = &copied
	return nil
}

type fakeLLM struct {
	reply models.AgentReply
}

func (f *fakeLLM) Generate(_ context.Context, _ services.PromptInput) (*models.AgentReply, error) {
	out := f.reply
	return &out, nil
}

type fakeSynthesizer struct {
	audio string
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _, _ string) (string, error) {
	return f.audio, f.err
}

type fakeTranscriber struct {
	text string
	lang string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (*services.Transcription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Transcription{Text: f.text, Language: f.lang}, nil
}

type fixture struct {
	chat  *services.ChatService
	turns *memoryConversationStore
}

func newFixture() *fixture {
	catalog, err := services.NewCatalog([]models.Product{
		{"name": "Laptop X", "model": "LPX-100", "price": "$999", "processor": "Intel i7"},
		{"name": "Laptop Y", "model": "LPY-200", "price": "$999", "processor": "Intel i5"},
	})
	if err != nil {
		panic(err)
	}

	turns := newMemoryConversationStore()
	chat := services.NewChatService(services.ChatServiceConfig{
		Catalog:  catalog,
		Matcher:  services.NewMatcher(catalog),
		LLM:      &fakeLLM{reply: models.AgentReply{Reply: "Happy to help!", LeadStage: models.StageCold, Emotion: models.EmotionNeutral}},
		Turns:    turns,
		Sessions: newMemorySessionStore(),
		Strategy: "hybrid",
	})
	return &fixture{chat: chat, turns: turns}
}
