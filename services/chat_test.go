package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

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
	reply *models.AgentReply
	err   error
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, _ services.PromptInput) (*models.AgentReply, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

type chatFixture struct {
	chat     *services.ChatService
	turns    *memoryConversationStore
	sessions *memorySessionStore
	llm      *fakeLLM
}

func newChatFixture(t *testing.T, strategy string, llm *fakeLLM) *chatFixture {
	t.Helper()

	catalog, err := services.NewCatalog([]models.Product{
		{"name": "Laptop X", "model": "LPX-100", "price": "$999", "processor": "Intel i7", "memory": "16GB"},
		{"name": "Laptop Y", "model": "LPY-200", "price": "$999", "processor": "Intel i5", "memory": "16GB"},
		{"name": "Gaming Pro 15", "model": "GP-150", "price": "$1499", "processor": "Ryzen 9"},
	})
	require.NoError(t, err)

	if llm == nil {
		llm = &fakeLLM{reply: &models.AgentReply{
			Reply:     "Happy to help!",
			LeadStage: models.StageCold,
			Emotion:   models.EmotionNeutral,
		}}
	}

	turns := newMemoryConversationStore()
	sessions := newMemorySessionStore()
	chat := services.NewChatService(services.ChatServiceConfig{
		Catalog:  catalog,
		Matcher:  services.NewMatcher(catalog),
		LLM:      llm,
		Turns:    turns,
		Sessions: sessions,
		Strategy: strategy,
	})
	return &chatFixture{chat: chat, turns: turns, sessions: sessions, llm: llm}
}

func TestProcessComparison(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)

	result, err := f.chat.Process(context.Background(), "s1", "compare Laptop X and Laptop Y")
	require.NoError(t, err)

	assert.Equal(t, services.SourceComparison, result.Source)
	assert.Contains(t, result.Reply, "Here is how Laptop X and Laptop Y compare:")
	assert.Contains(t, result.Reply, "| processor | Intel i7 | Intel i5 |")
	assert.Zero(t, f.llm.calls, "rule path must not reach the LLM")
}

func TestProcessSingleProduct(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)

	result, err := f.chat.Process(context.Background(), "s1", "tell me about the Gaming Pro 15")
	require.NoError(t, err)

	assert.Equal(t, services.SourceProduct, result.Source)
	assert.Contains(t, result.Reply, "Gaming Pro 15")
	assert.Contains(t, result.Reply, "$1499")
}

func TestProcessCasualKeepsStage(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)
	ctx := context.Background()

	first, err := f.chat.Process(ctx, "s1", "I want to buy the Laptop X")
	require.NoError(t, err)
	require.Equal(t, models.StageHot, first.LeadStage)

	second, err := f.chat.Process(ctx, "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, services.SourceCasual, second.Source)
	assert.Equal(t, models.StageHot, second.LeadStage, "greeting must not regress the stage")
}

func TestProcessLLMFallback(t *testing.T) {
	llm := &fakeLLM{reply: &models.AgentReply{
		Reply:     "We ship within 3 business days.",
		LeadStage: models.StageWarm,
		Emotion:   models.EmotionCurious,
	}}
	f := newChatFixture(t, "hybrid", llm)

	result, err := f.chat.Process(context.Background(), "s1", "what is your shipping policy?")
	require.NoError(t, err)

	assert.Equal(t, services.SourceLLM, result.Source)
	assert.Equal(t, "We ship within 3 business days.", result.Reply)
	assert.Equal(t, models.StageWarm, result.LeadStage)
	assert.Equal(t, models.EmotionCurious, result.Emotion)
	assert.Equal(t, 1, llm.calls)
}

func TestProcessLLMNeverRegressesStage(t *testing.T) {
	llm := &fakeLLM{reply: &models.AgentReply{
		Reply:     "Anything else?",
		LeadStage: models.StageCold,
		Emotion:   models.EmotionNeutral,
	}}
	f := newChatFixture(t, "hybrid", llm)
	ctx := context.Background()

	_, err := f.chat.Process(ctx, "s1", "I want to kharidna something nice")
	require.NoError(t, err)

	result, err := f.chat.Process(ctx, "s1", "what colors do you have?")
	require.NoError(t, err)
	assert.Equal(t, models.StageHot, result.LeadStage)
}

func TestProcessProviderFailureDegrades(t *testing.T) {
	llm := &fakeLLM{err: &models.ProviderError{Provider: "groq", Err: errors.New("boom")}}
	f := newChatFixture(t, "hybrid", llm)

	result, err := f.chat.Process(context.Background(), "s1", "do you offer financing?")
	require.NoError(t, err, "provider failure must not fail the request")

	assert.Contains(t, result.Reply, "Sorry")
	assert.Equal(t, models.StageCold, result.LeadStage)
	// Both turns are still logged
	history, err := f.turns.History(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestProcessEmptyMessage(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)

	_, err := f.chat.Process(context.Background(), "s1", "   ")
	var inputErr *models.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Empty(t, f.turns.turns["s1"], "rejected message must not be logged")
}

func TestProcessDefaultSession(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)

	_, err := f.chat.Process(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Len(t, f.turns.turns[services.DefaultSessionID], 2)
}

func TestProcessRuleStrategyFallback(t *testing.T) {
	f := newChatFixture(t, "rule", nil)

	result, err := f.chat.Process(context.Background(), "s1", "what is your shipping policy?")
	require.NoError(t, err)

	assert.Equal(t, services.SourceFallback, result.Source)
	assert.Contains(t, result.Reply, "catalog")
	assert.Zero(t, f.llm.calls)
}

func TestProcessLLMStrategySkipsRules(t *testing.T) {
	llm := &fakeLLM{reply: &models.AgentReply{
		Reply:     "Laptop X details here.",
		LeadStage: models.StageCold,
		Emotion:   models.EmotionNeutral,
	}}
	f := newChatFixture(t, "llm", llm)

	result, err := f.chat.Process(context.Background(), "s1", "Laptop X")
	require.NoError(t, err)

	assert.Equal(t, services.SourceLLM, result.Source)
	assert.Equal(t, 1, llm.calls)
}

func TestProcessHistoryOrder(t *testing.T) {
	f := newChatFixture(t, "hybrid", nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.chat.Process(ctx, "s1", fmt.Sprintf("hello %d", i))
		require.NoError(t, err)
	}

	history, err := f.chat.History(ctx, "s1", 20)
	require.NoError(t, err)
	require.Len(t, history, 6)
	for i := 1; i < len(history); i++ {
		assert.Less(t, history[i-1].Seq, history[i].Seq)
	}
	assert.Equal(t, models.SenderUser, history[0].Sender)
	assert.Equal(t, models.SenderAgent, history[1].Sender)
}

func TestProcessUrduDetection(t *testing.T) {
	llm := &fakeLLM{reply: &models.AgentReply{
		Reply:     "Laptop X ki qeemat $999 hai.",
		LeadStage: models.StageWarm,
		Emotion:   models.EmotionCurious,
	}}
	f := newChatFixture(t, "llm", llm)
	ctx := context.Background()

	_, err := f.chat.Process(ctx, "s1", "لیپ ٹاپ کی قیمت کیا ہے")
	require.NoError(t, err)

	state, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ur", state.Language)
}
