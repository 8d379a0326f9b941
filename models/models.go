package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a sparse attribute map describing one catalog entry.
// "model" is unique within the catalog; "name" usually is but is not
// guaranteed to be.
type Product map[string]string

// Name returns the display name, falling back to the model code.
func (p Product) Name() string {
	if name := p["name"]; name != "" {
		return name
	}
	return p["model"]
}

// Model returns the unique model code.
func (p Product) Model() string {
	return p["model"]
}

// LeadStage is the sales-funnel classification of a session.
type LeadStage string

const (
	StageCold   LeadStage = "cold"
	StageWarm   LeadStage = "warm"
	StageHot    LeadStage = "hot"
	StageClosed LeadStage = "closed"
)

// Rank orders stages for monotonic progression. Unknown stages rank
// below cold so they can never advance a session.
func (s LeadStage) Rank() int {
	switch s {
	case StageCold:
		return 0
	case StageWarm:
		return 1
	case StageHot:
		return 2
	case StageClosed:
		return 3
	}
	return -1
}

// Valid reports whether s is one of the four known stages.
func (s LeadStage) Valid() bool {
	return s.Rank() >= 0
}

// Emotion is the coarse sentiment classification of a message.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionCurious   Emotion = "curious"
	EmotionHappy     Emotion = "happy"
	EmotionSatisfied Emotion = "satisfied"
)

// Valid reports whether e is one of the known emotions.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionNeutral, EmotionCurious, EmotionHappy, EmotionSatisfied:
		return true
	}
	return false
}

// Sender tags for conversation turns.
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// ConversationTurn is one persisted message in a session. Seq is a
// per-session counter assigned atomically on append; turns within a
// session are totally ordered by it.
type ConversationTurn struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Sender    string             `bson:"sender" json:"sender"`
	Message   string             `bson:"message" json:"message"`
	Seq       int64              `bson:"seq" json:"seq"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// SessionState is the durable per-session classification state.
type SessionState struct {
	SessionID string    `bson:"session_id" json:"session_id"`
	LeadStage LeadStage `bson:"lead_stage" json:"lead_stage"`
	Emotion   Emotion   `bson:"emotion" json:"emotion"`
	Language  string    `bson:"language" json:"language"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewSessionState returns the initial state for an unseen session.
func NewSessionState(sessionID string) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		LeadStage: StageCold,
		Emotion:   EmotionNeutral,
		Language:  "en",
	}
}

// AgentReply is the structured payload the LLM is asked to produce.
type AgentReply struct {
	Reply     string    `json:"reply"`
	LeadStage LeadStage `json:"lead_stage"`
	Emotion   Emotion   `json:"emotion"`
}

// ChatResult is the outcome of processing one inbound message.
type ChatResult struct {
	Reply     string             `json:"reply"`
	LeadStage LeadStage          `json:"lead_stage"`
	Emotion   Emotion            `json:"emotion"`
	Source    string             `json:"source"` // "comparison", "product", "casual", "llm" or "fallback"
	History   []ConversationTurn `json:"history"`
}

// ChatRequest is the body of POST /agent/chat/.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// TTSRequest is the body of POST /agent/voice/?action=tts.
type TTSRequest struct {
	Text string `json:"text"`
}

// VectorDocument is a product description with its embedding, stored
// in MongoDB for similarity search.
type VectorDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string             `bson:"product_id" json:"product_id"` // catalog model code
	Content   string             `bson:"content" json:"content"`
	Embedding []float32          `bson:"embedding" json:"embedding"`
	Metadata  map[string]string  `bson:"metadata" json:"metadata"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
