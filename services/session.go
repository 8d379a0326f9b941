package services

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// SessionStore holds the per-session lead-stage/emotion state.
type SessionStore interface {
	// Get returns the stored state, or a fresh cold/neutral state for
	// an unseen session.
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	// Save upserts the state.
	Save(ctx context.Context, state *models.SessionState) error
}

const sessionCacheSize = 1024

// MongoSessionStore persists session state in the sessions collection
// with a bounded in-process LRU in front of it. The cache is a
// best-effort hint only; Mongo remains the source of truth and every
// Save writes through.
type MongoSessionStore struct {
	db    *mongo.Database
	cache *lru.Cache[string, models.SessionState]
}

// NewMongoSessionStore wraps a database handle.
func NewMongoSessionStore(db *mongo.Database) (*MongoSessionStore, error) {
	cache, err := lru.New[string, models.SessionState](sessionCacheSize)
	if err != nil {
		return nil, err
	}
	return &MongoSessionStore{db: db, cache: cache}, nil
}

func (s *MongoSessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if state, ok := s.cache.Get(sessionID); ok {
		return &state, nil
	}

	collection := s.db.Collection("sessions")

	var state models.SessionState
	err := collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return models.NewSessionState(sessionID), nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "session get", Err: err}
	}

	s.cache.Add(sessionID, state)
	return &state, nil
}

func (s *MongoSessionStore) Save(ctx context.Context, state *models.SessionState) error {
	state.UpdatedAt = time.Now().UTC()

	collection := s.db.Collection("sessions")
	_, err := collection.UpdateOne(ctx,
		bson.M{"session_id": state.SessionID},
		bson.M{"$set": state},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Do not cache a state the database never saw.
		s.cache.Remove(state.SessionID)
		return &models.StorageError{Op: "session save", Err: err}
	}

	s.cache.Add(state.SessionID, *state)
	slog.Debug("Session state saved",
		"sessionID", state.SessionID,
		"leadStage", state.LeadStage,
		"emotion", state.Emotion,
	)
	return nil
}
