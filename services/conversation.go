package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// ConversationStore is the append-only log of session turns.
type ConversationStore interface {
	// Append records one turn, assigning it the next per-session
	// sequence number. Returns a StorageError when persistence is
	// unreachable.
	Append(ctx context.Context, sessionID, sender, message string) (models.ConversationTurn, error)
	// History returns the most recent limit turns for the session in
	// chronological order. Unknown sessions yield an empty slice.
	History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
}

// MongoConversationStore persists turns in the conversation_turns
// collection. A counters document per session hands out sequence
// numbers atomically, so concurrent appends for one session cannot
// interleave out of order.
type MongoConversationStore struct {
	db *mongo.Database
}

// NewMongoConversationStore wraps a database handle.
func NewMongoConversationStore(db *mongo.Database) *MongoConversationStore {
	return &MongoConversationStore{db: db}
}

// nextSeq increments and returns the per-session ordering counter.
func (s *MongoConversationStore) nextSeq(ctx context.Context, sessionID string) (int64, error) {
	counters := s.db.Collection("session_counters")

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (s *MongoConversationStore) Append(ctx context.Context, sessionID, sender, message string) (models.ConversationTurn, error) {
	seq, err := s.nextSeq(ctx, sessionID)
	if err != nil {
		return models.ConversationTurn{}, &models.StorageError{Op: "append", Err: err}
	}

	turn := models.ConversationTurn{
		SessionID: sessionID,
		Sender:    sender,
		Message:   message,
		Seq:       seq,
		Timestamp: time.Now().UTC(),
	}

	collection := s.db.Collection("conversation_turns")
	if _, err := collection.InsertOne(ctx, turn); err != nil {
		return models.ConversationTurn{}, &models.StorageError{Op: "append", Err: err}
	}

	slog.Debug("Conversation turn appended",
		"sessionID", sessionID,
		"sender", sender,
		"seq", seq,
	)
	return turn, nil
}

func (s *MongoConversationStore) History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	if limit <= 0 {
		limit = 10
	}

	collection := s.db.Collection("conversation_turns")
	cursor, err := collection.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().
			SetSort(bson.M{"seq": -1}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, &models.StorageError{Op: "history", Err: err}
	}
	defer cursor.Close(ctx)

	turns := []models.ConversationTurn{}
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, &models.StorageError{Op: "history", Err: err}
	}

	// Fetched newest-first; flip to chronological order.
	sort.Slice(turns, func(i, j int) bool {
		return turns[i].Seq < turns[j].Seq
	})
	return turns, nil
}
