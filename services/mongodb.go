package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongoDB connects to MongoDB and verifies the connection.
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	return client, nil
}

// CreateIndexes creates the indexes all collections rely on. Index
// creation failures are logged but do not abort startup.
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	turns := db.Collection("conversation_turns")
	_, err := turns.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "session_id", Value: 1},
			{Key: "seq", Value: -1},
		}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"timestamp": -1}},
	})
	if err != nil {
		return err
	}

	sessions := db.Collection("sessions")
	_, err = sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"session_id": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	vectors := db.Collection("vector_documents")
	_, err = vectors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"product_id": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}
