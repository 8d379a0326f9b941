package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// Retriever fetches product context relevant to a query for the LLM
// prompt.
type Retriever interface {
	Context(ctx context.Context, query string, limit int) (string, error)
}

// ProductSearchResult is one scored hit from the vector index.
type ProductSearchResult struct {
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

// ProductIndex stores per-product embeddings in MongoDB and answers
// nearest-neighbor queries with cosine similarity.
type ProductIndex struct {
	db       *mongo.Database
	embedder Embedder
}

// NewProductIndex wraps a database handle and an embedding provider.
func NewProductIndex(db *mongo.Database, embedder Embedder) *ProductIndex {
	return &ProductIndex{db: db, embedder: embedder}
}

// CosineSimilarity calculates the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// Build upserts an embedding document for every catalog product. Safe
// to run at every startup; unchanged products are overwritten in place.
func (idx *ProductIndex) Build(ctx context.Context, catalog *Catalog) error {
	collection := idx.db.Collection("vector_documents")

	texts := make([]string, 0, catalog.Len())
	for _, p := range catalog.Products() {
		texts = append(texts, ProductText(p))
	}

	embeddings, err := idx.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed catalog: %w", err)
	}

	now := time.Now().UTC()
	for i, p := range catalog.Products() {
		doc := models.VectorDocument{
			ProductID: p.Model(),
			Content:   texts[i],
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"name":  p.Name(),
				"model": p.Model(),
				"price": p["price"],
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		filter := bson.M{"product_id": p.Model()}
		update := bson.M{"$set": doc}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return &models.StorageError{Op: "index build", Err: err}
		}
	}

	slog.Info("Product vector index built", "products", catalog.Len())
	return nil
}

// Search returns the limit most similar products for the query, best
// first. Results below the relevance threshold are dropped unless
// nothing clears it, in which case the best available are returned.
func (idx *ProductIndex) Search(ctx context.Context, query string, limit int) ([]ProductSearchResult, error) {
	queryEmbeddings, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryEmbedding := queryEmbeddings[0]

	collection := idx.db.Collection("vector_documents")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, &models.StorageError{Op: "index search", Err: err}
	}
	defer cursor.Close(ctx)

	var documents []models.VectorDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, &models.StorageError{Op: "index search", Err: err}
	}

	if len(documents) == 0 {
		return []ProductSearchResult{}, nil
	}

	type scoredDoc struct {
		doc   models.VectorDocument
		score float32
	}

	scoredDocs := make([]scoredDoc, 0, len(documents))
	for _, doc := range documents {
		score := CosineSimilarity(queryEmbedding, doc.Embedding)
		scoredDocs = append(scoredDocs, scoredDoc{doc: doc, score: score})
	}

	sort.Slice(scoredDocs, func(i, j int) bool {
		return scoredDocs[i].score > scoredDocs[j].score
	})

	relevanceThreshold := float32(0.3)
	if scoredDocs[0].score > 0.7 {
		relevanceThreshold = scoredDocs[0].score * 0.5
	}

	var results []ProductSearchResult
	for i := 0; i < len(scoredDocs) && len(results) < limit; i++ {
		if scoredDocs[i].score >= relevanceThreshold {
			results = append(results, ProductSearchResult{
				Content:  scoredDocs[i].doc.Content,
				Score:    scoredDocs[i].score,
				Metadata: scoredDocs[i].doc.Metadata,
			})
		}
	}

	// Nothing cleared the threshold: fall back to the best matches.
	if len(results) == 0 {
		takeCount := limit
		if takeCount > 3 {
			takeCount = 3
		}
		if takeCount > len(scoredDocs) {
			takeCount = len(scoredDocs)
		}
		for i := 0; i < takeCount; i++ {
			results = append(results, ProductSearchResult{
				Content:  scoredDocs[i].doc.Content,
				Score:    scoredDocs[i].score,
				Metadata: scoredDocs[i].doc.Metadata,
			})
		}
	}

	slog.Info("Vector search completed",
		"query", query,
		"resultsFound", len(results),
		"totalDocuments", len(documents),
	)
	return results, nil
}

// Context renders the top search hits into a prompt block, annotated
// with a relevance label per result.
func (idx *ProductIndex) Context(ctx context.Context, query string, limit int) (string, error) {
	results, err := idx.Search(ctx, query, limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	contexts := make([]string, 0, len(results))
	for i, result := range results {
		confidence := "high"
		if result.Score < 0.6 {
			confidence = "medium"
		}
		if result.Score < 0.4 {
			confidence = "low"
		}
		contexts = append(contexts, fmt.Sprintf("[Result %d - Relevance: %s (%.3f)]\n%s",
			i+1, confidence, result.Score, result.Content))
	}

	return strings.Join(contexts, "\n\n"), nil
}
