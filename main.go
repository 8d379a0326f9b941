package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/SAsh-1102/AI-Sales-Agent/config"
	"github.com/SAsh-1102/AI-Sales-Agent/handlers"
	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Load the product catalog
	catalog, err := services.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load product catalog", "error", err)
		os.Exit(1)
	}

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DatabaseName)
	if err := services.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		// Continue anyway - the app can still work without indexes
	}

	// Stores
	turns := services.NewMongoConversationStore(db)
	sessions, err := services.NewMongoSessionStore(db)
	if err != nil {
		slog.Error("Failed to create session store", "error", err)
		os.Exit(1)
	}

	// Embedding provider and product vector index
	var embedder services.Embedder
	if cfg.VoyageAPIKey != "" {
		embedder = services.NewVoyageEmbedder(cfg.VoyageAPIKey, cfg.VoyageModel)
	} else {
		slog.Warn("No Voyage API key configured, using mock embeddings")
		embedder = services.MockEmbedder{}
	}

	index := services.NewProductIndex(db, embedder)
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := index.Build(indexCtx, catalog); err != nil {
		slog.Error("Failed to build product vector index", "error", err)
		// Continue anyway - retrieval is optional for the chat flow
	}
	cancelIndex()

	// Chat pipeline
	chat := services.NewChatService(services.ChatServiceConfig{
		Catalog:       catalog,
		Matcher:       services.NewMatcher(catalog),
		LLM:           services.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.LLMTimeout),
		Retriever:     index,
		Turns:         turns,
		Sessions:      sessions,
		Strategy:      cfg.MatchStrategy,
		HistoryWindow: cfg.HistoryWindow,
	})

	chatHandler := handlers.NewChatHandler(chat)
	voiceHandler := handlers.NewVoiceHandler(chat,
		services.NewElevenLabsClient(cfg.ElevenAPIKey, cfg.VoiceEN, cfg.VoiceUR),
		services.NewWhisperClient(cfg.GroqAPIKey, cfg.WhisperModel),
	)
	historyHandler := handlers.NewHistoryHandler(chat)
	wsHandler := handlers.NewWebSocketHandler(chat)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Routes
	agent := app.Group("/agent")
	agent.Post("/chat/", chatHandler.HandleChat)
	agent.Post("/voice/", voiceHandler.HandleVoice)
	agent.Get("/history/:sessionID", historyHandler.HandleHistory)
	agent.Get("/ws", wsHandler.Upgrade, websocket.New(wsHandler.Handle))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ai-sales-agent",
		})
	})

	// Start server
	slog.Info("Server starting", "port", cfg.Port, "strategy", cfg.MatchStrategy)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

// errorHandler maps the typed error taxonomy onto HTTP statuses:
// InputError → 400, StorageError → 503, fiber errors keep their code,
// anything else → 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var inputErr *models.InputError
	var storageErr *models.StorageError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &inputErr):
		code = fiber.StatusBadRequest
	case errors.As(err, &storageErr):
		code = fiber.StatusServiceUnavailable
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	slog.Error("Request error", "error", err, "status", code)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
