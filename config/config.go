package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Groq chat completion configuration
	GroqAPIKey string
	GroqModel  string
	LLMTimeout time.Duration

	// Speech-to-text (Groq Whisper endpoint)
	WhisperModel string

	// ElevenLabs text-to-speech
	ElevenAPIKey string
	VoiceEN      string
	VoiceUR      string

	// Embedding provider for product retrieval
	VoyageAPIKey string
	VoyageModel  string

	// Matching strategy: "rule", "llm" or "hybrid"
	MatchStrategy string

	// Number of recent turns included in the LLM prompt
	HistoryWindow int

	// Catalog file override; empty means the built-in catalog
	CatalogPath string

	// Server configuration
	Port         string
	AllowOrigins string
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:  getEnv("MONGO_DB_NAME", "sales_agent"),
		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		LLMTimeout:    getEnvDuration("LLM_TIMEOUT", 20*time.Second),
		WhisperModel:  getEnv("WHISPER_MODEL", "whisper-large-v3"),
		ElevenAPIKey:  getEnv("ELEVEN_API_KEY", ""),
		VoiceEN:       getEnv("ELEVEN_VOICE_EN", "EXAVITQu4vr4xnSDxMaL"),
		VoiceUR:       getEnv("ELEVEN_VOICE_UR", "21m00Tcm4TlvDq8ikWAM"),
		VoyageAPIKey:  getEnv("VOYAGE_API_KEY", ""),
		VoyageModel:   getEnv("VOYAGE_MODEL", "voyage-2"),
		MatchStrategy: getEnv("MATCH_STRATEGY", "hybrid"),
		HistoryWindow: getEnvInt("HISTORY_WINDOW", 6),
		CatalogPath:   getEnv("CATALOG_PATH", ""),
		Port:          getEnv("PORT", "8080"),
		AllowOrigins:  getEnv("ALLOW_ORIGINS", "http://localhost:5173, http://localhost:3000"),
	}

	if cfg.GroqAPIKey == "" {
		slog.Warn("GROQ_API_KEY not set, LLM bridge will return apology replies")
	}

	switch cfg.MatchStrategy {
	case "rule", "llm", "hybrid":
	default:
		slog.Warn("Unknown MATCH_STRATEGY, using hybrid", "value", cfg.MatchStrategy)
		cfg.MatchStrategy = "hybrid"
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("Invalid integer env value, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Invalid duration env value, using default", "key", key, "value", value)
	}
	return defaultValue
}
