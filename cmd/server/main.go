package main

import (
	"context"
	"net/http"

	"portfolio-chat/internal/api/handlers"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/ratelimit"
	"portfolio-chat/internal/repository/postgres"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// newRateLimitStore returns a Redis-backed store when REDIS_URL is set,
// otherwise an in-process fallback suitable for a single instance
func newRateLimitStore(redisConfig *config.RedisConfig) ratelimit.Store {
	if redisConfig.URL == "" {
		logger.Log.Info("REDIS_URL not set, using in-process rate limit store")
		return ratelimit.NewMemoryStore()
	}

	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		logger.Log.WithError(err).Warn("Invalid REDIS_URL, using in-process rate limit store")
		return ratelimit.NewMemoryStore()
	}
	opts.DialTimeout = redisConfig.DialTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Log.WithError(err).Warn("Redis unreachable, using in-process rate limit store")
		return ratelimit.NewMemoryStore()
	}

	logger.Log.Info("Using Redis rate limit store")
	return ratelimit.NewRedisStore(client)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using environment variables")
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Log.Info("Initializing database...")
	database, err := postgres.NewPostgresDB(appConfig.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	store := newRateLimitStore(&appConfig.Redis)
	h := handlers.NewHandlers(appConfig, database, store)

	// Go 1.22+ method routing with path parameters
	mux := http.NewServeMux()

	corsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
	}

	mux.HandleFunc("POST /api/chat", enableCORS(h.ChatHandler))
	mux.HandleFunc("OPTIONS /api/chat", corsHandler)
	mux.HandleFunc("GET /api/projects", enableCORS(h.ProjectsHandler))
	mux.HandleFunc("OPTIONS /api/projects", corsHandler)
	mux.HandleFunc("GET /api/conversation/{session_id}", enableCORS(h.ConversationHandler))
	mux.HandleFunc("OPTIONS /api/conversation/{session_id}", corsHandler)
	mux.HandleFunc("GET /api/featured-questions", enableCORS(h.FeaturedQuestionsHandler))
	mux.HandleFunc("OPTIONS /api/featured-questions", corsHandler)

	mux.HandleFunc("POST /api/voice/generate", enableCORS(h.GenerateVoiceHandler))
	mux.HandleFunc("OPTIONS /api/voice/generate", corsHandler)
	mux.HandleFunc("POST /api/voice/generate-message", enableCORS(h.GenerateMessageAudioHandler))
	mux.HandleFunc("OPTIONS /api/voice/generate-message", corsHandler)
	mux.HandleFunc("GET /api/voice/test", enableCORS(h.VoiceTestHandler))
	mux.HandleFunc("OPTIONS /api/voice/test", corsHandler)

	mux.HandleFunc("GET /api/audio/message/{id}", enableCORS(h.MessageAudioFileHandler))
	mux.HandleFunc("OPTIONS /api/audio/message/{id}", corsHandler)
	mux.HandleFunc("GET /api/audio/faq/{id}", enableCORS(h.FAQAudioFileHandler))
	mux.HandleFunc("OPTIONS /api/audio/faq/{id}", corsHandler)

	mux.HandleFunc("GET /api/health", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	mux.HandleFunc("OPTIONS /api/health", corsHandler)

	logger.Log.WithField("port", appConfig.Server.Port).Info("Server starting")
	if err := http.ListenAndServe(":"+appConfig.Server.Port, mux); err != nil {
		logger.Log.WithError(err).Fatal("Server failed to start")
	}
}
