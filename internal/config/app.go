package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"portfolio-chat/internal/logger"

	"github.com/sirupsen/logrus"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Voice     VoiceConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port    string
	BaseURL string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds the rate-limit cache configuration. An empty URL means
// the limiter falls back to its in-process store.
type RedisConfig struct {
	URL         string
	DialTimeout time.Duration
}

// LLMConfig holds chat-completion provider configuration
type LLMConfig struct {
	OpenAIAPIKey string
	Model        string
	PersonaName  string
	PersonaRole  string
}

// VoiceConfig holds text-to-speech provider configuration
type VoiceConfig struct {
	ElevenLabsAPIKey string
	VoiceID          string
	ModelID          string
}

// RateLimitConfig holds per-client admission thresholds
type RateLimitConfig struct {
	ChatPerMinute  int
	VoicePerMinute int
	Window         time.Duration
}

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{}

	config.Server = ServerConfig{
		Port:    getEnvOrDefault("SERVER_PORT", "8080"),
		BaseURL: getEnvOrDefault("BACKEND_BASE_URL", "http://localhost:8080"),
	}

	config.Database = DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "postgres"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		Name:     getEnvOrDefault("DB_NAME", "portfolio"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	config.Redis = RedisConfig{
		URL:         os.Getenv("REDIS_URL"),
		DialTimeout: getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Log.Warn("OPENAI_API_KEY environment variable not set")
	}

	config.LLM = LLMConfig{
		OpenAIAPIKey: apiKey,
		Model:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		PersonaName:  getEnvOrDefault("PERSONA_NAME", "Nathan Magyar"),
		PersonaRole:  getEnvOrDefault("PERSONA_ROLE", "a product designer and developer"),
	}

	voiceKey := os.Getenv("ELEVENLABS_API_KEY")
	if voiceKey == "" {
		logger.Log.Warn("ELEVENLABS_API_KEY environment variable not set, voice endpoints will be unavailable")
	}

	config.Voice = VoiceConfig{
		ElevenLabsAPIKey: voiceKey,
		VoiceID:          os.Getenv("ELEVENLABS_VOICE_ID"),
		ModelID:          getEnvOrDefault("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
	}

	config.RateLimit = RateLimitConfig{
		ChatPerMinute:  getEnvAsInt("RATE_LIMIT_CHAT_PER_MINUTE", 10),
		VoicePerMinute: getEnvAsInt("RATE_LIMIT_VOICE_PER_MINUTE", 5),
		Window:         getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	if config.RateLimit.ChatPerMinute <= 0 || config.RateLimit.VoicePerMinute <= 0 {
		return nil, fmt.Errorf("rate limit thresholds must be positive")
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
