package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Agent    AgentConfig
	Risk     RiskConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider          string // "ollama" or "huggingface"
	OllamaBaseURL     string
	HuggingFaceURL    string
	HuggingFaceAPIKey string
	FastModel         string // intent routing, plain chat
	StandardModel     string // tool-calling lanes
	FallbackProvider  string // secondary stage provider type
	FallbackModel     string
}

type AgentConfig struct {
	MaxToolIterations int
	RequestTimeout    time.Duration
}

type RiskConfig struct {
	InterventionThreshold float64
	DebounceInterval      time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:          getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceURL:    getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
			FastModel:         getEnv("LLM_FAST_MODEL", "llama3.2:3b"),
			StandardModel:     getEnv("LLM_STANDARD_MODEL", "qwen2.5:7b"),
			FallbackProvider:  getEnv("LLM_FALLBACK_PROVIDER", "huggingface"),
			FallbackModel:     getEnv("LLM_FALLBACK_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
		},
		Agent: AgentConfig{
			MaxToolIterations: getEnvAsInt("AGENT_MAX_TOOL_ITERATIONS", 5),
			RequestTimeout:    getEnvAsDuration("AGENT_REQUEST_TIMEOUT", 90*time.Second),
		},
		Risk: RiskConfig{
			InterventionThreshold: getEnvAsFloat("RISK_INTERVENTION_THRESHOLD", 0.4),
			DebounceInterval:      getEnvAsDuration("RISK_DEBOUNCE_INTERVAL", 30*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
