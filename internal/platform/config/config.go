package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// LLM upstream providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StorageDriver string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// GatewayURL is where chat sessions send their streaming requests.
	GatewayURL     string
	LLMProvider    string
	LLMUpstreamURL string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int

	LoginRateLimit string
	APIRateLimit   string

	ChatSessionTTL        time.Duration
	StreamMaxPendingBytes int
	StreamMaxRetries      int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "720h")
	viper.SetDefault("JWT_ISSUER", "family-finance-agent")
	viper.SetDefault("GATEWAY_URL", "")
	viper.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	viper.SetDefault("LLM_UPSTREAM_URL", "https://ai.gateway.lovable.dev/v1")
	viper.SetDefault("LLM_API_KEY", "")
	viper.SetDefault("LLM_MODEL", "google/gemini-2.5-flash")
	viper.SetDefault("LLM_TEMPERATURE", 0.7)
	viper.SetDefault("LLM_MAX_TOKENS", 1024)
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("API_RATE_LIMIT", "120-M")
	viper.SetDefault("CHAT_SESSION_TTL", "2h")
	viper.SetDefault("STREAM_MAX_PENDING_BYTES", 64*1024)
	viper.SetDefault("STREAM_MAX_RETRIES", 3)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER")))
	switch cfg.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %q or %q", cfg.StorageDriver, StoragePostgres, StorageMemory)
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StoragePostgres {
		return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", 30*24*time.Hour)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "family-finance-agent"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(viper.GetString("LLM_PROVIDER")))
	switch cfg.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q: want %q or %q", cfg.LLMProvider, ProviderOpenAI, ProviderGemini)
	}
	cfg.LLMUpstreamURL = strings.TrimRight(viper.GetString("LLM_UPSTREAM_URL"), "/")
	cfg.LLMAPIKey = viper.GetString("LLM_API_KEY")
	if cfg.LLMAPIKey == "" {
		log.Println("Warning: LLM_API_KEY not set. The chat gateway will answer with errors.")
	}
	cfg.LLMModel = viper.GetString("LLM_MODEL")
	cfg.LLMTemperature = float32(viper.GetFloat64("LLM_TEMPERATURE"))
	cfg.LLMMaxTokens = viper.GetInt("LLM_MAX_TOKENS")

	cfg.GatewayURL = viper.GetString("GATEWAY_URL")
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = fmt.Sprintf("http://localhost:%s/gateway/v1/chat", cfg.Port)
	}

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")

	cfg.ChatSessionTTL = durationOr("CHAT_SESSION_TTL", 2*time.Hour)
	cfg.StreamMaxPendingBytes = viper.GetInt("STREAM_MAX_PENDING_BYTES")
	cfg.StreamMaxRetries = viper.GetInt("STREAM_MAX_RETRIES")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}

// durationOr parses a duration setting, falling back to def when unset or invalid.
func durationOr(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
