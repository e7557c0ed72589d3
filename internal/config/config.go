package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string

	// database
	DBDriver string
	DBDSN    string

	SessionSecret   string
	SessionTTLHours int

	// AI provider
	AIProvider    string
	GeminiBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string

	ProviderTimeoutSeconds int
	GenMaxTokens           int
	GenTemperature         float32

	// per-session throttle
	RateLimitPerWindow int
	RateWindowSeconds  int

	// redis (stats cache), disabled when addr is empty
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	StatsCacheTTLSeconds int

	// rabbitMQ (turn events), disabled when url is empty
	RabbitURL   string
	RabbitQueue string

	// dashboard guard, open when hash is empty
	AdminUser         string
	AdminPasswordHash string
}

func Load() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	// DSN demo (mysql)：
	// app:apppass@tcp(127.0.0.1:3306)/neuralsync?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "neuralsync.db"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	sessionTTL := 720
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionTTL = n
		}
	}

	// AI provider config; empty means local fallback only
	aiProvider := os.Getenv("AI_PROVIDER")

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3:latest"
	}

	providerTimeout := 60
	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			providerTimeout = n
		}
	}

	maxTokens := 256
	if v := os.Getenv("GEN_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxTokens = n
		}
	}

	temperature := float32(0.7)
	if v := os.Getenv("GEN_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			temperature = float32(f)
		}
	}

	rateLimit := 20
	if v := os.Getenv("RATE_LIMIT_PER_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	rateWindow := 60
	if v := os.Getenv("RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateWindow = n
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	statsTTL := 30
	if v := os.Getenv("STATS_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			statsTTL = n
		}
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "chat_turns"
	}

	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}

	return Config{
		HTTPAddr: addr,

		DBDriver: driver,
		DBDSN:    dsn,

		SessionSecret:   secret,
		SessionTTLHours: sessionTTL,

		AIProvider:    aiProvider,
		GeminiBaseURL: geminiBaseURL,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   geminiModel,
		OllamaBaseURL: ollamaBaseURL,
		OllamaModel:   ollamaModel,

		ProviderTimeoutSeconds: providerTimeout,
		GenMaxTokens:           maxTokens,
		GenTemperature:         temperature,

		RateLimitPerWindow: rateLimit,
		RateWindowSeconds:  rateWindow,

		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		StatsCacheTTLSeconds: statsTTL,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,

		AdminUser:         adminUser,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}
