package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/ai"
	"github.com/surajkumar989/NeuralSync/internal/chat"
	"github.com/surajkumar989/NeuralSync/internal/common"
	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/store/redisstore"
	"gorm.io/gorm"
)

type Handler struct {
	Redis   *redisstore.Store
	ChatSvc *chat.Service
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, pub chat.TurnPublisher) *Handler {
	repo := chat.NewRepo(db)

	reg := ai.NewRegistry()
	reg.Register("gemini", func(model string) (ai.Provider, error) {
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, errors.New("gemini: GEMINI_API_KEY is not set")
		}
		if model == "" {
			model = cfg.GeminiModel
		}
		return ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, model), nil
	})
	reg.Register("ollama", func(model string) (ai.Provider, error) {
		if model == "" {
			model = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, model), nil
	})

	// the remote provider is optional; every turn still resolves through
	// the local fallback when it is absent or misconfigured
	var provider ai.Provider
	if name := strings.TrimSpace(cfg.AIProvider); name != "" {
		p, err := reg.Get(name, "")
		if err != nil {
			log.Printf("provider %q unavailable, running local fallback only: %v", name, err)
		} else {
			provider = p
		}
	}

	resolver := ai.NewResolver(
		provider,
		ai.NewFallback(),
		ai.GenerationConfig{MaxOutputTokens: cfg.GenMaxTokens, Temperature: cfg.GenTemperature},
		time.Duration(cfg.ProviderTimeoutSeconds)*time.Second,
	)

	chatSvc := chat.NewService(repo, resolver, chat.SystemClock(), chat.RateLimit{
		PerWindow: cfg.RateLimitPerWindow,
		Window:    time.Duration(cfg.RateWindowSeconds) * time.Second,
	}, pub)

	return &Handler{Redis: rds, ChatSvc: chatSvc}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}
