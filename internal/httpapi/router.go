package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/chat"
	"github.com/surajkumar989/NeuralSync/internal/common"
	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/httpapi/handlers"
	"github.com/surajkumar989/NeuralSync/internal/httpapi/middleware"
	"github.com/surajkumar989/NeuralSync/internal/store/redisstore"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, pub chat.TurnPublisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, rds, pub)

	r.GET("/ping", h.Ping)

	// chat API (browser session cookie, minted on first touch)
	api := r.Group("/api")
	api.Use(middleware.Session(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour))
	api.POST("/chat", h.Chat)
	api.GET("/history", h.History)
	api.POST("/verify", h.Verify)
	api.GET("/session", h.Session)

	// operator endpoints (basic auth when ADMIN_PASSWORD_HASH is set)
	admin := api.Group("/")
	admin.Use(middleware.AdminRequired(cfg.AdminUser, cfg.AdminPasswordHash))
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/analytics/sessions", h.AnalyticsSessions)

	return r
}
