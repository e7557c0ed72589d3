package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/surajkumar989/NeuralSync/internal/common"
)

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	// cache is best-effort: a broken redis never takes the dashboard down
	if h.Redis != nil {
		cached, err := h.Redis.GetDashboardStats(ctx)
		if err == nil {
			common.OK(c, cached)
			return
		}
		if err != redis.Nil {
			log.Printf("[Dashboard] cache read failed err=%v", err)
		}
	}

	stats, err := h.ChatSvc.DashboardStats(ctx)
	if err != nil {
		log.Printf("[Dashboard] stats query failed err=%v", err)
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to build stats")
		return
	}

	if h.Redis != nil {
		if err := h.Redis.SetDashboardStats(ctx, stats); err != nil {
			log.Printf("[Dashboard] cache write failed err=%v", err)
		}
	}

	common.OK(c, stats)
}

func (h *Handler) AnalyticsSessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sessions, err := h.ChatSvc.TopSessions(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[AnalyticsSessions] query failed err=%v", err)
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to query sessions")
		return
	}

	common.OK(c, gin.H{"sessions": sessions})
}
