package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/chat"
	"github.com/surajkumar989/NeuralSync/internal/httpapi/middleware"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

func sessionIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.SessionIDKey)
	if !exists {
		return "", false
	}
	sid, isStr := v.(string)
	return sid, isStr && sid != ""
}

type chatReq struct {
	Message string `json:"message"`
}

func (h *Handler) Chat(c *gin.Context) {
	sid, found := sessionIDFromContext(c)
	if !found {
		fail(c, http.StatusUnauthorized, 40101, "missing session")
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	receipt, err := h.ChatSvc.SubmitTurn(c.Request.Context(), sid, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, 10010, "message is empty")
		case errors.Is(err, chat.ErrMessageTooLong):
			fail(c, http.StatusBadRequest, 10011, "message too long")
		case errors.Is(err, chat.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, 42900, "too many messages, slow down")
		default:
			log.Printf("[Chat] submit failed session=%s err=%v", sid, err)
			fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	ok(c, receipt)
}

func (h *Handler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	sessionID := c.Query("session_id")

	turns, err := h.ChatSvc.ListTurns(c.Request.Context(), sessionID, page, pageSize)
	if err != nil {
		log.Printf("[History] list failed session=%s err=%v", sessionID, err)
		fail(c, http.StatusInternalServerError, 50002, "failed to list history")
		return
	}

	ok(c, turns)
}

type verifyReq struct {
	TurnID      uint64 `json:"turn_id"`
	MessageHash string `json:"message_hash"`
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.TurnID == 0 {
		fail(c, http.StatusBadRequest, 10002, "turn_id required")
		return
	}

	result, err := h.ChatSvc.VerifyTurn(c.Request.Context(), req.TurnID, req.MessageHash)
	if err != nil {
		if errors.Is(err, chat.ErrTurnNotFound) {
			fail(c, http.StatusNotFound, 40401, "turn not found")
			return
		}
		log.Printf("[Verify] lookup failed turn=%d err=%v", req.TurnID, err)
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	ok(c, result)
}

func (h *Handler) Session(c *gin.Context) {
	sid, found := sessionIDFromContext(c)
	if !found {
		fail(c, http.StatusUnauthorized, 40101, "missing session")
		return
	}

	summary, err := h.ChatSvc.SessionStats(c.Request.Context(), sid)
	if err != nil {
		log.Printf("[Session] stats failed session=%s err=%v", sid, err)
		fail(c, http.StatusInternalServerError, 50002, "failed to load session stats")
		return
	}

	ok(c, gin.H{
		"session_id": sid,
		"summary":    summary,
	})
}
