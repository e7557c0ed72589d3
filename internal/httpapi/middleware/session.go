package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/auth"
	"github.com/surajkumar989/NeuralSync/internal/common"
)

const (
	SessionIDKey  = "session_id"
	SessionCookie = "ns_session"
)

// Session guarantees every request carries a session id: a valid cookie
// is reused, anything absent, expired or tampered with gets a fresh id
// and a new signed cookie. The id is opaque to everything downstream.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := c.Cookie(SessionCookie); err == nil {
			if sid, perr := auth.ParseSessionToken(tok, secret); perr == nil {
				c.Set(SessionIDKey, sid)
				c.Next()
				return
			}
		}

		sid, err := common.NewULID()
		if err != nil {
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
			c.Abort()
			return
		}
		tok, err := auth.SignSessionToken(sid, secret, ttl)
		if err != nil {
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
			c.Abort()
			return
		}

		c.SetCookie(SessionCookie, tok, int(ttl/time.Second), "/", "", false, true)
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}
