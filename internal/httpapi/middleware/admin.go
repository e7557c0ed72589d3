package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/auth"
	"github.com/surajkumar989/NeuralSync/internal/common"
)

// AdminRequired guards operator endpoints with HTTP basic auth checked
// against a bcrypt hash. An empty hash leaves the group open for dev
// setups.
func AdminRequired(username, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != username || !auth.CheckPassword(passwordHash, pass) {
			c.Header("WWW-Authenticate", `Basic realm="neuralsync"`)
			common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
