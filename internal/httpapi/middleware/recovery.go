package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajkumar989/NeuralSync/internal/common"
)

// Recovery turns panics into the standard JSON envelope instead of gin's
// bare 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				common.Fail(c, http.StatusInternalServerError, 50000, "internal error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
