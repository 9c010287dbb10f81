package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an id for log correlation, keeping the
// caller's id when one was sent.
func RequestID(ctx *gin.Context) {
	rid := ctx.Request.Header.Get("X-Request-ID")
	if rid == "" {
		rid = uuid.NewString()
	}
	ctx.Set("request_id", rid)
	ctx.Header("X-Request-ID", rid)
	ctx.Next()
}
