package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"anime-news/api/trace"
	"anime-news/config"
)

// RequestLogging 은 api_request 한 줄을 남긴다. 5xx 는 gin 에러 목록과 함께 error 레벨로 남긴다.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := trace.Fields(c.Request.Context())
		fields["method"] = c.Request.Method
		fields["route"] = c.FullPath()
		fields["status"] = c.Writer.Status()
		fields["duration_ms"] = time.Since(start).Milliseconds()

		if c.Writer.Status() >= 500 {
			fields["errors"] = c.Errors.String()
			config.ErrorWithFields("api_request", fields)
			return
		}
		config.InfoWithFields("api_request", fields)
	}
}
