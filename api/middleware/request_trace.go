package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"anime-news/api/trace"
	"anime-news/config"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// RequestTrace 는 모든 요청에 Request ID 를 보장하고 컨텍스트와 응답 헤더에 싣는다.
// 요청이 끝나면 trace 필드를 포함한 완료 로그를 남긴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx, tr := trace.Start(c.Request.Context(), c.GetHeader(HeaderRequestID))
		c.Request = c.Request.WithContext(ctx)
		c.Request.Header.Set(HeaderRequestID, tr.RequestID)
		c.Header(HeaderRequestID, tr.RequestID)
		c.Header(HeaderSpanID, tr.Span())

		body := snapshotBody(c.Request)

		c.Next()

		fields := trace.Fields(c.Request.Context())
		fields["method"] = c.Request.Method
		fields["path"] = c.Request.URL.Path
		fields["status"] = c.Writer.Status()
		fields["duration"] = time.Since(start).String()
		if q := c.Request.URL.Query(); len(q) > 0 {
			// 멀티 값 쿼리도 그대로 남긴다.
			fields["query_params"] = map[string][]string(q)
		}
		if body != "" {
			fields["body"] = body
		}
		config.InfoWithFields("completed request", fields)
	}
}

// snapshotBody 는 쓰기 요청 본문의 앞부분을 읽고 핸들러가 다시 읽을 수 있게 복원한다.
func snapshotBody(req *http.Request) string {
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ""
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	if len(data) > maxBodyLog {
		data = data[:maxBodyLog]
	}
	return string(data)
}
