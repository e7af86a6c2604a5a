package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"anime-news/api/trace"
	"anime-news/catalog"
	"anime-news/config"
	"anime-news/dto"
	"anime-news/services"
	"anime-news/tracker"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrMissingVisitor),
		errors.Is(err, tracker.ErrUnknownTimeframe):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// abortWithError 는 에러를 상태 코드로 변환해 ErrorResponseDTO 로 응답한다.
// 5xx 만 에러 로그를 남긴다.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		fields := trace.Fields(c.Request.Context())
		fields["path"] = c.Request.URL.Path
		fields["error"] = err.Error()
		config.ErrorWithFields("request failed", fields)
	}
	msg := err.Error()
	if status == http.StatusNotFound {
		msg = "article not found"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponseDTO{Error: msg})
}
