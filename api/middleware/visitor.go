package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"anime-news/api/trace"
)

const (
	// ContextKeyVisitor is the gin context key holding the visitor id.
	ContextKeyVisitor = "visitor_id"
	visitorCookieAge  = 365 * 24 * time.Hour
)

// Visitor makes sure every request carries an anonymous visitor id. An absent
// or malformed cookie is replaced by a fresh uuid.
func Visitor(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(visitorCookieAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ContextKeyVisitor, id)
		trace.FromContext(c.Request.Context()).SetVisitor(id)
		c.Next()
	}
}

// VisitorID returns the id set by Visitor.
func VisitorID(c *gin.Context) string {
	return c.GetString(ContextKeyVisitor)
}
