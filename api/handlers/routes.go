package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anime-news/dto"
	"anime-news/routing"
)

// ResolveRouteHandler godoc
// @Summary      Resolve a front-end URL
// @Description  Resolve a portal URL (path plus optional query) to the page the front-end mounts
// @Tags         routes
// @Param        path  query  string  true  "URL to resolve, e.g. /anime?page=2"
// @Produce      json
// @Success      200  {object}  dto.RouteDTO
// @Failure      404  {object}  dto.RouteDTO
// @Router       /routes/resolve [get]
func ResolveRouteHandler(table routing.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeRoute(c, table.Resolve(c.DefaultQuery("path", "/")))
	}
}

// FallbackRouteHandler answers every unmatched GET with the route resolved from
// the request URL itself. Other methods get a plain 404.
func FallbackRouteHandler(table routing.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
			return
		}
		path := c.Request.URL.EscapedPath()
		writeRoute(c, table.ResolveRequest(routing.NewRequest(path, c.Request.URL.Query())))
	}
}

func writeRoute(c *gin.Context, route routing.Route) {
	status := http.StatusOK
	if route.Page == routing.PageNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, dto.NewRouteDTO(route))
}
