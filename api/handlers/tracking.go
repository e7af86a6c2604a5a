package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"anime-news/api/middleware"
	"anime-news/services"
)

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit
}

// TrackViewHandler godoc
// @Summary      Track article view
// @Description  Count a view of the article for the calling visitor. Repeat views inside the dedup window are not counted.
// @Tags         tracking
// @Param        slug  path  string  true  "Article slug"
// @Produce      json
// @Success      200  {object}  dto.ViewResultDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /articles/{slug}/view [post]
func TrackViewHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.TrackView(c.Request.Context(), middleware.VisitorID(c), c.Param("slug"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ArticleStatsHandler godoc
// @Summary      Article view stats
// @Tags         tracking
// @Param        slug  path  string  true  "Article slug"
// @Produce      json
// @Success      200  {object}  dto.ArticleStatsDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /articles/{slug}/stats [get]
func ArticleStatsHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Stats(c.Request.Context(), middleware.VisitorID(c), c.Param("slug"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// RelatedArticlesHandler godoc
// @Summary      Related articles
// @Tags         tracking
// @Param        slug   path   string  true   "Article slug"
// @Param        limit  query  int     false  "Max items (default 5, <=50)"
// @Param        lang   query  string  false  "id or en"
// @Produce      json
// @Success      200  {array}  dto.RelatedArticleDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /articles/{slug}/related [get]
func RelatedArticlesHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Related(c.Request.Context(), middleware.VisitorID(c), c.Param("slug"), limitParam(c), c.Query("lang"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// TrendingArticlesHandler godoc
// @Summary      Trending articles
// @Tags         tracking
// @Param        limit  query  int     false  "Max items (default 5, <=50)"
// @Param        lang   query  string  false  "id or en"
// @Produce      json
// @Success      200  {array}  dto.TrendingArticleDTO
// @Router       /trending [get]
func TrendingArticlesHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Trending(c.Request.Context(), middleware.VisitorID(c), limitParam(c), c.Query("lang"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// PopularArticlesHandler godoc
// @Summary      Popular articles
// @Tags         tracking
// @Param        timeframe  query  string  false  "daily, weekly or monthly (default weekly)"
// @Param        limit      query  int     false  "Max items (default 5, <=50)"
// @Param        lang       query  string  false  "id or en"
// @Produce      json
// @Success      200  {array}  dto.PopularArticleDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /popular [get]
func PopularArticlesHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Popular(c.Request.Context(), middleware.VisitorID(c), c.Query("timeframe"), limitParam(c), c.Query("lang"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// LastViewedHandler godoc
// @Summary      Recently viewed articles
// @Tags         tracking
// @Param        lang  query  string  false  "id or en"
// @Produce      json
// @Success      200  {array}  dto.LastViewedDTO
// @Router       /last-viewed [get]
func LastViewedHandler(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.LastViewed(c.Request.Context(), middleware.VisitorID(c), c.Query("lang"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
