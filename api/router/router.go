package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"anime-news/api/handlers"
	"anime-news/api/middleware"
	_ "anime-news/docs"
	"anime-news/routing"
	"anime-news/services"
)

func New(app *services.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLogging())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"catalog": app.Config.Catalog.Backend,
			"storage": app.Config.Storage.Backend,
		})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1", middleware.Visitor(app.Config.Server.VisitorCookie))
	{
		api.GET("/articles", handlers.ListArticlesHandler(app.Articles))
		api.GET("/articles/:slug", handlers.GetArticleHandler(app.Articles))
		api.GET("/categories", handlers.ListCategoriesHandler(app.Articles))

		api.POST("/articles/:slug/view", handlers.TrackViewHandler(app.Tracking))
		api.GET("/articles/:slug/stats", handlers.ArticleStatsHandler(app.Tracking))
		api.GET("/articles/:slug/related", handlers.RelatedArticlesHandler(app.Tracking))
		api.GET("/trending", handlers.TrendingArticlesHandler(app.Tracking))
		api.GET("/popular", handlers.PopularArticlesHandler(app.Tracking))
		api.GET("/last-viewed", handlers.LastViewedHandler(app.Tracking))

		api.GET("/routes/resolve", handlers.ResolveRouteHandler(routing.DefaultTable))
	}

	// 그 외 GET 은 프론트엔드 라우트 해석 결과를 돌려준다.
	r.NoRoute(handlers.FallbackRouteHandler(routing.DefaultTable))

	return r
}
