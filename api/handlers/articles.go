package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	_ "anime-news/dto"
	"anime-news/services"
)

// ListArticlesHandler godoc
// @Summary      List articles
// @Description  List articles newest first with optional category/tag filters and pagination
// @Tags         articles
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        category   query  string  false  "Content category"
// @Param        tag        query  string  false  "Tag"
// @Param        lang       query  string  false  "id or en"
// @Produce      json
// @Success      200  {object}  dto.PaginationArticleDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /articles [get]
func ListArticlesHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ListArticlesInput
		in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "12"))
		in.Category = c.Query("category")
		in.Tag = c.Query("tag")
		in.Lang = c.Query("lang")

		page, err := svc.List(c.Request.Context(), in)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetArticleHandler godoc
// @Summary      Get article by slug
// @Tags         articles
// @Param        slug  path   string  true   "Article slug"
// @Param        lang  query  string  false  "id or en"
// @Produce      json
// @Success      200  {object}  dto.ArticleDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /articles/{slug} [get]
func GetArticleHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		article, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"), c.Query("lang"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, article)
	}
}

// ListCategoriesHandler godoc
// @Summary      List categories
// @Description  Content categories in menu order with their article counts
// @Tags         articles
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /categories [get]
func ListCategoriesHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Categories(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
