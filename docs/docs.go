// Package docs registers the swagger document served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/articles": {
            "get": {
                "description": "List articles newest first with optional category/tag filters and pagination",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "List articles",
                "parameters": [
                    {"type": "integer", "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (<=100)", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "Content category", "name": "category", "in": "query"},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "query"},
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PaginationArticleDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/articles/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Get article by slug",
                "parameters": [
                    {"type": "string", "description": "Article slug", "name": "slug", "in": "path", "required": true},
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ArticleDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/articles/{slug}/view": {
            "post": {
                "description": "Count a view of the article for the calling visitor. Repeat views inside the dedup window are not counted.",
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track article view",
                "parameters": [
                    {"type": "string", "description": "Article slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ViewResultDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/articles/{slug}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Article view stats",
                "parameters": [
                    {"type": "string", "description": "Article slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ArticleStatsDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/articles/{slug}/related": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Related articles",
                "parameters": [
                    {"type": "string", "description": "Article slug", "name": "slug", "in": "path", "required": true},
                    {"type": "integer", "description": "Max items (default 5, <=50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.RelatedArticleDTO"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/trending": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Trending articles",
                "parameters": [
                    {"type": "integer", "description": "Max items (default 5, <=50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.TrendingArticleDTO"}}}
                }
            }
        },
        "/popular": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Popular articles",
                "parameters": [
                    {"type": "string", "description": "daily, weekly or monthly (default weekly)", "name": "timeframe", "in": "query"},
                    {"type": "integer", "description": "Max items (default 5, <=50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.PopularArticleDTO"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/last-viewed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Recently viewed articles",
                "parameters": [
                    {"type": "string", "description": "id or en", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.LastViewedDTO"}}}
                }
            }
        },
        "/categories": {
            "get": {
                "description": "Content categories in menu order with their article counts",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.CategoryDTO"}}}
                }
            }
        },
        "/routes/resolve": {
            "get": {
                "description": "Resolve a portal URL (path plus optional query) to the page the front-end mounts",
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "Resolve a front-end URL",
                "parameters": [
                    {"type": "string", "description": "URL to resolve, e.g. /anime?page=2", "name": "path", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RouteDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.RouteDTO"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponseDTO": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "article not found"}}
        },
        "dto.ArticleDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "slug": {"type": "string"},
                "lang": {"type": "string"},
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "category": {"type": "string"},
                "categories": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "author": {"type": "string"},
                "thumbnail": {"type": "string"},
                "date": {"type": "string"},
                "published_at": {"type": "string"},
                "views": {"type": "integer"},
                "path": {"type": "string"}
            }
        },
        "dto.PaginationArticleDTO": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.ArticleDTO"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "dto.ViewResultDTO": {
            "type": "object",
            "properties": {"counted": {"type": "boolean"}, "view_count": {"type": "integer"}}
        },
        "dto.ArticleStatsDTO": {
            "type": "object",
            "properties": {
                "view_count": {"type": "integer"},
                "sessions": {"type": "integer"},
                "recently_viewed": {"type": "boolean"},
                "last_viewed": {"type": "string"}
            }
        },
        "dto.TrendingArticleDTO": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/dto.ArticleDTO"}],
            "properties": {"trending_score": {"type": "number"}, "recent_views": {"type": "integer"}}
        },
        "dto.PopularArticleDTO": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/dto.ArticleDTO"}],
            "properties": {"popularity_score": {"type": "integer"}, "view_count": {"type": "integer"}}
        },
        "dto.RelatedArticleDTO": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/dto.ArticleDTO"}],
            "properties": {"score": {"type": "number"}}
        },
        "dto.LastViewedDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "category": {"type": "string"},
                "path": {"type": "string"},
                "viewed_at": {"type": "string"},
                "thumbnail": {"type": "string"}
            }
        },
        "dto.CategoryDTO": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "count": {"type": "integer"}, "path": {"type": "string"}}
        },
        "dto.RouteDTO": {
            "type": "object",
            "properties": {
                "page": {"type": "string", "example": "article"},
                "name": {"type": "string"},
                "path": {"type": "string"},
                "static": {"type": "string"},
                "tag": {"type": "string"},
                "category": {"type": "string"},
                "slug": {"type": "string"},
                "page_num": {"type": "string"},
                "query": {"type": "object", "additionalProperties": {"type": "string"}},
                "not_found": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Anime News API",
	Description:      "Article listings, per-visitor view tracking and route resolution for the anime news portal",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
