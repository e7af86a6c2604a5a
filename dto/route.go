package dto

import "anime-news/routing"

// RouteDTO describes which page the front-end mounts for a URL.
type RouteDTO struct {
	Page     string            `json:"page" example:"article"`
	Name     string            `json:"name" example:"article"`
	Path     string            `json:"path" example:"/anime/some-slug"`
	Static   string            `json:"static,omitempty"`
	Tag      string            `json:"tag,omitempty"`
	Category string            `json:"category,omitempty" example:"anime"`
	Slug     string            `json:"slug,omitempty" example:"some-slug"`
	PageNum  string            `json:"page_num,omitempty"`
	Query    map[string]string `json:"query,omitempty"`
	NotFound bool              `json:"not_found"`
}

func NewRouteDTO(r routing.Route) RouteDTO {
	return RouteDTO{
		Page:     string(r.Page),
		Name:     r.Name,
		Path:     r.Path,
		Static:   r.Static,
		Tag:      r.Tag,
		Category: r.Category,
		Slug:     r.Slug,
		PageNum:  r.PageNum,
		Query:    r.Query,
		NotFound: r.Page == routing.PageNotFound,
	}
}
