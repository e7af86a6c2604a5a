package eventbus

// 기본 토픽 이름. 설정(kafka.topic)으로 교체할 수 있다.
var TopicArticleEvents = NewTopic("anime-news.article.events")

const EventTypeArticleViewed = "article.viewed"

// ArticleViewed is published after a visitor's view was counted.
type ArticleViewed struct {
	ArticleID string `json:"article_id"`
	Slug      string `json:"slug"`
	Category  string `json:"category"`
	VisitorID string `json:"visitor_id"`
	// ViewCount is the visitor's own count after this view.
	ViewCount int64 `json:"view_count"`
}
