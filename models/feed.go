package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed is an RSS/Atom source ingested into the article catalog.
// Collection: feeds
type Feed struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	URL           string             `bson:"url" json:"url"`
	Category      string             `bson:"category" json:"category"`
	Lang          string             `bson:"lang" json:"lang"`
	LastFetchedAt time.Time          `bson:"last_fetched_at,omitempty" json:"last_fetched_at"`
	LastInserted  int                `bson:"last_inserted" json:"last_inserted"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
