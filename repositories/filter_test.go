package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"anime-news/catalog"
)

func TestFilterForEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, filterFor(catalog.ListOptions{}))
}

func TestFilterForCategoryAndTag(t *testing.T) {
	f := filterFor(catalog.ListOptions{Category: "anime", Tag: "one.piece"})
	and, ok := f["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)

	or := and[0]["$or"].([]bson.M)
	assert.Equal(t, primitive.Regex{Pattern: "^anime$", Options: "i"}, or[0]["category"])
	assert.Equal(t, primitive.Regex{Pattern: "^anime$", Options: "i"}, or[1]["categories"])
	assert.Equal(t, primitive.Regex{Pattern: `^one\.piece$`, Options: "i"}, and[1]["tags"])
}
