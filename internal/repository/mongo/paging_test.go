package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestApplyPaging(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		fallback  int
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", 0, 0, defaultPageSize, 0, 20},
		{"log default", 1, 0, defaultLogPageSize, 0, 50},
		{"explicit page", 3, 10, defaultPageSize, 20, 10},
		{"oversized clamped", 1, 500, defaultPageSize, 0, 100},
		{"negative page", -2, 10, defaultPageSize, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findOptions := options.Find()
			applyPaging(findOptions, tt.page, tt.pageSize, tt.fallback)
			require.NotNil(t, findOptions.Skip)
			require.NotNil(t, findOptions.Limit)
			assert.Equal(t, tt.wantSkip, *findOptions.Skip)
			assert.Equal(t, tt.wantLimit, *findOptions.Limit)
		})
	}
}

func TestSortFromOrdering(t *testing.T) {
	allowed := map[string]string{"created_at": "createdAt", "title": "title"}
	fallback := bson.D{{Key: "createdAt", Value: -1}}

	assert.Equal(t, fallback, sortFromOrdering("", allowed, fallback))
	assert.Equal(t, fallback, sortFromOrdering("password", allowed, fallback), "unknown fields fall back")
	assert.Equal(t, bson.D{{Key: "title", Value: 1}}, sortFromOrdering("title", allowed, fallback))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sortFromOrdering("-created_at", allowed, fallback))
}
