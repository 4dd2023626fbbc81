package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListResponse is the envelope for every paginated collection endpoint.
type ListResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

// pathObjectID parses the :id path parameter. On failure it writes a 404
// (a malformed ID can never name an existing resource) and returns false.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Resource not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryPaging reads page/page_size query parameters. Values that fail to
// parse fall back to defaults; bounds are enforced in the repository layer.
func queryPaging(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

// queryObjectID reads an optional ObjectID query parameter; a present but
// malformed value is reported via ok=false with the response already written.
func queryObjectID(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return nil, false
	}
	return &id, true
}

// queryDate reads an optional RFC 3339 date or datetime query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter, expected RFC 3339 date")
			return nil, false
		}
	}
	return &t, true
}
