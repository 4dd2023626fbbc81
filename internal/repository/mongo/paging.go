package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// regexEscape neutralizes regex metacharacters in user-supplied search terms
// before they are embedded in a $regex filter.
func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}

const (
	defaultPageSize    = 20
	defaultLogPageSize = 50
	maxPageSize        = 100
)

// applyPaging sets skip/limit on findOptions from a 1-based page number and
// page size, clamping unreasonable values. fallback is the collection's
// default page size, used when the caller supplied none.
func applyPaging(findOptions *options.FindOptions, page, pageSize, fallback int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = fallback
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	findOptions.SetSkip(int64((page - 1) * pageSize))
	findOptions.SetLimit(int64(pageSize))
}

// sortFromOrdering translates an API ordering parameter ("field" ascending,
// "-field" descending) to a bson sort document, consulting a per-collection
// whitelist of field name -> bson key. Unknown fields fall back to the
// provided default so a bad query parameter cannot hit an unindexed sort.
func sortFromOrdering(ordering string, allowed map[string]string, fallback bson.D) bson.D {
	if ordering == "" {
		return fallback
	}
	direction := 1
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = -1
		field = ordering[1:]
	}
	key, ok := allowed[field]
	if !ok {
		return fallback
	}
	return bson.D{{Key: key, Value: direction}}
}
