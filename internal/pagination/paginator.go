package pagination

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

const defaultLimit = 10

var maxLimit atomic.Int64

func init() {
	maxLimit.Store(1000)
}

// SetMaxLimit sets the hard cap applied to every limit parameter (config MAX_LIMIT).
func SetMaxLimit(n int) {
	if n > 0 {
		maxLimit.Store(int64(n))
	}
}

func MaxLimit() int {
	return int(maxLimit.Load())
}

// Pagination holds pagination parameters and metadata
type Pagination struct {
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
	Page     int   `json:"page"`
	MaxLimit int   `json:"maxLimit"`
	Total    int64 `json:"total,omitempty"`
}

// Meta is the "pagination" object of list responses.
func (p Pagination) Meta(total int64) gin.H {
	return gin.H{"total": total, "limit": p.Limit, "page": p.Page, "max_limit": p.MaxLimit}
}

// ParsePagination reads query params `limit` and `page`, capped at MaxLimit.
// Defaults: limit=10, page=1. Invalid values answer 400 and abort the context.
func ParsePagination(c *gin.Context) Pagination {
	max := MaxLimit()

	limit := defaultLimit
	if ls := c.Query("limit"); ls != "" {
		v, err := strconv.Atoi(ls)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid limit parameter"})
			c.Abort()
			return Pagination{}
		}
		limit = v
	}
	if limit > max {
		limit = max
	}

	page := 1
	if ps := c.Query("page"); ps != "" {
		v, err := strconv.Atoi(ps)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid page parameter"})
			c.Abort()
			return Pagination{}
		}
		page = v
	}

	return Pagination{Limit: limit, Offset: (page - 1) * limit, Page: page, MaxLimit: max}
}

// ParseOptionalLimit reads `limit` for endpoints that return everything by default.
// It returns 0 when the param is absent. On an invalid value it answers 400 and returns false.
func ParseOptionalLimit(c *gin.Context) (int, bool) {
	ls := c.Query("limit")
	if ls == "" {
		return 0, true
	}
	v, err := strconv.Atoi(ls)
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid limit parameter"})
		c.Abort()
		return 0, false
	}
	if max := MaxLimit(); v > max {
		v = max
	}
	return v, true
}
