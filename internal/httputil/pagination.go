package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultLimit is the page size used when the limit query parameter is absent.
const DefaultLimit = 100

// MaxLimit is the largest page size accepted.
const MaxLimit = 100

// ParsePagination safely parses and validates offset and limit query parameters.
// It uses default values of 0 for offset and DefaultLimit for limit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offsetStr := c.DefaultQuery("offset", "0")
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxLimit)
	}

	return offset, limit, nil
}
