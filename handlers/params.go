package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// listParams reads the common q/limit/page query parameters. Page is
// 1-based; anything below 1 is treated as page 1 so the offset is never
// negative.
func listParams(c *gin.Context, defaultLimit int) (search string, limit, offset int) {
	search = c.Query("q")

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	offset = (page - 1) * limit
	return search, limit, offset
}
