package request

import (
	"math"
	"strconv"

	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/gofiber/fiber/v2"
)

const invalidPagination = "Invalid pagination parameters"

type PageQuery struct {
	Page  int
	Limit int
}

// ParsePage reads the page and limit query parameters. Page is 1-based.
func ParsePage(c *fiber.Ctx, defaultLimit int) (PageQuery, error) {
	q := PageQuery{Page: 1, Limit: defaultLimit}
	verr := &ValidationError{Message: invalidPagination}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr.add("page", "must be a positive integer")
		} else {
			q.Page = n
		}
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > common.MaxPageSize {
			verr.add("limit", "must be an integer between 1 and %d", common.MaxPageSize)
		} else {
			q.Limit = n
		}
	}
	if q.Limit > 0 && q.Page-1 > math.MaxInt/q.Limit {
		verr.add("page", "is too large for limit %d", q.Limit)
	}
	return q, verr.orNil()
}
