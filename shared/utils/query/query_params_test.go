package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseListParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params := ParseListParams(testContext(""))

		assert.Equal(t, 1, params.Page)
		assert.Equal(t, defaultPageSize, params.Limit)
		assert.Equal(t, "desc", params.SortDir)
		assert.Empty(t, params.Filters)
	})

	t.Run("clamps limit and page", func(t *testing.T) {
		params := ParseListParams(testContext("page=-3&limit=9999"))

		assert.Equal(t, 1, params.Page)
		assert.Equal(t, maxPageSize, params.Limit)
	})

	t.Run("reads whitelisted filter keys only", func(t *testing.T) {
		params := ParseListParams(testContext("status=NEW&owner_id=abc&rogue=1"), "status", "owner_id")

		assert.Equal(t, "NEW", params.Filters["status"])
		assert.Equal(t, "abc", params.Filters["owner_id"])
		assert.NotContains(t, params.Filters, "rogue")
	})

	t.Run("normalizes sort direction", func(t *testing.T) {
		params := ParseListParams(testContext("sort_dir=ASC"))
		assert.Equal(t, "asc", params.SortDir)

		params = ParseListParams(testContext("sort_dir=sideways"))
		assert.Equal(t, "desc", params.SortDir)
	})
}

func TestMeta(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		meta := Meta(ListParams{Page: 2, Limit: 20}, 45)

		assert.Equal(t, int64(45), meta.Total)
		assert.Equal(t, int64(3), meta.TotalPages)
		assert.True(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("last page", func(t *testing.T) {
		meta := Meta(ListParams{Page: 3, Limit: 20}, 45)

		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		meta := Meta(ListParams{Page: 1, Limit: 20}, 0)

		assert.Equal(t, int64(0), meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})
}
