// Package query holds list-endpoint helpers shared by the services:
// pagination, search and whitelisted filtering over GORM queries.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams carries the parsed list-endpoint query string.
type ListParams struct {
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
	SortBy  string            `json:"sort_by"`
	SortDir string            `json:"sort_dir"`
}

// ListMeta is the pagination block returned alongside list payloads.
type ListMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseListParams reads page/limit/search/sort_by/sort_dir plus any
// filter keys named in filterKeys (e.g. ?status=NEW&owner_id=...).
func ParseListParams(c *gin.Context, filterKeys ...string) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filters := make(map[string]string)
	for _, key := range filterKeys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filters[key] = v
		}
	}

	sortDir := strings.ToLower(c.DefaultQuery("sort_dir", "desc"))
	if sortDir != "asc" && sortDir != "desc" {
		sortDir = "desc"
	}

	return ListParams{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(c.Query("search")),
		Filters: filters,
		SortBy:  c.Query("sort_by"),
		SortDir: sortDir,
	}
}

// Filtered applies the whitelisted equality filters. columns maps a
// query-string key to the database column it may touch; unknown keys
// are ignored.
func Filtered(db *gorm.DB, filters map[string]string, columns map[string]string) *gorm.DB {
	for key, value := range filters {
		if col, ok := columns[key]; ok {
			db = db.Where(fmt.Sprintf("%s = ?", col), value)
		}
	}
	return db
}

// Searched ORs a case-insensitive substring match over the given columns.
func Searched(db *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return db
	}

	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = fmt.Sprintf("%s ILIKE ?", col)
		args[i] = "%" + search + "%"
	}

	return db.Where(strings.Join(clauses, " OR "), args...)
}

// Sorted orders by the requested column when it is whitelisted, otherwise
// falls back to created_at DESC.
func Sorted(db *gorm.DB, params ListParams, columns map[string]string) *gorm.DB {
	if col, ok := columns[params.SortBy]; ok {
		return db.Order(fmt.Sprintf("%s %s", col, strings.ToUpper(params.SortDir)))
	}
	return db.Order("created_at DESC")
}

// Paginated applies the offset/limit window.
func Paginated(db *gorm.DB, params ListParams) *gorm.DB {
	return db.Offset((params.Page - 1) * params.Limit).Limit(params.Limit)
}

// Meta builds the pagination block for a list response.
func Meta(params ListParams, total int64) ListMeta {
	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)
	return ListMeta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < int(totalPages),
		HasPrev:    params.Page > 1,
	}
}
