// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationQuery holds pagination parameters from request query.
type PaginationQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// GetPaginationParams extracts pagination parameters from Gin context.
func GetPaginationParams(c *gin.Context) PaginationQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page <= 0 {
		page = DefaultPage
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PaginationQuery{Page: page, PageSize: pageSize}
}

// Offset calculates the offset for database queries.
func (pq PaginationQuery) Offset() int {
	page := pq.Page
	if page <= 0 {
		page = DefaultPage
	}
	return (page - 1) * pq.Limit()
}

// Limit calculates the limit for database queries.
func (pq PaginationQuery) Limit() int {
	switch {
	case pq.PageSize <= 0:
		return DefaultPageSize
	case pq.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return pq.PageSize
}
