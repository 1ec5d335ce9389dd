package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int { return (p.Number - 1) * p.Limit }

// ParsePage reads ?page= and ?limit= falling back to page 1 and defaultLimit.
func ParsePage(c *gin.Context, defaultLimit int) Page {
	p := Page{Number: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		CurrentPage:  p.Number,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNextPage:  p.Number < pages,
		HasPrevPage:  p.Number > 1,
	}
}
