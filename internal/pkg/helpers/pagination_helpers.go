package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*size inside a 32-bit int
	MaxPage         = math.MaxInt32 / MaxPageSize
)

// PageRequest is a 1-based page number and a page size, both already clamped
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps page and size into the accepted range
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// ParsePageRequest reads ?page= and ?size= (alias ?limit=). Bad values fall back to defaults.
func ParsePageRequest(c *gin.Context) PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))

	sizeStr := c.Query("size")
	if sizeStr == "" {
		sizeStr = c.Query("limit")
	}
	size, _ := strconv.Atoi(sizeStr)

	return NewPageRequest(page, size)
}

// OffsetLimit converts the page into SQL offset and limit
func (p PageRequest) OffsetLimit() (offset, limit uint64) {
	return uint64((p.Page - 1) * p.Size), uint64(p.Size)
}

// Info builds the pagination block of a list response. An empty result still has one page.
func (p PageRequest) Info(totalItems int64) dto.PaginationInfo {
	totalPages := 1
	if totalItems > 0 {
		totalPages = int((totalItems + int64(p.Size) - 1) / int64(p.Size))
	}
	return dto.PaginationInfo{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		PageSize:    p.Size,
		TotalItems:  totalItems,
	}
}
