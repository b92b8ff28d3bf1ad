package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/helpers"
)

// pageParams reads ?page= and ?size= into repository list options
func pageParams(ctx *gin.Context) (helpers.PageRequest, repositories.ListOptions) {
	page := helpers.ParsePageRequest(ctx)
	offset, limit := page.OffsetLimit()
	return page, repositories.ListOptions{Offset: offset, Limit: limit}
}

// respondPage writes one page of items in the standard envelope
func respondPage(ctx *gin.Context, items interface{}, total int64, page helpers.PageRequest, message string) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: page.Info(total),
	}, message))
}
