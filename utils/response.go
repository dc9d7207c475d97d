package utils

import (
	"github.com/kataras/iris/v12"
)

// Pagination is the envelope every paged endpoint returns.
type Pagination struct {
	Current      int   `json:"current"`
	Total        int   `json:"total"`
	Count        int   `json:"count"`
	TotalRecords int64 `json:"totalRecords"`
}

// NewPagination computes page math for a result slice of length count.
func NewPagination(page, limit, count int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Current: page, Total: pages, Count: count, TotalRecords: total}
}

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	JSONError(ctx, iris.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
}

func CreateNotFound(ctx iris.Context, what string) {
	JSONError(ctx, iris.StatusNotFound, what+" not found", what+" not found")
}
