package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/repository"
)

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

type PageResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// ParsePagination reads ?page and ?pageSize; bad values fall back to defaults.
func ParsePagination(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	return repository.NewPage(page, size)
}

func NewPageResponse(data interface{}, page repository.Page, total int64) PageResponse {
	return PageResponse{
		Data: data,
		Pagination: Pagination{
			CurrentPage: page.Number,
			PageSize:    page.Size,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(page.Size))),
		},
	}
}
