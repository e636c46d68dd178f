package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/model"
)

// dbTimeout bounds every database round trip issued from a handler.
const dbTimeoutSec = 5

// parsePagination reads page/page_size query parameters with the listing
// defaults: page >= 1, page_size 1..100 defaulting to 50.
func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// pageCount derives the number of pages from a total row count.
func pageCount(total int64, pageSize int) int {
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// baseURL reconstructs the scheme://host prefix of the current request, used
// when building the verification link embedded in activation emails.
func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}

type userPart struct {
	ID        uint64 `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func newUserPart(u *model.User) userPart {
	return userPart{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
