package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/config"
	"github.com/guidio/guidio-api/internal/middleware"
	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/service"
	"github.com/guidio/guidio-api/internal/utils"
)

// UserHandler serves profession lookups, instructor listings and profile CRUD.
type UserHandler struct {
	Cfg         config.Config
	Users       *repository.UserRepo
	Details     *repository.UserDetailRepo
	Professions *repository.ProfessionRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, d *repository.UserDetailRepo, p *repository.ProfessionRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Details: d, Professions: p}
}

type detailPart struct {
	Bio          string  `json:"bio"`
	ProfessionID *uint64 `json:"profession_id"`
	IsInstructor bool    `json:"is_instructor"`
	Avatar       string  `json:"avatar"`
	CoverImage   string  `json:"cover_image"`
}

type profileResp struct {
	userPart
	Details detailPart `json:"details"`
}

func newProfileResp(u *model.User, d *model.UserDetail) profileResp {
	resp := profileResp{userPart: newUserPart(u)}
	if d != nil {
		resp.Details = detailPart{
			Bio:          d.Bio,
			ProfessionID: d.ProfessionID,
			IsInstructor: d.IsInstructor,
			Avatar:       d.Avatar,
			CoverImage:   d.CoverImage,
		}
	}
	return resp
}

// GetProfessions searches the profession codebook by name fragment.
func (h *UserHandler) GetProfessions(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	professions, err := h.Professions.SearchByName(ctx, name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, professions)
}

// GetInstructors lists active instructor profiles, paginated.
func (h *UserHandler) GetInstructors(c echo.Context) error {
	return h.listInstructors(c, "")
}

// SearchInstructors lists instructors matching a name/profession fragment.
func (h *UserHandler) SearchInstructors(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))
	if search == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "search required"})
	}
	return h.listInstructors(c, search)
}

func (h *UserHandler) listInstructors(c echo.Context, search string) error {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	rows, total, err := h.Users.ListInstructors(ctx, repository.InstructorQuery{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return writeError(c, err)
	}

	pages := pageCount(total, pageSize)
	if pages > 0 && page > pages {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "requested a non-existent page"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"pages": pages,
		"users": rows,
	})
}

// GetUserProfile returns a public profile by id.
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return writeError(c, service.ErrNotFound)
	}

	details, err := h.Details.GetByUserID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProfileResp(user, details))
}

type profileUpdateReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Details   struct {
		Bio          string  `json:"bio"`
		ProfessionID *uint64 `json:"profession_id"`
		IsInstructor bool    `json:"is_instructor"`
	} `json:"details"`
}

// UpdateUserProfile updates name and detail fields. Only the profile owner
// may update it.
func (h *UserHandler) UpdateUserProfile(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user := middleware.SessionUser(c)
	if user == nil || user.ID != id {
		return writeError(c, service.ErrUnauthorized)
	}

	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if req.Details.ProfessionID != nil {
		profession, err := h.Professions.GetByID(ctx, *req.Details.ProfessionID)
		if err != nil {
			return writeError(c, err)
		}
		if profession == nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "profession doesn't exist"})
		}
	}

	if err := h.Users.UpdateName(ctx, id, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return writeError(c, err)
	}
	if err := h.Details.Update(ctx, id, req.Details.Bio, req.Details.ProfessionID, req.Details.IsInstructor); err != nil {
		return writeError(c, err)
	}

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil || updated == nil {
		return writeError(c, err)
	}
	details, err := h.Details.GetByUserID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProfileResp(updated, details))
}

// DeleteUserProfile removes the account (details and guides cascade) and
// clears the session cookie.
func (h *UserHandler) DeleteUserProfile(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user := middleware.SessionUser(c)
	if user == nil || user.ID != id {
		return writeError(c, service.ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.NoContent(http.StatusNoContent)
}

type passwordUpdateReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword replaces the user's password after verifying the current one.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user := middleware.SessionUser(c)
	if user == nil || user.ID != id {
		return writeError(c, service.ErrUnauthorized)
	}

	var req passwordUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid password"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newUserPart(user))
}
