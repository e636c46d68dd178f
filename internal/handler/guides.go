package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/middleware"
	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/queue"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/service"
)

// GuideHandler serves guide listing, search and authoring. Mutations are
// restricted to instructor accounts; edits and deletes to the guide's author.
type GuideHandler struct {
	Guides  *repository.GuideRepo
	Details *repository.UserDetailRepo
	Publish service.ActivityPublisher // nil disables event publishing
}

func NewGuideHandler(g *repository.GuideRepo, d *repository.UserDetailRepo, publish service.ActivityPublisher) *GuideHandler {
	return &GuideHandler{Guides: g, Details: d, Publish: publish}
}

type guideReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type guideResp struct {
	ID           uint64 `json:"guide_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	LastModified string `json:"last_modified"`
	UserID       uint64 `json:"user_id"`
}

func newGuideResp(g *model.Guide) guideResp {
	return guideResp{
		ID:           g.ID,
		Title:        g.Title,
		Content:      g.Content,
		LastModified: g.LastModified.UTC().Format("2006-01-02 15:04:05"),
		UserID:       g.UserID,
	}
}

// List returns one page of guides ordered by last_modified. Public; fronted
// by the response cache.
func (h *GuideHandler) List(c echo.Context) error {
	return h.list(c, "")
}

// Search narrows the listing to guides whose title contains the fragment.
func (h *GuideHandler) Search(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	return h.list(c, title)
}

func (h *GuideHandler) list(c echo.Context, title string) error {
	page, pageSize := parsePagination(c)
	order := strings.ToLower(strings.TrimSpace(c.QueryParam("order")))
	if order != "asc" {
		order = "desc"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	rows, total, err := h.Guides.List(ctx, repository.GuideQuery{
		Title:    title,
		Order:    order,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return writeError(c, err)
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guides not found"})
	}

	pages := pageCount(total, pageSize)
	if page > pages {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "requested a non-existent page"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"pages":  pages,
		"guides": rows,
	})
}

// Get returns a single guide by id.
func (h *GuideHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	guide, err := h.Guides.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if guide == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
	}
	return c.JSON(http.StatusOK, newGuideResp(guide))
}

// Create publishes a new guide authored by the current user. Instructor
// accounts only.
func (h *GuideHandler) Create(c echo.Context) error {
	user := middleware.SessionUser(c)
	if user == nil {
		return writeError(c, service.ErrUnauthorized)
	}

	var req guideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if err := h.requireInstructor(ctx, user.ID); err != nil {
		return writeError(c, err)
	}

	id, err := h.Guides.Create(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	guide, err := h.Guides.GetByID(ctx, id)
	if err != nil || guide == nil {
		return writeError(c, err)
	}

	if h.Publish != nil {
		_ = h.Publish(c.Request().Context(), queue.AccountActivityEvent{
			Type:       queue.EventGuidePublished,
			UserID:     user.ID,
			Email:      user.Email,
			GuideID:    guide.ID,
			GuideTitle: guide.Title,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, newGuideResp(guide))
}

// Update rewrites a guide. Only the author may update, and only while they
// remain an instructor.
func (h *GuideHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	user := middleware.SessionUser(c)
	if user == nil {
		return writeError(c, service.ErrUnauthorized)
	}

	var req guideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	guide, err := h.Guides.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if guide == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
	}
	if guide.UserID != user.ID {
		return writeError(c, service.ErrUnauthorized)
	}
	if err := h.requireInstructor(ctx, user.ID); err != nil {
		return writeError(c, err)
	}

	if err := h.Guides.Update(ctx, id, req.Title, req.Content); err != nil {
		return writeError(c, err)
	}
	updated, err := h.Guides.GetByID(ctx, id)
	if err != nil || updated == nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newGuideResp(updated))
}

// Delete removes a guide. Author only.
func (h *GuideHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	user := middleware.SessionUser(c)
	if user == nil {
		return writeError(c, service.ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	guide, err := h.Guides.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if guide == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
	}
	if guide.UserID != user.ID {
		return writeError(c, service.ErrUnauthorized)
	}

	if err := h.Guides.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// requireInstructor checks the caller's detail record for the instructor flag.
func (h *GuideHandler) requireInstructor(ctx context.Context, userID uint64) error {
	details, err := h.Details.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if details == nil || !details.IsInstructor {
		return repository.ErrForbidden
	}
	return nil
}
