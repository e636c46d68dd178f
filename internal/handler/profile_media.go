package handler

// profile_media.go implements avatar and cover-image CRUD. Files land under
// MEDIA_ROOT and only their URL path is stored in user_details; the /media
// route serves them statically.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/middleware"
	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/service"
)

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// GetAvatar returns a user's avatar URL. Public, like the profile itself.
func (h *UserHandler) GetAvatar(c echo.Context) error {
	return h.getImage(c, "avatar", func(d *model.UserDetail) string { return d.Avatar })
}

// UploadAvatar stores a new avatar for the current user. POST and PUT behave
// identically: the file is replaced in place.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	return h.uploadImage(c, "avatars", h.Details.SetAvatar)
}

// DeleteAvatar removes the current user's avatar.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	return h.deleteImage(c, "avatar",
		func(d *model.UserDetail) string { return d.Avatar }, h.Details.SetAvatar)
}

// GetCoverImage returns a user's cover image URL. Public.
func (h *UserHandler) GetCoverImage(c echo.Context) error {
	return h.getImage(c, "cover image", func(d *model.UserDetail) string { return d.CoverImage })
}

// UploadCoverImage stores a new cover image for the current user.
func (h *UserHandler) UploadCoverImage(c echo.Context) error {
	return h.uploadImage(c, "covers", h.Details.SetCoverImage)
}

// DeleteCoverImage removes the current user's cover image.
func (h *UserHandler) DeleteCoverImage(c echo.Context) error {
	return h.deleteImage(c, "cover image",
		func(d *model.UserDetail) string { return d.CoverImage }, h.Details.SetCoverImage)
}

func (h *UserHandler) getImage(c echo.Context, label string, pick func(*model.UserDetail) string) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	details, err := h.Details.GetByUserID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	url := ""
	if details != nil {
		url = pick(details)
	}
	if url == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": label + " not found"})
	}
	key := strings.ReplaceAll(label, " ", "_")
	return c.JSON(http.StatusOK, echo.Map{key: url})
}

func (h *UserHandler) uploadImage(c echo.Context, subdir string, store func(context.Context, uint64, string) error) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user := middleware.SessionUser(c)
	if user == nil || user.ID != id {
		return writeError(c, service.ErrUnauthorized)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}

	src, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer src.Close()

	dir := filepath.Join(h.Cfg.MediaRoot, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("user_%d%s", user.ID, ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return writeError(c, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	url := "/media/" + subdir + "/" + name
	if err := store(ctx, user.ID, url); err != nil {
		return writeError(c, err)
	}

	status := http.StatusCreated
	if c.Request().Method == http.MethodPut {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{"url": url})
}

func (h *UserHandler) deleteImage(c echo.Context, label string, pick func(*model.UserDetail) string, store func(context.Context, uint64, string) error) error {
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

	details, err := h.Details.GetByUserID(ctx, user.ID)
	if err != nil {
		return writeError(c, err)
	}
	url := ""
	if details != nil {
		url = pick(details)
	}
	if url == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": label + " not found"})
	}

	if err := store(ctx, user.ID, ""); err != nil {
		return writeError(c, err)
	}
	// The row is already cleared; a stale file on disk is harmless.
	_ = os.Remove(filepath.Join(h.Cfg.MediaRoot, strings.TrimPrefix(url, "/media/")))

	return c.NoContent(http.StatusNoContent)
}
