package handler

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/storage"
)

// MediaPrefix — публичный префикс, под которым раздаются загруженные фото.
const MediaPrefix = "/media"

type PhotoStore interface {
	Save(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*storage.StoredPhoto, error)
	MaxUploadBytes() int64
}

type MediaHandler struct {
	store PhotoStore
}

func NewMediaHandler(store PhotoStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// UploadPhoto обрабатывает POST /media/photos (multipart, поле file).
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "файл не может быть пустым")
		return
	}
	if file.Size > h.store.MaxUploadBytes() {
		response.Error(c, apperror.Validation("размер файла превышает лимит"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, apperror.Internal(err, "не удалось открыть файл"))
		return
	}
	defer src.Close()

	stored, err := h.store.Save(c.Request.Context(), userID, src)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		response.Error(c, apperror.Validation("разрешены только изображения jpeg, png, gif, webp"))
		return
	case errors.Is(err, storage.ErrTooLarge):
		response.Error(c, apperror.Validation("размер файла превышает лимит"))
		return
	case err != nil:
		response.Error(c, apperror.Internal(err, "не удалось сохранить файл"))
		return
	}

	response.Created(c, dto.PhotoResponse{
		Path:        path.Join(MediaPrefix, stored.RelativePath),
		ContentType: stored.ContentType,
		Size:        stored.Size,
	})
}
