package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
	"github.com/bookwyrm/bookshelf-system/internal/core/service"
)

// UploadHandler stores a standalone image on the media store and returns its
// public URL. Used by clients that upload before composing a post.
type UploadHandler struct {
	media ports.MediaStore
}

func NewUploadHandler(media ports.MediaStore) *UploadHandler {
	return &UploadHandler{media: media}
}

// Upload stores a base64 image.
//
// @Summary      Upload an image
// @Tags         upload
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadRequest  true  "Base64 data URI"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      502   {object}  apiResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Image data is required")
	}

	data, contentType, err := service.DecodeImage(req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image data is not valid base64")
	}

	url, object, err := h.media.Upload(c.Request().Context(), data, contentType)
	if err != nil {
		return domain.ErrUploadFailed
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Image uploaded successfully",
		Data:    uploadData{URL: url, Object: object},
	})
}
