package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
)

type UploadHandler struct {
	store ports.ObjectStore
	log   zerolog.Logger
}

func NewUploadHandler(store ports.ObjectStore, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

// Upload streams a multipart file to object storage.
//
// @Summary      Upload a file
// @Tags         upload
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  detailResponse
// @Failure      500   {object}  detailResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error().Err(err).Str("file", fh.Filename).Msg("open uploaded file")
		return domain.ErrUploadFailed
	}
	defer f.Close()

	url, err := h.store.Upload(c.Request().Context(), fh.Filename, f, fh.Size, fh.Header.Get(echo.HeaderContentType))
	if err != nil {
		h.log.Error().Err(err).Str("file", fh.Filename).Msg("upload failed")
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	return c.JSON(http.StatusCreated, uploadResponse{
		Detail:  "Successfully upload " + fh.Filename,
		FileURL: url,
	})
}
