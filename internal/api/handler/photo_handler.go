package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// PhotoHandler streams stored photo binaries.
type PhotoHandler struct {
	store ports.ObjectStore
}

func NewPhotoHandler(store ports.ObjectStore) *PhotoHandler {
	return &PhotoHandler{store: store}
}

// Content handles GET /v1/photos/:id/content: streams the photo binary with
// the content type recorded at upload time.
//
// @Summary      Download a photo
// @Tags         photos
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id  path  string  true  "Photo object id"
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/photos/{id}/content [get]
func (h *PhotoHandler) Content(c echo.Context) error {
	stream, contentType, err := h.store.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer stream.Close()

	return c.Stream(http.StatusOK, contentType, stream)
}
