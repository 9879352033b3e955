package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/notely/internal/repositories"
	"github.com/rohits-web03/notely/internal/utils"
)

// GET /uploads/{file}
// ServeUpload godoc
// @Summary Fetch a note attachment
// @Description Served from disk, or redirected to a short-lived presigned URL when attachments live in object storage.
// @Tags Uploads
// @Param file path string true "File name"
// @Success 200
// @Success 307
// @Failure 404
// @Router /uploads/{file} [get]
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	loc, err := h.attachments.Locate(r.Context(), r.PathValue("file"))
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if loc.URL != "" {
		http.Redirect(w, r, loc.URL, http.StatusTemporaryRedirect)
		return
	}
	http.ServeFile(w, r, loc.LocalPath)
}

// GET /
// Home godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Home(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"data": "hello"})
}
