package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rohits-web03/notely/internal/api/middleware"
	"github.com/rohits-web03/notely/internal/api/services"
	"github.com/rohits-web03/notely/internal/models"
	"github.com/rohits-web03/notely/internal/utils"
)

type addNoteInput struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Tags    json.RawMessage `json:"tags" swaggertype:"array,string"`
}

type editNoteInput struct {
	Title    *string         `json:"title"`
	Content  *string         `json:"content"`
	Tags     json.RawMessage `json:"tags" swaggertype:"array,string"`
	IsPinned *bool           `json:"isPinned"`
}

type pinInput struct {
	IsPinned *bool `json:"isPinned"`
}

// POST /add-note
// AddNote godoc
// @Summary Create a note
// @Description Accepts JSON, or multipart/form-data with tags as a JSON-encoded string and an optional image (≤10 MiB).
// @Tags Notes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param tags formData string false "JSON array of tags"
// @Param image formData file false "Image attachment"
// @Success 200 {object} utils.Payload "Note added successfully"
// @Failure 400 {object} utils.Payload "Title is required / Content is required"
// @Failure 413 {object} utils.Payload "Upload too large"
// @Router /add-note [post]
func (h *Handlers) AddNote(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	var in services.NewNote
	if isMultipart(r) {
		if !h.parseMultipart(w, r) {
			return
		}
		in.Title = r.FormValue("title")
		in.Content = r.FormValue("content")
		in.TagsJSON = r.FormValue("tags")

		file, closeFile, err := formImage(r)
		if err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid image upload")
			return
		}
		defer closeFile()
		in.Image = file
	} else {
		var body addNoteInput
		if err := decodeJSON(r, &body); err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
			return
		}
		in.Title, in.Content = body.Title, body.Content
		in.Tags, in.TagsJSON = splitTags(body.Tags)
	}

	note, err := h.notes.AddNote(r.Context(), p, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Note:    note,
		Message: "Note added successfully",
	})
}

// PUT /edit-note/{noteId}
// EditNote godoc
// @Summary Partially update a note
// @Description Only fields present in the request are changed. An image part replaces the attachment.
// @Tags Notes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Param body body editNoteInput false "Fields to change"
// @Success 200 {object} utils.Payload "Note Updated successfully"
// @Failure 400 {object} utils.Payload "No changes provided"
// @Failure 404 {object} utils.Payload "Note not found"
// @Router /edit-note/{noteId} [put]
func (h *Handlers) EditNote(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	var (
		patch models.NotePatch
		image *services.Upload
		err   error
	)
	if isMultipart(r) {
		if !h.parseMultipart(w, r) {
			return
		}
		patch, err = formPatch(r.MultipartForm)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		var closeFile func()
		image, closeFile, err = formImage(r)
		if err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid image upload")
			return
		}
		defer closeFile()
	} else {
		var body editNoteInput
		if err := decodeJSON(r, &body); err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
			return
		}
		patch = models.NotePatch{Title: body.Title, Content: body.Content, IsPinned: body.IsPinned}
		if patch.Tags, err = patchTags(body.Tags); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	note, err := h.notes.EditNote(r.Context(), p, r.PathValue("noteId"), patch, image)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Note:    note,
		Message: "Note Updated successfully",
	})
}

// GET /get-all-notes
// GetAllNotes godoc
// @Summary List the caller's notes
// @Description Pinned notes first, newest first within each group.
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload "All notes are retrieved successfully"
// @Router /get-all-notes [get]
func (h *Handlers) GetAllNotes(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Notes:   notes,
		Message: "All notes are retrieved successfully",
	})
}

// DELETE /delete-note/{noteId}
// DeleteNote godoc
// @Summary Delete a note
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Success 200 {object} utils.Payload "Note deleted successfully"
// @Failure 404 {object} utils.Payload "Note not found"
// @Router /delete-note/{noteId} [delete]
func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notes.DeleteNote(r.Context(), p, r.PathValue("noteId")); err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Message: "Note deleted successfully",
	})
}

// PUT /update-note-pinned/{noteId}
// UpdateNotePinned godoc
// @Summary Pin or unpin a note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Param body body pinInput true "Pin flag"
// @Success 200 {object} utils.Payload "Note Updated successfully"
// @Failure 400 {object} utils.Payload "isPinned is required"
// @Failure 404 {object} utils.Payload "Note not found"
// @Router /update-note-pinned/{noteId} [put]
func (h *Handlers) UpdateNotePinned(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body pinInput
	if err := decodeJSON(r, &body); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	note, err := h.notes.SetPinned(r.Context(), p, r.PathValue("noteId"), body.IsPinned)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Note:    note,
		Message: "Note Updated successfully",
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart writes the error response itself and reports whether the
// handler may continue.
func (h *Handlers) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(MaxUploadSize)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return false
	}
	utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
	return false
}

// formImage returns the optional "image" part. The returned func closes it.
func formImage(r *http.Request) (*services.Upload, func(), error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &services.Upload{Body: file, Filename: header.Filename}, func() { _ = file.Close() }, nil
}

// formPatch builds a patch from the form fields that were actually sent.
func formPatch(form *multipart.Form) (models.NotePatch, error) {
	var patch models.NotePatch
	if v, ok := formValue(form, "title"); ok {
		patch.Title = &v
	}
	if v, ok := formValue(form, "content"); ok {
		patch.Content = &v
	}
	if v, ok := formValue(form, "tags"); ok && v != "" {
		tags, err := services.ParseTags(v)
		if err != nil {
			return patch, err
		}
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}
	if v, ok := formValue(form, "isPinned"); ok {
		pinned, err := strconv.ParseBool(v)
		if err != nil {
			return patch, &services.ValidationError{Message: "isPinned must be true or false"}
		}
		patch.IsPinned = &pinned
	}
	return patch, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// splitTags accepts tags as a JSON array or as a string holding one.
// Anything else is handed on as text so the service rejects it.
func splitTags(raw json.RawMessage) ([]string, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ""
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		if tags == nil {
			tags = []string{}
		}
		return tags, ""
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return nil, encoded
	}
	return nil, string(raw)
}

// patchTags returns nil when tags were absent, null or an empty string.
func patchTags(raw json.RawMessage) (*[]string, error) {
	tags, encoded := splitTags(raw)
	if tags == nil && encoded == "" {
		return nil, nil
	}
	if tags == nil {
		parsed, err := services.ParseTags(encoded)
		if err != nil {
			return nil, err
		}
		tags = parsed
		if tags == nil {
			tags = []string{}
		}
	}
	return &tags, nil
}
