package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohits-web03/notely/internal/api/middleware"
	"github.com/rohits-web03/notely/internal/api/services"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/repositories"
	"github.com/rohits-web03/notely/internal/utils"
)

// MaxUploadSize caps the body of add-note and edit-note requests.
const MaxUploadSize = 10 << 20 // 10 MiB

type Handlers struct {
	accounts    *services.AccountService
	notes       *services.NoteService
	attachments repositories.AttachmentStore
	google      *services.GoogleProvider
	log         logging.Logger
	secureState bool
}

type Options struct {
	Accounts    *services.AccountService
	Notes       *services.NoteService
	Attachments repositories.AttachmentStore
	// Google is nil when Google sign-in is not configured.
	Google *services.GoogleProvider
	Log    logging.Logger
	// SecureCookies marks the OAuth state cookie Secure.
	SecureCookies bool
}

func New(o Options) *Handlers {
	return &Handlers{
		accounts:    o.Accounts,
		notes:       o.Notes,
		attachments: o.Attachments,
		google:      o.Google,
		log:         o.Log,
		secureState: o.SecureCookies,
	}
}

// fail maps service errors onto the response contract. Anything it does not
// recognise is logged and reported as a bare 500.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ErrorResponse(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrNoteNotFound):
		utils.ErrorResponse(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.ErrorResponse(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid Credentials")
	case errors.Is(err, services.ErrUserExists):
		// 200 with error=true, not 409.
		utils.ErrorResponse(w, http.StatusOK, "User already exists")
	case errors.Is(err, services.ErrUnauthorized):
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.log.Error(r.Context(), "request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
