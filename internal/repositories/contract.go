package repositories

import (
	"context"
	"io"

	"github.com/rohits-web03/notely/internal/models"
)

type (
	UserRepository interface {
		// CreateUser assigns u.ID. A store that enforces unique emails returns ErrDuplicate.
		CreateUser(ctx context.Context, u *models.User) error
		FindUserByEmail(ctx context.Context, email string) (*models.User, error)
		FindUserByID(ctx context.Context, id string) (*models.User, error)
	}

	// NoteRepository only offers owner-scoped access. Every lookup, update and
	// delete filters on both the note id and the owner id; a note owned by
	// someone else is indistinguishable from a missing one (ErrNotFound).
	NoteRepository interface {
		// CreateNote assigns n.ID.
		CreateNote(ctx context.Context, n *models.Note) error
		FindNote(ctx context.Context, userID, noteID string) (*models.Note, error)
		// UpdateNote writes title, content, tags, isPinned and image of the note
		// matching (n.ID, n.UserID). There is no version check: last write wins.
		UpdateNote(ctx context.Context, n *models.Note) error
		DeleteNote(ctx context.Context, userID, noteID string) error
		// ListNotes returns pinned notes first, newest first within each group.
		ListNotes(ctx context.Context, userID string) ([]models.Note, error)
	}

	Store interface {
		UserRepository
		NoteRepository
		Close(ctx context.Context) error
	}

	// Location tells the HTTP layer how to hand a stored attachment back:
	// either a file on local disk or a (presigned) URL to redirect to.
	Location struct {
		LocalPath string
		URL       string
	}

	AttachmentStore interface {
		// Store saves the upload under a timestamp-derived name that keeps the
		// extension of originalName and returns the path recorded on the note.
		Store(ctx context.Context, r io.Reader, originalName string) (string, error)
		// Remove deletes a path previously returned by Store. Missing files are not an error.
		Remove(ctx context.Context, path string) error
		// Locate resolves the final path segment served under /uploads/.
		Locate(ctx context.Context, name string) (Location, error)
	}
)
