package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/models"
	"github.com/rohits-web03/notely/internal/repositories"
)

// Upload is an attachment received with a request.
type Upload struct {
	Body     io.Reader
	Filename string
}

// NewNote is an add-note request. Tags may arrive already decoded or, from
// multipart forms, as a JSON-encoded array in TagsJSON.
type NewNote struct {
	Title    string
	Content  string
	Tags     []string
	TagsJSON string
	Image    *Upload
}

// ParseTags decodes a JSON-encoded list of tags. An empty string or "null" yields no tags.
func ParseTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("malformed tags: %w", err)
	}
	return tags, nil
}

// NoteService is the only way handlers touch notes. Every call is scoped to
// the principal's user id.
type NoteService struct {
	notes       repositories.NoteRepository
	attachments repositories.AttachmentStore
	recorder    Recorder
	log         logging.Logger
	now         func() time.Time
}

func NewNoteService(notes repositories.NoteRepository, attachments repositories.AttachmentStore, recorder Recorder, log logging.Logger) *NoteService {
	return &NoteService{
		notes:       notes,
		attachments: attachments,
		recorder:    recorder,
		log:         log.With("component", "notes"),
		now:         time.Now,
	}
}

func (s *NoteService) AddNote(ctx context.Context, p auth.Principal, in NewNote) (*models.Note, error) {
	if in.Title == "" {
		return nil, invalid("Title is required")
	}
	if in.Content == "" {
		return nil, invalid("Content is required")
	}

	tags := in.Tags
	if tags == nil {
		var err error
		if tags, err = ParseTags(in.TagsJSON); err != nil {
			return nil, err
		}
	}
	if tags == nil {
		tags = []string{}
	}
	note := &models.Note{
		Title:     in.Title,
		Content:   in.Content,
		Tags:      tags,
		UserID:    p.UserID,
		CreatedOn: s.now(),
	}

	if in.Image != nil {
		path, err := s.attachments.Store(ctx, in.Image.Body, in.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		note.Image = path
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		s.discard(ctx, note.Image)
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.recorder.NoteCreated()
	s.log.Debug(ctx, "note created", "note_id", note.ID, "user_id", p.UserID)
	return note, nil
}

// EditNote applies the fields present in patch. image, when not nil,
// replaces the note's attachment.
func (s *NoteService) EditNote(ctx context.Context, p auth.Principal, noteID string, patch models.NotePatch, image *Upload) (*models.Note, error) {
	if patch.Empty() && image == nil {
		return nil, invalid("No changes provided")
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, invalid("Title is required")
	}
	if patch.Content != nil && *patch.Content == "" {
		return nil, invalid("Content is required")
	}

	note, err := s.find(ctx, p, noteID)
	if err != nil {
		return nil, err
	}

	if image != nil {
		path, err := s.attachments.Store(ctx, image.Body, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		patch.Image = &path
	}
	patch.Apply(note)

	if err := s.update(ctx, note); err != nil {
		if image != nil {
			s.discard(ctx, *patch.Image)
		}
		return nil, err
	}
	return note, nil
}

func (s *NoteService) ListNotes(ctx context.Context, p auth.Principal) ([]models.Note, error) {
	notes, err := s.notes.ListNotes(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, p auth.Principal, noteID string) error {
	err := s.notes.DeleteNote(ctx, p.UserID, noteID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// SetPinned stores isPinned as given. A nil value means the client sent none.
func (s *NoteService) SetPinned(ctx context.Context, p auth.Principal, noteID string, isPinned *bool) (*models.Note, error) {
	if isPinned == nil {
		return nil, invalid("isPinned is required")
	}

	note, err := s.find(ctx, p, noteID)
	if err != nil {
		return nil, err
	}
	note.IsPinned = *isPinned

	if err := s.update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) find(ctx context.Context, p auth.Principal, noteID string) (*models.Note, error) {
	note, err := s.notes.FindNote(ctx, p.UserID, noteID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	return note, nil
}

func (s *NoteService) update(ctx context.Context, note *models.Note) error {
	err := s.notes.UpdateNote(ctx, note)
	if errors.Is(err, repositories.ErrNotFound) {
		// deleted between the read and the write
		return ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (s *NoteService) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.attachments.Remove(ctx, path); err != nil {
		s.log.Warn(ctx, "failed to remove orphaned upload", "path", path, "error", err)
	}
}
