package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rohits-web03/notely/internal/models"
)

// MemoryStore keeps everything in process memory. It backs DB_DRIVER=memory
// and the HTTP tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	notes map[string]models.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		notes: make(map[string]models.Note),
	}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.NewString()
	s.notes[n.ID] = cloneNote(*n)
	return nil
}

func (s *MemoryStore) FindNote(_ context.Context, userID, noteID string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.owned(userID, noteID)
	if !ok {
		return nil, ErrNotFound
	}
	n = cloneNote(n)
	return &n, nil
}

func (s *MemoryStore) UpdateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.owned(n.UserID, n.ID)
	if !ok {
		return ErrNotFound
	}
	current.Title = n.Title
	current.Content = n.Content
	current.Tags = slices.Clone(n.Tags)
	current.IsPinned = n.IsPinned
	current.Image = n.Image
	s.notes[n.ID] = current
	return nil
}

func (s *MemoryStore) DeleteNote(_ context.Context, userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owned(userID, noteID); !ok {
		return ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *MemoryStore) ListNotes(_ context.Context, userID string) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := []models.Note{}
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, cloneNote(n))
		}
	}
	slices.SortStableFunc(notes, func(a, b models.Note) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		return b.CreatedOn.Compare(a.CreatedOn)
	})
	return notes, nil
}

// owned must be called with s.mu held.
func (s *MemoryStore) owned(userID, noteID string) (models.Note, bool) {
	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return models.Note{}, false
	}
	return n, true
}

func cloneNote(n models.Note) models.Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}
