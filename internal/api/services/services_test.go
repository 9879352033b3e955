package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/models"
	"github.com/rohits-web03/notely/internal/repositories"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu       sync.Mutex
	created  int
	failures map[string]int
}

func (r *countingRecorder) NoteCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *countingRecorder) AuthFailure(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[reason]++
}

type fixture struct {
	store    *repositories.MemoryStore
	uploads  string
	tokens   *auth.Tokens
	recorder *countingRecorder
	accounts *AccountService
	notes    *NoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repositories.NewMemoryStore(),
		uploads:  filepath.Join(t.TempDir(), "uploads"),
		tokens:   auth.NewTokens("test-secret", time.Hour),
		recorder: &countingRecorder{},
	}
	f.accounts = NewAccountService(f.store, f.tokens, f.recorder, logging.Discard())
	f.notes = NewNoteService(f.store, repositories.NewLocalUploads(f.uploads), f.recorder, logging.Discard())
	return f
}

// uploadedFiles lists what the attachment store has written so far.
func (f *fixture) uploadedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.uploads)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) register(t *testing.T, email string) auth.Principal {
	t.Helper()
	s, err := f.accounts.Register(context.Background(), RegisterInput{
		FirstName: "Test", LastName: "User", Email: email, Password: "pw-" + email,
	})
	require.NoError(t, err)
	p, err := f.tokens.Verify(s.AccessToken)
	require.NoError(t, err)
	return p
}

func image(name, body string) *Upload {
	return &Upload{Body: strings.NewReader(body), Filename: name}
}

// failingNotes wraps a NoteRepository and fails chosen writes.
type failingNotes struct {
	repositories.NoteRepository
	failCreate bool
	failUpdate bool
}

func (f *failingNotes) CreateNote(ctx context.Context, n *models.Note) error {
	if f.failCreate {
		return errors.New("disk full")
	}
	return f.NoteRepository.CreateNote(ctx, n)
}

func (f *failingNotes) UpdateNote(ctx context.Context, n *models.Note) error {
	if f.failUpdate {
		return errors.New("connection reset")
	}
	return f.NoteRepository.UpdateNote(ctx, n)
}
