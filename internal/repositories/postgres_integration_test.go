//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rohits-web03/notely/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "notely",
				"POSTGRES_PASSWORD": "notely",
				"POSTGRES_DB":       "notely",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=notely password=notely dbname=notely sslmode=disable", host, port.Port())
	store, err := ConnectDatabase(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestPostgresStore_Integration(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	alice := &models.User{FirstName: "Alice", LastName: "A", Email: "alice@example.com", Password: "hash", CreatedOn: time.Now()}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NotEmpty(t, alice.ID)

	dup := &models.User{FirstName: "Alice", LastName: "B", Email: "alice@example.com", Password: "hash", CreatedOn: time.Now()}
	assert.ErrorIs(t, store.CreateUser(ctx, dup), ErrDuplicate)

	bob := &models.User{FirstName: "Bob", LastName: "B", Email: "bob@example.com", Password: "hash", CreatedOn: time.Now()}
	require.NoError(t, store.CreateUser(ctx, bob))

	base := time.Now().UTC().Truncate(time.Millisecond)
	older := &models.Note{Title: "old", Content: "c", Tags: []string{"a"}, UserID: alice.ID, CreatedOn: base.Add(-time.Hour)}
	newer := &models.Note{Title: "new", Content: "c", Tags: []string{}, UserID: alice.ID, CreatedOn: base}
	pinned := &models.Note{Title: "pinned", Content: "c", Tags: []string{}, UserID: alice.ID, IsPinned: true, CreatedOn: base.Add(-2 * time.Hour)}
	for _, n := range []*models.Note{older, newer, pinned} {
		require.NoError(t, store.CreateNote(ctx, n))
	}

	notes, err := store.ListNotes(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"pinned", "new", "old"}, []string{notes[0].Title, notes[1].Title, notes[2].Title})
	assert.Equal(t, []string{"a"}, notes[2].Tags)

	_, err = store.FindNote(ctx, bob.ID, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteNote(ctx, bob.ID, older.ID), ErrNotFound)

	older.UserID = bob.ID
	assert.ErrorIs(t, store.UpdateNote(ctx, older), ErrNotFound)
	older.UserID = alice.ID

	older.IsPinned = true
	older.Tags = []string{"x", "y"}
	require.NoError(t, store.UpdateNote(ctx, older))
	got, err := store.FindNote(ctx, alice.ID, older.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
	assert.Equal(t, []string{"x", "y"}, got.Tags)

	require.NoError(t, store.DeleteNote(ctx, alice.ID, older.ID))
	_, err = store.FindNote(ctx, alice.ID, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
