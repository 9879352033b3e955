package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedUploads(t *testing.T) *LocalUploads {
	t.Helper()
	u := NewLocalUploads(filepath.Join(t.TempDir(), "uploads"))
	u.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return u
}

func TestLocalUploads_StoreKeepsExtension(t *testing.T) {
	u := fixedUploads(t)
	ctx := context.Background()

	p, err := u.Store(ctx, strings.NewReader("png-bytes"), "holiday.photo.PNG")
	require.NoError(t, err)
	assert.Equal(t, "uploads/1700000000123.PNG", p)

	data, err := os.ReadFile(filepath.Join(u.dir, "1700000000123.PNG"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalUploads_PathIsPublicForAbsoluteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "var", "data", "attachments")
	u := NewLocalUploads(dir)
	ctx := context.Background()

	p, err := u.Store(ctx, strings.NewReader("x"), "scan.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "uploads/"), p)
	assert.NotContains(t, p, dir)

	loc, err := u.Locate(ctx, strings.TrimPrefix(p, "uploads/"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(loc.LocalPath))
}

func TestLocalUploads_StoreAvoidsCollisions(t *testing.T) {
	u := fixedUploads(t)
	ctx := context.Background()

	first, err := u.Store(ctx, strings.NewReader("a"), "a.jpg")
	require.NoError(t, err)
	second, err := u.Store(ctx, strings.NewReader("b"), "b.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "/1700000000123-1.jpg"))
}

func TestLocalUploads_Locate(t *testing.T) {
	u := fixedUploads(t)
	ctx := context.Background()

	p, err := u.Store(ctx, strings.NewReader("x"), "x.gif")
	require.NoError(t, err)

	loc, err := u.Locate(ctx, filepath.Base(p))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(u.dir, "1700000000123.gif"), loc.LocalPath)
	assert.Empty(t, loc.URL)

	for _, name := range []string{"missing.gif", "..", "../secret", ""} {
		_, err := u.Locate(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestLocalUploads_Remove(t *testing.T) {
	u := fixedUploads(t)
	ctx := context.Background()

	p, err := u.Store(ctx, strings.NewReader("x"), "x.gif")
	require.NoError(t, err)

	require.NoError(t, u.Remove(ctx, p))
	_, err = os.Stat(filepath.Join(u.dir, filepath.Base(p)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, u.Remove(ctx, p))

	assert.Error(t, u.Remove(ctx, "/etc/passwd"))
	assert.Error(t, u.Remove(ctx, "uploads/../secret"))
	assert.Error(t, u.Remove(ctx, filepath.Join(u.dir, "x.gif")))
}
