package repositories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rohits-web03/notely/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket answers just enough of the S3 API for R2Storage.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]bool
	methods []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.methods = append(b.methods, r.Method)
	key := strings.TrimPrefix(r.URL.Path, "/notes-bucket/")
	switch r.Method {
	case http.MethodPut:
		b.objects[key] = true
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if !b.objects[key] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBucket) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[key]
}

func newFakeR2(t *testing.T) (*R2Storage, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string]bool{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	s, err := NewR2Storage(context.Background(), config.R2Config{
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "notes-bucket",
		Region:          "auto",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s, bucket
}

func TestR2Storage_StoreLocateRemove(t *testing.T) {
	s, bucket := newFakeR2(t)
	ctx := context.Background()

	key, err := s.Store(ctx, strings.NewReader("jpeg"), "cat.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "uploads/1700000000123-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, bucket.has(key))

	loc, err := s.Locate(ctx, strings.TrimPrefix(key, "uploads/"))
	require.NoError(t, err)
	assert.Empty(t, loc.LocalPath)
	assert.Contains(t, loc.URL, "/notes-bucket/"+key)
	assert.Contains(t, loc.URL, "X-Amz-Expires=900")

	require.NoError(t, s.Remove(ctx, key))
	assert.False(t, bucket.has(key))
}

func TestR2Storage_LocateMissing(t *testing.T) {
	s, _ := newFakeR2(t)

	_, err := s.Locate(context.Background(), "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Locate(context.Background(), "../etc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestR2Storage_RemoveOutsidePrefix(t *testing.T) {
	s, bucket := newFakeR2(t)

	assert.Error(t, s.Remove(context.Background(), "private/key"))
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	assert.Empty(t, bucket.methods)
}
