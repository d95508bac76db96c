package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profile_pictures")
	s, err := NewLocalStore(dir, "/static/profile_pictures/")
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "abc123.png", "image/png", []byte("png-bytes")))

	got, err := os.ReadFile(filepath.Join(dir, "abc123.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
	assert.Equal(t, "/static/profile_pictures/abc123.png", s.URL("abc123.png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_RejectsPaths(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/static")
	require.NoError(t, err)
	assert.Error(t, s.Save(context.Background(), "../escape.png", "image/png", []byte("x")))
}

func TestGCSStore_URL(t *testing.T) {
	s := NewGCSStore(nil, "blog-assets", "profile_pictures")
	assert.Equal(t, "https://storage.googleapis.com/blog-assets/profile_pictures/a.jpg", s.URL("a.jpg"))
	assert.Error(t, s.Save(context.Background(), "a.jpg", "image/jpeg", nil))
}
