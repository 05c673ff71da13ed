package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/assets/",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestValidateKey(t *testing.T) {
	valid := []string{"promo/summer-sale.jpg", "places/han.jpg", "a"}
	for _, key := range valid {
		assert.NoError(t, ValidateKey(key), key)
	}

	invalid := []string{"", "/etc/passwd", "../secret", "places/../../x", "a//b", "a/./b", `a\b`}
	for _, key := range invalid {
		assert.ErrorIs(t, ValidateKey(key), ErrInvalidKey, key)
	}
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "thumbs/320x200/places/han.jpg", ThumbnailKey("places/han.png", 320, 200))
	assert.Equal(t, "thumbs/64x64/logo.jpg", ThumbnailKey("logo", 64, 64))
}

func TestContentTypeForKey(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForKey("a/b.JPG"))
	assert.Equal(t, "image/webp", ContentTypeForKey("a/b.webp"))
	assert.Equal(t, "application/octet-stream", ContentTypeForKey("a/b.unknownext"))
	assert.True(t, IsRasterImage("image/png"))
	assert.False(t, IsRasterImage("image/svg+xml"))
}

func TestLocalStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "places/han.jpg", bytes.NewReader([]byte("jpeg")), PutOptions{}))

	rc, info, err := s.Get(ctx, "places/han.jpg")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(body))
	assert.Equal(t, int64(4), info.Size)
	assert.Equal(t, "image/jpeg", info.ContentType)
}

func TestLocalStorage_PutExisting(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "k.txt", bytes.NewReader([]byte("1")), PutOptions{}))

	err := s.Put(ctx, "k.txt", bytes.NewReader([]byte("2")), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	require.NoError(t, s.Put(ctx, "k.txt", bytes.NewReader([]byte("2")), PutOptions{Overwrite: true}))
}

func TestLocalStorage_PutTooLarge(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	err := s.Put(ctx, "big.bin", bytes.NewReader(make([]byte, 11)), PutOptions{MaxSize: 10})
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, err := s.Exists(ctx, "big.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	_, _, err := newLocal(t).Get(context.Background(), "nope.jpg")
	assert.True(t, IsNotFound(err))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	_, _, err := newLocal(t).Get(context.Background(), "../etc/passwd")
	assert.True(t, IsInvalidKey(err))
}

func TestLocalStorage_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "x.jpg", bytes.NewReader([]byte("x")), PutOptions{}))
	require.NoError(t, s.Delete(ctx, "x.jpg"))
	require.NoError(t, s.Delete(ctx, "x.jpg"))

	exists, err := s.Exists(ctx, "x.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_URL(t *testing.T) {
	url, err := newLocal(t).URL(context.Background(), "promo/summer-sale.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/promo/summer-sale.jpg", url)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "ftp"}, slog.Default())
	assert.Error(t, err)
}
