package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestR2(t *testing.T, publicURL string) *R2Storage {
	t.Helper()
	s, err := NewR2Storage(R2Config{
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "skybooker-assets",
		PublicURL:       publicURL,
		Endpoint:        "http://localhost:9000",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestNewR2Storage_RequiresBucketAndEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewR2Storage(R2Config{AccountID: "acc"}, logger)
	assert.Error(t, err)

	_, err = NewR2Storage(R2Config{BucketName: "b"}, logger)
	assert.Error(t, err)

	_, err = NewR2Storage(R2Config{BucketName: "b", AccountID: "acc"}, logger)
	assert.NoError(t, err)
}

func TestR2Storage_URL(t *testing.T) {
	ctx := context.Background()

	public := newTestR2(t, "https://cdn.skybooker.vn/")
	url, err := public.URL(ctx, "places/dad.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.skybooker.vn/places/dad.jpg", url)

	private := newTestR2(t, "")
	url, err = private.URL(ctx, "places/dad.jpg", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/skybooker-assets/places/dad.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = public.URL(ctx, "places/dad.jpg", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=60")

	_, err = public.URL(ctx, "../secret", 0)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = readLimited(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err = readLimited(strings.NewReader("123456"), 0)
	require.NoError(t, err)
	assert.Len(t, data, 6)
}

func TestMapS3Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", &types.NoSuchKey{}, ErrNotFound},
		{"head not found", &types.NotFound{}, ErrNotFound},
		{"precondition", &smithy.GenericAPIError{Code: "PreconditionFailed"}, ErrKeyExists},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapS3Error(tt.err), tt.want)
		})
	}

	assert.NoError(t, mapS3Error(nil))

	other := errors.New("timeout")
	mapped := mapS3Error(other)
	assert.ErrorIs(t, mapped, other)
	assert.Contains(t, mapped.Error(), "r2:")
}
