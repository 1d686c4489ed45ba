package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeClient struct {
	bucketExists  bool
	bucketErr     error
	putErr        error
	madeBucket    bool
	lastPutBucket string
	lastPutKey    string
	lastPutType   string
	lastPutBody   []byte
}

func (f *fakeClient) PutObject(_ context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, _ := io.ReadAll(reader)
	f.lastPutBucket, f.lastPutKey, f.lastPutType, f.lastPutBody = bucket, key, opts.ContentType, body
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func (f *fakeClient) BucketExists(context.Context, string) (bool, error) {
	return f.bucketExists, f.bucketErr
}

func (f *fakeClient) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	f.madeBucket = true
	return nil
}

// ==========================
// Minio Store Tests
// ==========================

func TestMinioStore_Save(t *testing.T) {
	fake := &fakeClient{}
	s := newMinioWithClient("proofs", fake)

	loc, err := s.Save(context.Background(), "/ann.lee/cert.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "s3://proofs/ann.lee/cert.pdf", loc)
	assert.Equal(t, "proofs", fake.lastPutBucket)
	assert.Equal(t, "ann.lee/cert.pdf", fake.lastPutKey)
	assert.Equal(t, "application/pdf", fake.lastPutType)
	assert.Equal(t, []byte("pdf"), fake.lastPutBody)
}

func TestMinioStore_Save_DefaultContentType(t *testing.T) {
	fake := &fakeClient{}
	_, err := newMinioWithClient("proofs", fake).Save(context.Background(), "a/b", bytes.NewBufferString("x"), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", fake.lastPutType)
}

func TestMinioStore_Save_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		err  error
	}{
		{"path traversal", "../secrets.txt", nil},
		{"empty key", "  ", nil},
		{"upload failure", "a/b.pdf", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMinioWithClient("proofs", &fakeClient{putErr: tt.err})
			_, err := s.Save(context.Background(), tt.key, strings.NewReader("x"), 1, "")
			require.Error(t, err)
			if tt.err == nil {
				assert.ErrorIs(t, err, ErrInvalidKey)
			}
		})
	}
}

func TestMinioStore_EnsureBucket(t *testing.T) {
	fake := &fakeClient{bucketExists: false}
	require.NoError(t, newMinioWithClient("proofs", fake).ensureBucket(context.Background()))
	assert.True(t, fake.madeBucket)

	fake = &fakeClient{bucketExists: true}
	require.NoError(t, newMinioWithClient("proofs", fake).ensureBucket(context.Background()))
	assert.False(t, fake.madeBucket)
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		useSSL   bool
		endpoint string
		secure   bool
	}{
		{"https://minio.example.com", false, "minio.example.com", true},
		{"http://localhost:9000", false, "localhost:9000", false},
		{"localhost:9000", true, "localhost:9000", true},
	}
	for _, tt := range tests {
		endpoint, secure, err := parseEndpoint(tt.raw, tt.useSSL)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.endpoint, endpoint)
		assert.Equal(t, tt.secure, secure)
	}

	_, _, err := parseEndpoint("", false)
	assert.Error(t, err)
}

// ==========================
// Local Store Tests
// ==========================

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)

	loc, err := s.Save(context.Background(), "ann.lee/cert.pdf", strings.NewReader("proof"), 5, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ann.lee", "cert.pdf"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "proof", string(data))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("ann.lee", `C:\Users\ann\cert.pdf`)
	assert.True(t, strings.HasPrefix(key, "ann.lee/"))
	assert.True(t, strings.HasSuffix(key, "-cert.pdf"))

	assert.NotEqual(t, ObjectKey("ann.lee", "cert.pdf"), ObjectKey("ann.lee", "cert.pdf"))
	assert.True(t, strings.HasPrefix(ObjectKey("", "x"), "unknown/"))

	_, err := normalizeKey(ObjectKey("../evil", "../../x"))
	assert.NoError(t, err)
}
