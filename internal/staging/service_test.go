package staging

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/domain"
)

func newTestService(t *testing.T, maxBytes int64) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore(zap.NewNop())
	svc := NewService(store, Options{
		MaxBodyBytes:      maxBytes,
		TTL:               10 * time.Minute,
		UnsafeReadEnabled: false,
		UpstreamTimeout:   5 * time.Second,
		Logger:            zap.NewNop(),
	})
	return svc, store
}

func TestServiceIngestAndMetadata(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	body := `{"model":"gpt-4o","stream":true,"user":"user-42","messages":[]}`
	meta, err := svc.Ingest(ctx, "req-1", strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, int64(len(body)), meta.Size)
	assert.True(t, meta.IsStream)
	assert.Equal(t, "user-42", meta.UserID)
	assert.Equal(t, "gpt-4o", meta.Model)

	again, err := svc.Metadata(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, meta, again)
}

func TestServiceIngestNonJSONBody(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)

	meta, err := svc.Ingest(context.Background(), "req-1", strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, int64(5), meta.Size)
	assert.False(t, meta.IsStream)
	assert.Empty(t, meta.UserID)
	assert.Empty(t, meta.Model)
}

func TestServiceIngestSizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		max     int64
		size    int
		wantErr bool
	}{
		{name: "under limit", max: 10, size: 9},
		{name: "exactly at limit", max: 10, size: 10},
		{name: "one byte over", max: 10, size: 11, wantErr: true},
		{name: "far over", max: 10, size: 4096, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, tt.max)
			ctx := context.Background()

			body := strings.Repeat("a", tt.size)
			_, err := svc.Ingest(ctx, "req-1", strings.NewReader(body))

			if tt.wantErr {
				var domainErr *domain.Error
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, 413, domainErr.Code)

				// Nothing is retained for a rejected ingest
				assert.Equal(t, 0, store.Len())
				return
			}

			require.NoError(t, err)
			n, err := svc.BodyLength(ctx, "req-1")
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), n)
		})
	}
}

func TestServiceIngestOverwrites(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "req-1", strings.NewReader("second body"))
	require.NoError(t, err)

	n, err := svc.BodyLength(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, int64(len("second body")), n)
}

func TestServiceMetadataNotFound(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)

	_, err := svc.Metadata(context.Background(), "absent")

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.Code)
	assert.Contains(t, domainErr.Message, "absent")
}

func TestServiceReadRawGated(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader("secret payload"))
	require.NoError(t, err)

	_, err = svc.ReadRaw(ctx, "req-1")
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 403, domainErr.Code)

	svc.unsafeRead = true
	data, err := svc.ReadRaw(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret payload"), data)
}

func TestServiceReplaceBody(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader(`{"model":"old"}`))
	require.NoError(t, err)

	require.NoError(t, svc.ReplaceBody(ctx, "req-1", []byte(`{"model":"new","stream":true}`)))

	meta, err := svc.Metadata(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "new", meta.Model)
	assert.True(t, meta.IsStream)
}

func TestServiceReplaceBodyMissingEntry(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)

	err := svc.ReplaceBody(context.Background(), "absent", []byte("{}"))

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.Code)
}

func TestServiceDeleteIdempotent(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "req-1"))
	require.NoError(t, svc.Delete(ctx, "req-1"))

	_, err = svc.Metadata(ctx, "req-1")
	var domainErr *domain.Error
	assert.ErrorAs(t, err, &domainErr)
}

func TestServiceExpiredEntryNotFound(t *testing.T) {
	svc, store := newTestService(t, 1<<20)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "req-1", &Entry{
		Data:      []byte("stale"),
		Size:      5,
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	_, err := svc.BodyLength(ctx, "req-1")
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.Code)
}

func TestServiceSignRequestValidation(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader("{}"))
	require.NoError(t, err)

	_, err = svc.SignRequest(ctx, "req-1", SignInput{
		Region: "us-east-1",
		// ForwardToHost, Method, URLString missing
	})

	var problem *domain.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 400, problem.Status)

	fieldErrors, ok := problem.Extensions["errors"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "forwardToHost")
}

func TestServiceSignRequestMissingEntry(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)

	_, err := svc.SignRequest(context.Background(), "absent", SignInput{
		Region:        "us-east-1",
		ForwardToHost: "bedrock-runtime.us-east-1.amazonaws.com",
		Method:        "POST",
		URLString:     "https://gateway.example.com/model/anthropic.claude-3/invoke",
		RequestHeaders: map[string]string{
			HeaderAccessKey: "AKIDEXAMPLE",
			HeaderSecretKey: "secret",
		},
	})

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.Code)
}

func TestServiceSignRequestSuccess(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader(`{"prompt":"hi"}`))
	require.NoError(t, err)

	out, err := svc.SignRequest(ctx, "req-1", SignInput{
		Region:        "us-east-1",
		ForwardToHost: "bedrock-runtime.us-east-1.amazonaws.com",
		Method:        "POST",
		URLString:     "https://gateway.example.com/model/anthropic.claude-3/invoke",
		RequestHeaders: map[string]string{
			HeaderAccessKey: "AKIDEXAMPLE",
			HeaderSecretKey: "secret",
			"content-type":  "application/json",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3", out.Model)
	assert.Contains(t, out.NewHeaders["authorization"], "AWS4-HMAC-SHA256")
	assert.Equal(t, "bedrock-runtime.us-east-1.amazonaws.com", out.NewHeaders["host"])
}

func TestServiceArchiveMissingCredentials(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "req-1", strings.NewReader("{}"))
	require.NoError(t, err)

	_, err = svc.Archive(ctx, "req-1", ArchiveInput{
		Response: []byte(`{"ok":true}`),
		URL:      "https://bucket.s3.us-east-1.amazonaws.com/key",
	}, map[string]string{})

	var problem *domain.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 400, problem.Status)
}
