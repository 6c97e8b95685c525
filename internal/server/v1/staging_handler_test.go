package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/server/middleware"
	"github.com/calder-ai/relaycore/internal/staging"
)

func newTestRouter(t *testing.T, opts staging.Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.TTL == 0 {
		opts.TTL = time.Minute
	}
	if opts.UpstreamTimeout == 0 {
		opts.UpstreamTimeout = 5 * time.Second
	}

	store := staging.NewMemoryStore(zap.NewNop())
	service := staging.NewService(store, opts)
	handler := NewStagingHandler(service)

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	router.POST("/:requestId", handler.Ingest)
	router.GET("/:requestId/metadata", handler.Metadata)
	router.GET("/:requestId/unsafe/read", handler.UnsafeRead)
	router.GET("/:requestId/body-length", handler.BodyLength)
	router.POST("/:requestId/s3/set-body", handler.SetBody)
	router.POST("/:requestId/sign-aws", handler.SignAWS)
	router.POST("/:requestId/s3/upload-body", handler.UploadBody)
	router.DELETE("/:requestId", handler.Delete)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestThenRead(t *testing.T) {
	router := newTestRouter(t, staging.Options{UnsafeReadEnabled: true})

	w := doRequest(router, http.MethodPost, "/req1", "hello")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Size int64 `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Size)

	w = doRequest(router, http.MethodGet, "/req1/unsafe/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestIngestOversizeRejected(t *testing.T) {
	router := newTestRouter(t, staging.Options{MaxBodyBytes: 10})

	w := doRequest(router, http.MethodPost, "/req1", strings.Repeat("a", 11))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// Nothing was retained for the key
	w = doRequest(router, http.MethodGet, "/req1/metadata", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestAtLimitAccepted(t *testing.T) {
	router := newTestRouter(t, staging.Options{MaxBodyBytes: 10})

	w := doRequest(router, http.MethodPost, "/req1", strings.Repeat("a", 10))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/req1/body-length", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"length": 10}`, w.Body.String())
}

func TestMetadataFields(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	body := `{"model":"gpt-4o","stream":true,"user":"u-1"}`
	w := doRequest(router, http.MethodPost, "/req1", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/req1/metadata", "")
	require.Equal(t, http.StatusOK, w.Code)

	var meta struct {
		IsStream bool   `json:"isStream"`
		UserID   string `json:"userId"`
		Model    string `json:"model"`
		Size     int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.True(t, meta.IsStream)
	assert.Equal(t, "u-1", meta.UserID)
	assert.Equal(t, "gpt-4o", meta.Model)
	assert.Equal(t, int64(len(body)), meta.Size)
}

func TestMetadataNotFound(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodGet, "/absent/metadata", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "absent")
}

func TestUnsafeReadDisabled(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "secret")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/req1/unsafe/read", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetBody(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "original")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/req1/s3/set-body", `{"body":"replacement text"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/req1/body-length", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"length": 16}`, w.Body.String())
}

func TestSetBodyMalformedJSON(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "x")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/req1/s3/set-body", "not-json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignAWSValidationError(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "{}")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/req1/sign-aws", `{"region":"us-east-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var problem struct {
		Status int               `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Contains(t, problem.Errors, "forwardToHost")
}

func TestSignAWSSuccess(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", `{"prompt":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	signBody := `{
		"region": "us-east-1",
		"forwardToHost": "bedrock-runtime.us-east-1.amazonaws.com",
		"method": "POST",
		"urlString": "https://gateway.example.com/model/anthropic.claude-3/invoke",
		"requestHeaders": {
			"aws-access-key": "AKIDEXAMPLE",
			"aws-secret-key": "secret",
			"content-type": "application/json"
		}
	}`
	w = doRequest(router, http.MethodPost, "/req1/sign-aws", signBody)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		NewHeaders map[string]string `json:"newHeaders"`
		Model      string            `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "anthropic.claude-3", out.Model)
	assert.Contains(t, out.NewHeaders["authorization"], "AWS4-HMAC-SHA256")
}

func TestSignAWSMissingEntry(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	signBody := `{
		"region": "us-east-1",
		"forwardToHost": "bedrock-runtime.us-east-1.amazonaws.com",
		"method": "POST",
		"urlString": "https://gateway.example.com/model/x/invoke",
		"requestHeaders": {"aws-access-key": "a", "aws-secret-key": "b"}
	}`
	w := doRequest(router, http.MethodPost, "/absent/sign-aws", signBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteIdempotent(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "x")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodDelete, "/req1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	// Deleting again still succeeds
	w = doRequest(router, http.MethodDelete, "/req1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/req1/metadata", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadBodyMissingCredentials(t *testing.T) {
	router := newTestRouter(t, staging.Options{})

	w := doRequest(router, http.MethodPost, "/req1", "{}")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/req1/s3/upload-body",
		`{"response": {"ok": true}, "url": "https://bucket.s3.amazonaws.com/key"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", NewHealthHandler().Health)

	w := doRequest(router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}
