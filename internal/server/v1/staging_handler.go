package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calder-ai/relaycore/internal/domain"
	"github.com/calder-ai/relaycore/internal/staging"
)

type StagingHandler struct {
	service *staging.Service
}

func NewStagingHandler(service *staging.Service) *StagingHandler {
	return &StagingHandler{service: service}
}

// Ingest stages the raw request body under the path key. Any content type
// is accepted; the body is treated as opaque bytes.
func (h *StagingHandler) Ingest(c *gin.Context) {
	id := c.Param("requestId")

	meta, err := h.service.Ingest(c.Request.Context(), id, c.Request.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (h *StagingHandler) Metadata(c *gin.Context) {
	meta, err := h.service.Metadata(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// UnsafeRead returns the staged body as raw text. The service refuses the
// call unless diagnostics are enabled.
func (h *StagingHandler) UnsafeRead(c *gin.Context) {
	data, err := h.service.ReadRaw(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

func (h *StagingHandler) BodyLength(c *gin.Context) {
	n, err := h.service.BodyLength(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"length": n})
}

type setBodyRequest struct {
	Body string `json:"body"`
}

func (h *StagingHandler) SetBody(c *gin.Context) {
	var req setBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.BadRequestError("request body must be JSON with a 'body' string"))
		return
	}

	if err := h.service.ReplaceBody(c.Request.Context(), c.Param("requestId"), []byte(req.Body)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *StagingHandler) SignAWS(c *gin.Context) {
	var in staging.SignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(domain.BadRequestError("request body must be valid JSON"))
		return
	}

	out, err := h.service.SignRequest(c.Request.Context(), c.Param("requestId"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// UploadBody archives the staged request together with the supplied
// response. Credentials ride on the request headers, not the JSON body, so
// the body can be logged without scrubbing.
func (h *StagingHandler) UploadBody(c *gin.Context) {
	var in staging.ArchiveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(domain.BadRequestError("request body must be valid JSON"))
		return
	}

	creds := map[string]string{}
	for _, key := range []string{
		staging.HeaderAccessKey,
		staging.HeaderSecretKey,
		staging.HeaderSessionToken,
		staging.HeaderRegion,
	} {
		if v := c.GetHeader(key); v != "" {
			creds[key] = v
		}
	}

	result, err := h.service.Archive(c.Request.Context(), c.Param("requestId"), in, creds)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// The object store's verdict is forwarded verbatim, status included
	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(result.StatusCode, contentType, result.Body)
}

func (h *StagingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("requestId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
