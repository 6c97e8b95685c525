package staging

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// ArchiveInput is the caller's side of an archival: the upstream response
// to pair with the staged request body, object tags, and the destination
// object URL.
type ArchiveInput struct {
	Response json.RawMessage   `json:"response" validate:"required"`
	Tags     map[string]string `json:"tags"`
	URL      string            `json:"url" validate:"required,url"`
}

// UploadResult is the upstream object-store response, forwarded verbatim.
type UploadResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Uploader writes gzip-compressed request/response envelopes to object
// storage with a SigV4-signed PUT. Credentials are per call; nothing is
// retained between uploads. No retries: failures propagate to the caller.
type Uploader struct {
	client *http.Client
	signer *v4.Signer
	now    func() time.Time
}

func NewUploader(timeout time.Duration) *Uploader {
	return &Uploader{
		client: &http.Client{Timeout: timeout},
		signer: v4.NewSigner(),
		now:    time.Now,
	}
}

// Upload builds the {request, response} envelope around the staged body,
// compresses it, and PUTs it to the destination URL.
func (u *Uploader) Upload(ctx context.Context, stagedBody []byte, in ArchiveInput, creds aws.Credentials, region string) (*UploadResult, error) {
	envelope := map[string]json.RawMessage{}
	requestText, err := json.Marshal(string(stagedBody))
	if err != nil {
		return nil, fmt.Errorf("encode staged body: %w", err)
	}
	envelope["request"] = requestText
	envelope["response"] = in.Response

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(payload); err != nil {
		return nil, fmt.Errorf("compress envelope: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress envelope: %w", err)
	}
	body := compressed.Bytes()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, in.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if len(in.Tags) > 0 {
		req.Header.Set("x-amz-tagging", encodeTags(in.Tags))
	}

	payloadHash := sha256.Sum256(body)
	if err := u.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(payloadHash[:]), "s3", region, u.now()); err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("object store upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	return &UploadResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// encodeTags renders the tag map as percent-encoded key=value pairs, the
// format of the S3 object tagging header. url.Values keeps the pair order
// sorted by key.
func encodeTags(tags map[string]string) string {
	values := url.Values{}
	for k, v := range tags {
		values.Set(k, v)
	}
	return values.Encode()
}
