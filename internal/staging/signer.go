package staging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// Credential header keys. Per-call credentials ride on the request and are
// never persisted with the staged entry.
const (
	HeaderAccessKey    = "aws-access-key"
	HeaderSecretKey    = "aws-secret-key"
	HeaderSessionToken = "aws-session-token"
	HeaderRegion       = "aws-region"
)

// SignInput describes the outbound call to sign. Validated before any
// signing work happens; shape violations are reported distinctly from a
// missing staged body.
type SignInput struct {
	Region         string            `json:"region" validate:"required"`
	ForwardToHost  string            `json:"forwardToHost" validate:"required,hostname_port|hostname"`
	RequestHeaders map[string]string `json:"requestHeaders" validate:"required"`
	Method         string            `json:"method" validate:"required,oneof=GET POST PUT DELETE"`
	URLString      string            `json:"urlString" validate:"required,url"`
}

// SignOutput carries the full header set for the forwarded call plus the
// model id parsed from the URL path, surfaced for observability.
type SignOutput struct {
	NewHeaders map[string]string `json:"newHeaders"`
	Model      string            `json:"model"`
}

// Signer computes SigV4 signatures for requests forwarded to a cloud
// inference endpoint, using the staged body as the payload.
type Signer struct {
	signer  *v4.Signer
	service string
	now     func() time.Time
}

func NewSigner() *Signer {
	return &Signer{
		signer:  v4.NewSigner(),
		service: "bedrock",
		now:     time.Now,
	}
}

// Sign signs (method, forward host, path+query, passthrough headers, body)
// and returns the headers to attach to the outbound call. Credentials are
// read from the caller-supplied request headers.
func (s *Signer) Sign(ctx context.Context, in SignInput, body []byte) (*SignOutput, error) {
	creds, err := credentialsFromHeaders(in.RequestHeaders)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(in.URLString)
	if err != nil {
		return nil, fmt.Errorf("parse target url: %w", err)
	}
	u.Scheme = "https"
	u.Host = in.ForwardToHost

	req, err := http.NewRequestWithContext(ctx, in.Method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build signing request: %w", err)
	}
	req.Host = in.ForwardToHost
	req.ContentLength = int64(len(body))

	// Only a fixed set of headers participates in the signature; anything
	// else the caller sent would break verification at the provider
	for key, value := range in.RequestHeaders {
		if isPassthroughHeader(key) {
			req.Header.Set(key, value)
		}
	}

	payloadHash := sha256.Sum256(body)
	if err := s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(payloadHash[:]), s.service, in.Region, s.now()); err != nil {
		return nil, fmt.Errorf("sigv4 signing: %w", err)
	}

	newHeaders := map[string]string{"host": in.ForwardToHost}
	for key := range req.Header {
		newHeaders[strings.ToLower(key)] = req.Header.Get(key)
	}

	return &SignOutput{
		NewHeaders: newHeaders,
		Model:      modelFromPath(u.Path),
	}, nil
}

func credentialsFromHeaders(headers map[string]string) (aws.Credentials, error) {
	lowered := make(map[string]string, len(headers))
	for k, v := range headers {
		lowered[strings.ToLower(k)] = v
	}

	accessKey := lowered[HeaderAccessKey]
	secretKey := lowered[HeaderSecretKey]
	if accessKey == "" || secretKey == "" {
		return aws.Credentials{}, fmt.Errorf("missing %s or %s header", HeaderAccessKey, HeaderSecretKey)
	}

	return aws.Credentials{
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		SessionToken:    lowered[HeaderSessionToken],
	}, nil
}

func isPassthroughHeader(key string) bool {
	lk := strings.ToLower(key)
	return lk == "content-type" || lk == "accept" || strings.HasPrefix(lk, "x-amz-")
}

// modelFromPath extracts the second-to-last path segment, the wire model id
// position in invoke-style URLs (/model/<id>/invoke).
func modelFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}
