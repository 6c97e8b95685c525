package staging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSigner() *Signer {
	s := NewSigner()
	s.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSignerSign(t *testing.T) {
	s := fixedSigner()

	out, err := s.Sign(context.Background(), SignInput{
		Region:        "us-east-1",
		ForwardToHost: "bedrock-runtime.us-east-1.amazonaws.com",
		Method:        "POST",
		URLString:     "https://gateway.example.com/model/anthropic.claude-3/invoke",
		RequestHeaders: map[string]string{
			HeaderAccessKey: "AKIDEXAMPLE",
			HeaderSecretKey: "wJalrXUtnFEMI",
			"content-type":  "application/json",
		},
	}, []byte(`{"prompt":"hello"}`))
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3", out.Model)
	assert.Equal(t, "bedrock-runtime.us-east-1.amazonaws.com", out.NewHeaders["host"])

	auth := out.NewHeaders["authorization"]
	assert.Contains(t, auth, "AWS4-HMAC-SHA256")
	assert.Contains(t, auth, "Credential=AKIDEXAMPLE/20250601/us-east-1/bedrock/aws4_request")
	assert.NotEmpty(t, out.NewHeaders["x-amz-date"])
}

func TestSignerSessionToken(t *testing.T) {
	s := fixedSigner()

	out, err := s.Sign(context.Background(), SignInput{
		Region:        "us-west-2",
		ForwardToHost: "bedrock-runtime.us-west-2.amazonaws.com",
		Method:        "POST",
		URLString:     "https://gateway.example.com/model/meta.llama3-70b/invoke",
		RequestHeaders: map[string]string{
			HeaderAccessKey:    "ASIAEXAMPLE",
			HeaderSecretKey:    "secret",
			HeaderSessionToken: "session-token-value",
		},
	}, []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "session-token-value", out.NewHeaders["x-amz-security-token"])
}

func TestSignerMissingCredentials(t *testing.T) {
	s := fixedSigner()

	_, err := s.Sign(context.Background(), SignInput{
		Region:         "us-east-1",
		ForwardToHost:  "bedrock-runtime.us-east-1.amazonaws.com",
		Method:         "POST",
		URLString:      "https://gateway.example.com/model/x/invoke",
		RequestHeaders: map[string]string{HeaderAccessKey: "AKIDEXAMPLE"},
	}, []byte("{}"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), HeaderSecretKey)
}

func TestSignerDropsNonPassthroughHeaders(t *testing.T) {
	s := fixedSigner()

	out, err := s.Sign(context.Background(), SignInput{
		Region:        "us-east-1",
		ForwardToHost: "bedrock-runtime.us-east-1.amazonaws.com",
		Method:        "POST",
		URLString:     "https://gateway.example.com/model/anthropic.claude-3/invoke",
		RequestHeaders: map[string]string{
			HeaderAccessKey: "AKIDEXAMPLE",
			HeaderSecretKey: "secret",
			"content-type":  "application/json",
			"authorization": "Bearer attacker-controlled",
			"cookie":        "session=abc",
		},
	}, []byte("{}"))
	require.NoError(t, err)

	// The caller's authorization header must not survive into the signed set
	assert.Contains(t, out.NewHeaders["authorization"], "AWS4-HMAC-SHA256")
	assert.NotContains(t, out.NewHeaders, "cookie")

	// Credential headers never leak into the outbound header set either
	assert.NotContains(t, out.NewHeaders, HeaderAccessKey)
	assert.NotContains(t, out.NewHeaders, HeaderSecretKey)
}

func TestModelFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/model/anthropic.claude-3/invoke", "anthropic.claude-3"},
		{"/model/meta.llama3-70b/invoke-with-response-stream", "meta.llama3-70b"},
		{"/invoke", ""},
		{"", ""},
		{"/model/x/", "model"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, modelFromPath(tt.path), "path %q", tt.path)
	}
}
