package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/domain"
	"github.com/calder-ai/relaycore/internal/platform/validation"
)

// Metadata is the observability view of a staged entry. The convenience
// fields are best-effort parsed at ingest and may be absent.
type Metadata struct {
	IsStream bool   `json:"isStream,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Model    string `json:"model,omitempty"`
	Size     int64  `json:"size"`
}

// Options configures a staging Service.
type Options struct {
	MaxBodyBytes      int64
	TTL               time.Duration
	UnsafeReadEnabled bool
	UpstreamTimeout   time.Duration
	Logger            *zap.Logger
}

// Service implements the request-staging operations over an injected store.
// Per-key operations are independent; the store carries the locking.
type Service struct {
	store     Store
	signer    *Signer
	uploader  *Uploader
	validator *validation.Validator
	logger    *zap.Logger

	maxBodyBytes int64
	ttl          time.Duration
	unsafeRead   bool

	now func() time.Time
}

func NewService(store Store, opts Options) *Service {
	return &Service{
		store:        store,
		signer:       NewSigner(),
		uploader:     NewUploader(opts.UpstreamTimeout),
		validator:    validation.New(),
		logger:       opts.Logger,
		maxBodyBytes: opts.MaxBodyBytes,
		ttl:          opts.TTL,
		unsafeRead:   opts.UnsafeReadEnabled,
		now:          time.Now,
	}
}

// Ingest streams the body into memory, counting bytes. The copy is capped
// one byte past the maximum so an oversized payload is rejected as soon as
// the cap is crossed, and nothing is retained for the key. On success any
// prior entry under the key is overwritten.
func (s *Service) Ingest(ctx context.Context, id string, body io.Reader) (*Metadata, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, s.maxBodyBytes+1))
	if err != nil {
		return nil, domain.InternalError("failed to read request body", err)
	}
	if n > s.maxBodyBytes {
		return nil, domain.PayloadTooLargeError(s.maxBodyBytes)
	}

	entry := &Entry{
		Data:      buf.Bytes(),
		Size:      n,
		ExpiresAt: s.now().Add(s.ttl),
	}

	// Convenience fields for observability only; non-JSON bodies are fine
	var probe struct {
		Stream bool   `json:"stream"`
		User   string `json:"user"`
		Model  string `json:"model"`
	}
	if err := json.Unmarshal(entry.Data, &probe); err == nil {
		entry.IsStream = probe.Stream
		entry.UserID = probe.User
		entry.Model = probe.Model
	}

	if err := s.store.Put(ctx, id, entry); err != nil {
		return nil, domain.InternalError("failed to stage request body", err)
	}

	s.logger.Debug("staged request body",
		zap.String("request_id", id),
		zap.Int64("size", n),
		zap.Bool("is_stream", entry.IsStream),
	)

	return metadataOf(entry), nil
}

// Metadata returns the entry's observability fields without touching its TTL.
func (s *Service) Metadata(ctx context.Context, id string) (*Metadata, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return metadataOf(entry), nil
}

// ReadRaw returns the staged bytes. Refused unless the diagnostics toggle is
// enabled; raw bodies can carry customer payloads.
func (s *Service) ReadRaw(ctx context.Context, id string) ([]byte, error) {
	if !s.unsafeRead {
		return nil, domain.ForbiddenError("unsafe read is disabled")
	}
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry.Data, nil
}

// BodyLength returns the staged byte count.
func (s *Service) BodyLength(ctx context.Context, id string) (int64, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return 0, err
	}
	return entry.Size, nil
}

// ReplaceBody atomically substitutes the staged bytes under the key,
// refreshing convenience fields. The expiry window restarts; the caller is
// about to archive, not to let the entry rot.
func (s *Service) ReplaceBody(ctx context.Context, id string, body []byte) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	entry := &Entry{
		Data:      body,
		Size:      int64(len(body)),
		ExpiresAt: s.now().Add(s.ttl),
	}
	var probe struct {
		Stream bool   `json:"stream"`
		User   string `json:"user"`
		Model  string `json:"model"`
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		entry.IsStream = probe.Stream
		entry.UserID = probe.User
		entry.Model = probe.Model
	}

	if err := s.store.Put(ctx, id, entry); err != nil {
		return domain.InternalError("failed to replace staged body", err)
	}
	return nil
}

// Delete evicts the key. Idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return domain.InternalError("failed to delete staged entry", err)
	}
	return nil
}

// SignRequest validates the signing input, then computes the SigV4 header
// set over the staged body. Malformed input is rejected before any lookup
// work, distinctly from a missing entry.
func (s *Service) SignRequest(ctx context.Context, id string, in SignInput) (*SignOutput, error) {
	if fieldErrors := s.validator.Struct(in); fieldErrors != nil {
		return nil, domain.ValidationError(fieldErrors)
	}

	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.signer.Sign(ctx, in, entry.Data)
	if err != nil {
		return nil, domain.UpstreamError("request signing failed", err)
	}
	return out, nil
}

// Archive uploads the request/response envelope for the key to object
// storage. Credentials arrive per call and are never stored.
func (s *Service) Archive(ctx context.Context, id string, in ArchiveInput, creds map[string]string) (*UploadResult, error) {
	if fieldErrors := s.validator.Struct(in); fieldErrors != nil {
		return nil, domain.ValidationError(fieldErrors)
	}

	awsCreds, err := credentialsFromHeaders(creds)
	if err != nil {
		return nil, domain.ValidationError(map[string]string{"credentials": err.Error()})
	}
	region := regionFromHeaders(creds)
	if region == "" {
		return nil, domain.ValidationError(map[string]string{HeaderRegion: "required header is missing"})
	}

	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.Upload(ctx, entry.Data, in, awsCreds, region)
	if err != nil {
		return nil, domain.UpstreamError("object store upload failed", err)
	}
	return result, nil
}

func (s *Service) get(ctx context.Context, id string) (*Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.NotFoundError(id)
	}
	if err != nil {
		return nil, domain.InternalError("staged entry lookup failed", err)
	}
	return entry, nil
}

func metadataOf(entry *Entry) *Metadata {
	return &Metadata{
		IsStream: entry.IsStream,
		UserID:   entry.UserID,
		Model:    entry.Model,
		Size:     entry.Size,
	}
}

func regionFromHeaders(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, HeaderRegion) {
			return v
		}
	}
	return ""
}
