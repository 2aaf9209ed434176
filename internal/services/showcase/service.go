// Package showcase orchestrates the before/after pipeline: validation,
// transcoding, data URL encoding and persistence on the write path, lookup
// and export on the read path.
package showcase

import (
	"context"
	"io"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/storage"
	"go.uber.org/zap"
)

const (
	// DateLayout matches the en-US short date, e.g. 3/7/2025.
	DateLayout = "1/2/2006"

	DefaultExportDelay = 500 * time.Millisecond
)

type Validator interface {
	Validate(candidate models.UploadCandidate) models.ValidationResult
}

type Transcoder interface {
	Transcode(candidate models.UploadCandidate, maxDimension int, quality float64) (*models.CompressedImage, error)
}

type Encoder interface {
	Encode(ctx context.Context, src io.Reader, mimeType string) (models.EncodedImage, error)
}

type Store interface {
	ProbeCapacity(ctx context.Context) storage.Capacity
	Put(ctx context.Context, record *models.ClientRecord) error
	Get(ctx context.Context, id string) (*models.ClientRecord, bool)
}

// Publisher announces stored showcases. Failures never fail a create.
type Publisher interface {
	PublishCreated(ctx context.Context, record *models.ClientRecord) error
}

// Policy is the fixed transcode and export policy.
type Policy struct {
	MaxDimension int
	Quality      float64
	ExportDelay  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDimension: processor.DefaultMaxDimension,
		Quality:      processor.DefaultQuality,
		ExportDelay:  DefaultExportDelay,
	}
}

type Service struct {
	validator  Validator
	transcoder Transcoder
	encoder    Encoder
	store      Store
	publisher  Publisher
	policy     Policy
	logger     *zap.Logger
	sanitizer  *bluemonday.Policy
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(validator Validator, transcoder Transcoder, encoder Encoder, store Store, policy Policy, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MaxDimension <= 0 {
		policy.MaxDimension = processor.DefaultMaxDimension
	}
	if policy.Quality <= 0 || policy.Quality > 1 {
		policy.Quality = processor.DefaultQuality
	}
	if policy.ExportDelay < 0 {
		policy.ExportDelay = 0
	}

	s := &Service{
		validator:  validator,
		transcoder: transcoder,
		encoder:    encoder,
		store:      store,
		policy:     policy,
		logger:     logger,
		sanitizer:  bluemonday.StrictPolicy(),
		now:        time.Now,
		newID:      storage.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Policy() Policy {
	return s.policy
}
