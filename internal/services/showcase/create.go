package showcase

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/storage"
	"go.uber.org/zap"
)

type CreateRequest struct {
	Name     string
	Category string
	Before   models.UploadCandidate
	After    models.UploadCandidate
}

type pipelineResult struct {
	image models.EncodedImage
	err   error
}

// Create runs both images through validate, transcode and encode, and stores
// the record only when both succeed. The capacity probe runs before any
// transcoding starts.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.ClientRecord, error) {
	// StrictPolicy escapes entities as well as stripping markup.
	name := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(req.Name)))
	categoryValue := strings.TrimSpace(req.Category)
	if name == "" || categoryValue == "" || req.Before.Content == nil || req.After.Content == nil {
		return nil, ErrMissingFields
	}

	category, ok := models.ParseCategory(categoryValue)
	if !ok {
		return nil, ErrUnknownCategory
	}

	if err := s.validate(models.SlotBefore, req.Before); err != nil {
		return nil, err
	}
	if err := s.validate(models.SlotAfter, req.After); err != nil {
		return nil, err
	}

	if s.store.ProbeCapacity(ctx) == storage.CapacityExhausted {
		s.logger.Warn("Rejecting showcase, storage capacity exhausted", zap.String("name", name))
		return nil, fmt.Errorf("%w: capacity probe failed", storage.ErrQuotaExceeded)
	}

	var (
		wg            sync.WaitGroup
		before, after pipelineResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		before.image, before.err = s.process(ctx, models.SlotBefore, req.Before)
	}()
	go func() {
		defer wg.Done()
		after.image, after.err = s.process(ctx, models.SlotAfter, req.After)
	}()
	wg.Wait()

	if before.err != nil {
		return nil, before.err
	}
	if after.err != nil {
		return nil, after.err
	}

	record := &models.ClientRecord{
		ID:          s.newID(),
		Name:        name,
		Type:        category,
		BeforeImage: before.image,
		AfterImage:  after.image,
		Date:        s.now().Format(DateLayout),
	}

	if err := s.store.Put(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Showcase created",
		zap.String("id", record.ID),
		zap.String("type", string(record.Type)),
		zap.Int("before_bytes", len(record.BeforeImage)),
		zap.Int("after_bytes", len(record.AfterImage)))

	s.publish(ctx, record)

	return record, nil
}

func (s *Service) validate(slot models.Slot, candidate models.UploadCandidate) error {
	result := s.validator.Validate(candidate)
	if err := processor.ValidationErr(result); err != nil {
		s.logger.Info("Image rejected",
			zap.String("slot", string(slot)),
			zap.String("filename", candidate.Filename),
			zap.String("mime_type", candidate.MimeType),
			zap.Int64("size", candidate.Size),
			zap.String("reason", result.Reason))
		return &ImageError{Slot: slot, Err: err}
	}
	return nil
}

func (s *Service) process(ctx context.Context, slot models.Slot, candidate models.UploadCandidate) (models.EncodedImage, error) {
	compressed, err := s.transcoder.Transcode(candidate, s.policy.MaxDimension, s.policy.Quality)
	if err != nil {
		s.logger.Warn("Failed to transcode image",
			zap.String("slot", string(slot)),
			zap.String("filename", candidate.Filename),
			zap.Error(err))
		return "", &ImageError{Slot: slot, Err: err}
	}

	encoded, err := s.encoder.Encode(ctx, bytes.NewReader(compressed.Data), compressed.MimeType)
	if err != nil {
		s.logger.Warn("Failed to encode image",
			zap.String("slot", string(slot)),
			zap.Int("bytes", len(compressed.Data)),
			zap.Error(err))
		return "", &ImageError{Slot: slot, Err: err}
	}

	s.logger.Debug("Image processed",
		zap.String("slot", string(slot)),
		zap.Int64("original_size", candidate.Size),
		zap.Int("compressed_size", len(compressed.Data)),
		zap.Int("width", compressed.Width),
		zap.Int("height", compressed.Height))

	return encoded, nil
}

func (s *Service) publish(ctx context.Context, record *models.ClientRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCreated(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Warn("Failed to publish showcase event", zap.String("id", record.ID), zap.Error(err))
	}
}
