package showcase

import (
	"context"
	"fmt"
	"time"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/pkg/utils"
	"go.uber.org/zap"
)

// Sink receives exported downloads, e.g. a browser response or a directory.
type Sink interface {
	Save(ctx context.Context, download models.Download) error
}

type SinkFunc func(ctx context.Context, download models.Download) error

func (f SinkFunc) Save(ctx context.Context, download models.Download) error {
	return f(ctx, download)
}

// Load returns ErrNotFound when there is no usable record for id.
func (s *Service) Load(ctx context.Context, id string) (*models.ClientRecord, error) {
	record, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// Export turns an encoded image back into bytes ready to be saved.
func (s *Service) Export(img models.EncodedImage, filename string) (models.Download, error) {
	data, mimeType, err := dataurl.Parse(img)
	if err != nil {
		return models.Download{}, err
	}
	return models.Download{
		Filename:    filename,
		ContentType: mimeType,
		Data:        data,
	}, nil
}

// ExportSlot exports one image of record under its conventional filename.
func (s *Service) ExportSlot(record *models.ClientRecord, slot models.Slot) (models.Download, error) {
	download, err := s.Export(record.Image(slot), "")
	if err != nil {
		return models.Download{}, &ImageError{Slot: slot, Err: err}
	}
	download.Filename = utils.GenerateFilename(record.Name, string(slot), download.ContentType)
	return download, nil
}

// ExportPair saves the before image, waits the export delay, then saves the
// after image. Cancelling ctx aborts the wait.
func (s *Service) ExportPair(ctx context.Context, record *models.ClientRecord, sink Sink) error {
	for i, slot := range []models.Slot{models.SlotBefore, models.SlotAfter} {
		if i > 0 {
			if err := s.wait(ctx); err != nil {
				return err
			}
		}

		download, err := s.ExportSlot(record, slot)
		if err != nil {
			return err
		}
		if err := sink.Save(ctx, download); err != nil {
			return fmt.Errorf("failed to save %s image: %w", slot, err)
		}

		s.logger.Info("Image exported",
			zap.String("id", record.ID),
			zap.String("slot", string(slot)),
			zap.String("filename", download.Filename),
			zap.Int("bytes", len(download.Data)))
	}
	return nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.policy.ExportDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.policy.ExportDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
