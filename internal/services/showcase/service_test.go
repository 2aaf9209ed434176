package showcase

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTranscoder wraps the real transcoder and counts calls.
type countingTranscoder struct {
	inner Transcoder
	calls atomic.Int32
	fail  map[models.Slot]error
}

func (c *countingTranscoder) Transcode(candidate models.UploadCandidate, maxDimension int, quality float64) (*models.CompressedImage, error) {
	c.calls.Add(1)
	if err, ok := c.fail[models.Slot(candidate.Filename)]; ok {
		return nil, err
	}
	return c.inner.Transcode(candidate, maxDimension, quality)
}

// spyStore records writes and can force the probe result.
type spyStore struct {
	*storage.RecordStore
	probe storage.Capacity
	puts  int
}

func (s *spyStore) ProbeCapacity(ctx context.Context) storage.Capacity {
	if s.probe == storage.CapacityExhausted {
		return storage.CapacityExhausted
	}
	return s.RecordStore.ProbeCapacity(ctx)
}

func (s *spyStore) Put(ctx context.Context, record *models.ClientRecord) error {
	s.puts++
	return s.RecordStore.Put(ctx, record)
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []*models.ClientRecord
	err     error
}

func (p *recordingPublisher) PublishCreated(_ context.Context, record *models.ClientRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
	return p.err
}

type fixture struct {
	service    *Service
	transcoder *countingTranscoder
	store      *spyStore
	namespace  *storage.MemoryNamespace
	publisher  *recordingPublisher
}

func newFixture(t *testing.T, quota int64) *fixture {
	t.Helper()

	ns := storage.NewMemoryNamespace(quota)
	store := &spyStore{RecordStore: storage.NewRecordStore(ns, "memory", 0, nil)}
	transcoder := &countingTranscoder{inner: processor.NewImageProcessor(), fail: map[models.Slot]error{}}
	publisher := &recordingPublisher{}
	clock := func() time.Time { return time.Date(2025, 3, 7, 15, 4, 5, 0, time.UTC) }

	svc := NewService(
		processor.NewValidator(processor.DefaultMaxFileSize, config.DefaultAllowedTypes),
		transcoder,
		dataurl.NewEncoder(time.Second),
		store,
		Policy{MaxDimension: processor.DefaultMaxDimension, Quality: processor.DefaultQuality},
		nil,
		WithPublisher(publisher),
		WithClock(clock),
	)

	return &fixture{service: svc, transcoder: transcoder, store: store, namespace: ns, publisher: publisher}
}

func jpegCandidate(t *testing.T, slot models.Slot, width, height int) models.UploadCandidate {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, imaging.Encode(buf, img, imaging.JPEG))
	return models.UploadCandidate{
		Filename: string(slot),
		MimeType: "image/jpeg",
		Size:     int64(buf.Len()),
		Content:  bytes.NewReader(buf.Bytes()),
	}
}

func validRequest(t *testing.T) CreateRequest {
	return CreateRequest{
		Name:     "Joe's Diner",
		Category: "restaurant",
		Before:   jpegCandidate(t, models.SlotBefore, 800, 600),
		After:    jpegCandidate(t, models.SlotAfter, 800, 600),
	}
}

func TestCreate_JoesDiner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	record, err := f.service.Create(ctx, validRequest(t))
	require.NoError(t, err)

	assert.Len(t, record.ID, 26)
	assert.Equal(t, "Joe's Diner", record.Name)
	assert.Equal(t, models.CategoryRestaurant, record.Type)
	assert.Equal(t, "3/7/2025", record.Date)
	assert.True(t, strings.HasPrefix(string(record.BeforeImage), "data:image/jpeg;base64,"))
	assert.True(t, strings.HasPrefix(string(record.AfterImage), "data:image/jpeg;base64,"))

	loaded, err := f.service.Load(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	require.Len(t, f.publisher.records, 1)
	assert.Equal(t, record.ID, f.publisher.records[0].ID)
	assert.Equal(t, 1, f.namespace.Len(), "probe key must be removed")
}

func TestCreate_SanitizesName(t *testing.T) {
	f := newFixture(t, 0)
	req := validRequest(t)
	req.Name = "  <b>Bella</b> & Co<script>alert(1)</script> "

	record, err := f.service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Bella & Co", record.Name)
}

func TestCreate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"blank name", func(r *CreateRequest) { r.Name = "   " }, ErrMissingFields},
		{"markup only name", func(r *CreateRequest) { r.Name = "<p></p>" }, ErrMissingFields},
		{"no category", func(r *CreateRequest) { r.Category = "" }, ErrMissingFields},
		{"no before image", func(r *CreateRequest) { r.Before = models.UploadCandidate{} }, ErrMissingFields},
		{"no after image", func(r *CreateRequest) { r.After = models.UploadCandidate{} }, ErrMissingFields},
		{"unknown category", func(r *CreateRequest) { r.Category = "bakery" }, ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			req := validRequest(t)
			tt.mutate(&req)

			_, err := f.service.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
			assert.Zero(t, f.transcoder.calls.Load())
			assert.Zero(t, f.store.puts)
		})
	}
}

func TestCreate_OversizedImageRejectedWithoutWrite(t *testing.T) {
	f := newFixture(t, 0)
	req := validRequest(t)
	req.After.Size = 15 * 1024 * 1024

	_, err := f.service.Create(context.Background(), req)
	require.Error(t, err)

	var imgErr *ImageError
	require.ErrorAs(t, err, &imgErr)
	assert.Equal(t, models.SlotAfter, imgErr.Slot)

	var validationErr *processor.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, models.ReasonTooLarge, validationErr.Reason)

	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(err))
	assert.Contains(t, UserMessage(err), "too large")
	assert.Zero(t, f.transcoder.calls.Load())
	assert.Zero(t, f.store.puts)
	assert.Zero(t, f.namespace.Len())
}

func TestCreate_ValidationChecksBeforeFirst(t *testing.T) {
	f := newFixture(t, 0)
	req := validRequest(t)
	req.Before.MimeType = "application/pdf"
	req.After.MimeType = "image/gif"

	_, err := f.service.Create(context.Background(), req)

	var imgErr *ImageError
	require.ErrorAs(t, err, &imgErr)
	assert.Equal(t, models.SlotBefore, imgErr.Slot)
	assert.Equal(t, "Please select valid image files only.", UserMessage(err))
}

func TestCreate_ExhaustedProbeBlocksBeforeTranscoding(t *testing.T) {
	f := newFixture(t, 0)
	f.store.probe = storage.CapacityExhausted

	_, err := f.service.Create(context.Background(), validRequest(t))

	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Equal(t, http.StatusInsufficientStorage, HTTPStatus(err))
	assert.Zero(t, f.transcoder.calls.Load())
	assert.Zero(t, f.store.puts)
	assert.Empty(t, f.publisher.records)
}

func TestCreate_RealQuotaTooSmallForProbe(t *testing.T) {
	f := newFixture(t, 512*1024)

	_, err := f.service.Create(context.Background(), validRequest(t))

	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Zero(t, f.transcoder.calls.Load())
	assert.Zero(t, f.namespace.Used())
}

func TestCreate_NoPartialRecord(t *testing.T) {
	f := newFixture(t, 0)
	f.transcoder.fail[models.SlotAfter] = errors.Join(processor.ErrDecode, errors.New("corrupt"))

	_, err := f.service.Create(context.Background(), validRequest(t))

	var imgErr *ImageError
	require.ErrorAs(t, err, &imgErr)
	assert.Equal(t, models.SlotAfter, imgErr.Slot)
	assert.ErrorIs(t, err, processor.ErrDecode)
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))

	assert.Equal(t, int32(2), f.transcoder.calls.Load(), "both pipelines run")
	assert.Zero(t, f.store.puts)
	assert.Zero(t, f.namespace.Len())
	assert.Empty(t, f.publisher.records)
}

func TestCreate_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t, 0)
	f.publisher.err = errors.New("broker down")

	record, err := f.service.Create(context.Background(), validRequest(t))
	require.NoError(t, err)

	_, err = f.service.Load(context.Background(), record.ID)
	assert.NoError(t, err)
}

func TestCreate_PutFailureSurfacesQuota(t *testing.T) {
	// Room for the probe filler but not for a real record.
	f := newFixture(t, 1024*1024+64)

	_, err := f.service.Create(context.Background(), validRequest(t))

	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Equal(t, int32(2), f.transcoder.calls.Load())
	assert.Equal(t, 1, f.store.puts)
	assert.Zero(t, f.namespace.Len())
	assert.Empty(t, f.publisher.records)
}

func TestLoad_NotFound(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.service.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))

	require.NoError(t, f.namespace.SetItem(context.Background(), "client_broken", "{not json"))
	_, err = f.service.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrNotFound)
}
