package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/showcase/internal/models"
	"go.uber.org/zap"
)

const (
	RecordKeyPrefix   = "client_"
	probeKeyPrefix    = "__capacity_probe_"
	DefaultProbeBytes = 1024 * 1024 // 1MB
	probeCleanupLimit = 2 * time.Second
)

// Capacity is the advisory result of ProbeCapacity.
type Capacity int

const (
	CapacityOK Capacity = iota
	CapacityExhausted
)

func (c Capacity) String() string {
	if c == CapacityOK {
		return "ok"
	}
	return "exhausted"
}

var ErrIncompleteRecord = errors.New("record is missing required fields")

// RecordStore persists immutable showcase records in a Namespace. There is
// no update or delete.
type RecordStore struct {
	namespace  Namespace
	backend    string
	probeBytes int
	logger     *zap.Logger
}

func NewRecordStore(namespace Namespace, backend string, probeBytes int, logger *zap.Logger) *RecordStore {
	if probeBytes <= 0 {
		probeBytes = DefaultProbeBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{
		namespace:  namespace,
		backend:    backend,
		probeBytes: probeBytes,
		logger:     logger,
	}
}

func RecordKey(id string) string {
	return RecordKeyPrefix + id
}

// ProbeCapacity writes a fixed-size filler under a scratch key and removes it
// again whatever the outcome. The probe size does not track the payload about
// to be written, so a passing probe is no guarantee that Put will succeed.
func (s *RecordStore) ProbeCapacity(ctx context.Context) Capacity {
	key := probeKeyPrefix + uuid.NewString()
	filler := strings.Repeat("x", s.probeBytes)

	err := s.namespace.SetItem(ctx, key, filler)

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeCleanupLimit)
	defer cancel()
	if rmErr := s.namespace.RemoveItem(cleanupCtx, key); rmErr != nil {
		s.logger.Warn("Failed to remove capacity probe", zap.String("key", key), zap.Error(rmErr))
	}

	if err != nil {
		s.logger.Info("Capacity probe failed", zap.Int("probe_bytes", s.probeBytes), zap.Error(err))
		return CapacityExhausted
	}
	return CapacityOK
}

// Put writes the record under client_<id>. Any namespace failure is reported
// as ErrQuotaExceeded.
func (s *RecordStore) Put(ctx context.Context, record *models.ClientRecord) error {
	if !record.Complete() {
		return ErrIncompleteRecord
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.namespace.SetItem(ctx, RecordKey(record.ID), string(data)); err != nil {
		s.logger.Warn("Failed to store record",
			zap.String("id", record.ID),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		if errors.Is(err, ErrQuotaExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}

	return nil
}

// Get returns false when the key is absent, the value is not a well-formed
// record, or the namespace cannot be read.
func (s *RecordStore) Get(ctx context.Context, id string) (*models.ClientRecord, bool) {
	if id == "" {
		return nil, false
	}

	raw, found, err := s.namespace.GetItem(ctx, RecordKey(id))
	if err != nil {
		s.logger.Warn("Failed to read record", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var record models.ClientRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("Failed to unmarshal record", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	if !record.Complete() || record.ID != id {
		s.logger.Warn("Stored record is incomplete", zap.String("id", id))
		return nil, false
	}

	return &record, true
}

func (s *RecordStore) Backend() string {
	return s.backend
}

func (s *RecordStore) Close() error {
	return s.namespace.Close()
}
