package dataurl

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phambaophuc/showcase/internal/models"
)

const DefaultTimeout = 30 * time.Second

// Encoder streams a source into a data URL off the caller's goroutine with a
// hard deadline.
type Encoder struct {
	timeout time.Duration
}

type encodeResult struct {
	payload string
	err     error
}

func NewEncoder(timeout time.Duration) *Encoder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Encoder{timeout: timeout}
}

// Encode reads src to the end and returns its data URL. When the deadline
// passes the source is closed (if it is an io.Closer) and ErrTimeout is
// returned; a cancelled ctx yields ErrUnreadableSource.
func (e *Encoder) Encode(ctx context.Context, src io.Reader, mimeType string) (models.EncodedImage, error) {
	if src == nil {
		return "", fmt.Errorf("%w: no source", ErrUnreadableSource)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results := make(chan encodeResult, 1)
	go func() {
		payload, err := encodePayload(ctx, src)
		results <- encodeResult{payload: payload, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			return "", classify(res.err)
		}
		if len(res.payload) == 0 {
			return "", ErrEmptyResult
		}
		return models.EncodedImage(header(mimeType) + res.payload), nil
	case <-ctx.Done():
		abort(src)
		return "", classify(ctx.Err())
	}
}

func (e *Encoder) Timeout() time.Duration {
	return e.timeout
}

func encodePayload(ctx context.Context, src io.Reader) (string, error) {
	sb := &strings.Builder{}
	enc := base64.NewEncoder(base64.StdEncoding, sb)

	if _, err := io.Copy(enc, &contextReader{ctx: ctx, r: src}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: read aborted", ErrUnreadableSource)
	default:
		return fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
}

// abort releases the underlying read handle.
func abort(src io.Reader) {
	if closer, ok := src.(io.Closer); ok {
		_ = closer.Close()
	}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
