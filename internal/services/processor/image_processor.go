package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/showcase/internal/models"

	// Formats imaging does not register on its own.
	_ "github.com/gen2brain/heic"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1200
	DefaultQuality      = 0.7
	OutputMimeType      = "image/jpeg"
	DefaultMaxPixels    = 50_000_000
)

// ImageProcessor decodes an upload, downsamples it to fit a square bound and
// re-encodes it as JPEG regardless of the input format.
type ImageProcessor struct {
	maxPixels int64
}

type Option func(*ImageProcessor)

// WithMaxPixels caps width*height of a source before it is decoded.
func WithMaxPixels(n int64) Option {
	return func(p *ImageProcessor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

func NewImageProcessor(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ImageProcessor) MaxPixels() int64 {
	return p.maxPixels
}

// Transcode is lossy and irreversible. quality is on a 0-1 scale.
func (p *ImageProcessor) Transcode(candidate models.UploadCandidate, maxDimension int, quality float64) (*models.CompressedImage, error) {
	if candidate.Content == nil {
		return nil, decodeError(errors.New("no image content"))
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	data, err := io.ReadAll(candidate.Content)
	if err != nil {
		return nil, decodeError(err)
	}

	// The header declares the raster size; refuse it before allocating.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return nil, decodeError(fmt.Errorf("%dx%d exceeds the %d pixel limit", cfg.Width, cfg.Height, p.maxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, decodeError(err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, decodeError(fmt.Errorf("empty raster %dx%d", bounds.Dx(), bounds.Dy()))
	}

	processed := p.fitImage(img, maxDimension)
	processed = p.flatten(processed)

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, processed, jpegQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	out := processed.Bounds()
	return &models.CompressedImage{
		Data:     buffer.Bytes(),
		MimeType: OutputMimeType,
		Width:    out.Dx(),
		Height:   out.Dy(),
	}, nil
}

func (p *ImageProcessor) fitImage(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width, height := ScaledDimensions(bounds.Dx(), bounds.Dy(), maxDimension)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}
	return p.resizeImage(img, width, height)
}
