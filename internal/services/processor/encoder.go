package processor

import (
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
)

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// jpegQuality maps a 0-1 fidelity onto the JPEG encoder's 1-100 range.
func jpegQuality(quality float64) int {
	if quality <= 0 || math.IsNaN(quality) {
		quality = DefaultQuality
	}
	return min(100, max(1, int(math.Round(quality*100))))
}
