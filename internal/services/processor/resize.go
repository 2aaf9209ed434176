package processor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ScaledDimensions applies a uniform scale of min(max/w, max/h) when that
// shrinks the image; smaller images keep their size.
func ScaledDimensions(width, height, maxDimension int) (int, int) {
	if width <= 0 || height <= 0 || maxDimension <= 0 {
		return width, height
	}

	scale := math.Min(float64(maxDimension)/float64(width), float64(maxDimension)/float64(height))
	if scale >= 1 {
		return width, height
	}

	scaledWidth := max(1, int(math.Round(float64(width)*scale)))
	scaledHeight := max(1, int(math.Round(float64(height)*scale)))
	return min(scaledWidth, maxDimension), min(scaledHeight, maxDimension)
}

// resizeImage resizes the image using Lanczos resampling
func (p *ImageProcessor) resizeImage(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// flatten composites the image over white so transparent regions do not turn
// black in the JPEG output.
func (p *ImageProcessor) flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}
