package ioutils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	// Decoders for artwork formats served by providers.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// ImageFormat is an output encoding supported by ImageService.Encode.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)

// ImageService provides the image operations shared by the pipeline.
//
// ImageService is used to:
//   - Decode artwork bytes returned by providers (JPEG, PNG, GIF, WebP, BMP, TIFF)
//   - Resize bitmaps with the Catmull-Rom filter
//   - Build the black placeholder bitmap
//   - Encode the finished canvas as PNG or JPEG
//
// Example usage:
//
//	svc := NewImageService()
//
//	img, _ := svc.Decode(artworkBytes)
//	small := svc.Resize(img, 64, 64)
//	_ = svc.Encode(w, canvas, FormatPNG)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Decode decodes image bytes in any registered format.
func (s *ImageService) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Resize scales img to exactly width x height. The aspect ratio is not
// preserved; cover art is expected to be square.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
func (s *ImageService) Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Placeholder returns a uniform opaque black bitmap of size x size.
// It stands in for artwork that could not be acquired.
func (s *ImageService) Placeholder(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	return img
}

// Encode writes img to w in the given format. JPEG output uses quality 90.
func (s *ImageService) Encode(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(90))
	default:
		return imaging.Encode(w, img, imaging.PNG)
	}
}
