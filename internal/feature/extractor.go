// Package feature reduces cover art to a small color descriptor.
//
// Each bitmap is scaled to 64x64 with Catmull-Rom, converted to HSV and
// averaged per channel, giving one (hue, saturation, value) vector per
// album:
//
//	ex := feature.NewExtractor()
//	v := ex.Extract(img)          // [3]float64
//	m := ex.ExtractAll(images)    // N x 3 matrix
package feature

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"

	ioutils "github.com/handiism/cover-mosaic/internal/io"
)

const (
	// Size is the edge of the thumbnail features are computed on.
	Size = 64

	// Dimensions is the length of a feature vector.
	Dimensions = 3
)

// Vector is the mean (hue, saturation, value) of an image.
// Hue is in degrees [0,360), saturation and value in [0,1].
type Vector [Dimensions]float64

// Extractor computes feature vectors. It holds no state between calls, so
// the same bitmap always yields the same vector.
type Extractor struct {
	size   int
	images *ioutils.ImageService
}

// NewExtractor creates an Extractor working on Size x Size thumbnails.
func NewExtractor() *Extractor {
	return &Extractor{size: Size, images: ioutils.NewImageService()}
}

// Extract returns the feature vector of img. img is not modified.
func (e *Extractor) Extract(img image.Image) Vector {
	thumb := e.images.Resize(img, e.size, e.size)

	var sum Vector
	for y := 0; y < e.size; y++ {
		for x := 0; x < e.size; x++ {
			p := thumb.RGBAAt(x, y)
			c := colorful.Color{
				R: float64(p.R) / 255,
				G: float64(p.G) / 255,
				B: float64(p.B) / 255,
			}
			h, s, v := c.Hsv()
			sum[0] += h
			sum[1] += s
			sum[2] += v
		}
	}

	n := float64(e.size * e.size)
	return Vector{sum[0] / n, sum[1] / n, sum[2] / n}
}

// ExtractAll returns an N x Dimensions matrix whose row i is the feature
// vector of images[i]. images must not be empty.
func (e *Extractor) ExtractAll(images []image.Image) *mat.Dense {
	m := mat.NewDense(len(images), Dimensions, nil)
	for i, img := range images {
		v := e.Extract(img)
		m.SetRow(i, v[:])
	}
	return m
}
