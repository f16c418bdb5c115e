package arrange

import (
	"image"

	"github.com/handiism/cover-mosaic/internal/embed"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	"github.com/handiism/cover-mosaic/internal/feature"
	"github.com/handiism/cover-mosaic/internal/grid"
	"github.com/handiism/cover-mosaic/internal/model"
)

// SpatialCluster arranges albums so that covers of similar color sit
// close together.
type SpatialCluster struct {
	policy    Policy
	extractor *feature.Extractor
	embedder  *embed.Embedder
	assigner  *grid.Assigner
}

// NewSpatialCluster creates a color clustering strategy.
func NewSpatialCluster(policy Policy, opts embed.Options) *SpatialCluster {
	return &SpatialCluster{
		policy:    policy,
		extractor: feature.NewExtractor(),
		embedder:  embed.New(opts),
		assigner:  grid.NewAssigner(),
	}
}

// Arrange implements Strategy. Under truncation the first side*side albums
// in catalog order take part.
func (s *SpatialCluster) Arrange(catalog model.Catalog) (model.Order, error) {
	layout, err := s.policy.Layout(len(catalog))
	if err != nil {
		return nil, err
	}

	ids := make([]int, layout.Participants)
	images := make([]image.Image, layout.Participants)
	for i := range ids {
		ids[i] = i
		images[i] = catalog[i].Artwork
	}

	features := s.extractor.ExtractAll(images)
	embedded, err := s.embedder.Embed(features)
	if err != nil {
		return nil, mosaicerr.Wrap(mosaicerr.ErrCodeInternal, err, "embedding failed")
	}

	points := make([]grid.Point, layout.Participants)
	for i := range points {
		points[i] = grid.Point{X: embedded.At(i, 0), Y: embedded.At(i, 1)}
	}

	asg, err := s.assigner.Assign(points, layout.Side)
	if err != nil {
		return nil, err
	}
	return grid.Sequence(asg.Placements(ids)), nil
}
