package arrange

import (
	"github.com/handiism/cover-mosaic/internal/config"
	"github.com/handiism/cover-mosaic/internal/embed"
	"github.com/handiism/cover-mosaic/internal/model"
)

// Strategy computes the paste order for a catalog. The returned order has
// length side*side for some side >= 1; every non-blank entry is a distinct
// catalog index.
type Strategy interface {
	Arrange(catalog model.Catalog) (model.Order, error)
}

// New returns the strategy selected by cfg.
func New(cfg *config.Config) Strategy {
	policy := Policy{Overflow: cfg.Overflow(), MaxTiles: cfg.MaxTiles()}

	switch cfg.SortMethod() {
	case config.SortDate:
		return NewChronological(policy)
	default:
		e := cfg.Embedding()
		return NewSpatialCluster(policy, embed.Options{
			Seed:         cfg.Seed(),
			Perplexity:   e.Perplexity,
			Iterations:   e.Iterations,
			LearningRate: e.LearningRate,
		})
	}
}
