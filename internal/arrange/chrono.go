package arrange

import (
	"slices"

	"github.com/handiism/cover-mosaic/internal/model"
)

// Chronological orders albums by release date, oldest first.
type Chronological struct {
	policy Policy
}

// NewChronological creates a date ordering strategy.
func NewChronological(policy Policy) *Chronological {
	return &Chronological{policy: policy}
}

// Arrange implements Strategy. Albums with unknown dates follow all dated
// ones; equal dates keep catalog order. Under truncation the earliest
// side*side albums are kept; padding goes at the end.
func (c *Chronological) Arrange(catalog model.Catalog) (model.Order, error) {
	layout, err := c.policy.Layout(len(catalog))
	if err != nil {
		return nil, err
	}

	sorted := make([]int, len(catalog))
	for i := range sorted {
		sorted[i] = i
	}
	slices.SortStableFunc(sorted, func(a, b int) int {
		return compareReleased(catalog[a], catalog[b])
	})

	order := make(model.Order, layout.Cells())
	for i := range order {
		if i < layout.Participants {
			order[i] = sorted[i]
		} else {
			order[i] = model.Blank
		}
	}
	return order, nil
}

func compareReleased(a, b *model.Album) int {
	switch {
	case a.HasReleased() && b.HasReleased():
		return a.Released.Compare(b.Released)
	case a.HasReleased():
		return -1
	case b.HasReleased():
		return 1
	default:
		return 0
	}
}
