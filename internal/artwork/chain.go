package artwork

import (
	"context"
	"errors"
	"fmt"
)

// Chain queries providers in order and returns the first successful
// lookup. It is itself a Provider.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain over providers.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Lookup implements Provider. If every provider misses, the result wraps
// ErrNotFound; if any provider failed for another reason, those errors are
// joined into the result.
func (c *Chain) Lookup(ctx context.Context, artist, title string) (*Artwork, error) {
	var errs []error
	for _, p := range c.providers {
		art, err := p.Lookup(ctx, artist, title)
		if err == nil {
			return art, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%s - %s: %w", artist, title, ErrNotFound)
	}
	return nil, errors.Join(errs...)
}
