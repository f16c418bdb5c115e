package catalog

import (
	"context"
	"image"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/cover-mosaic/internal/artwork"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
	"github.com/handiism/cover-mosaic/internal/model"
)

// Outcome reports how one record was resolved.
type Outcome struct {
	Index  int
	Album  *model.Album
	Source string
	// Err is the lookup failure when Album is a placeholder.
	Err error
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Concurrency bounds in-flight lookups. Default: 4.
	Concurrency int

	// PlaceholderSize is the edge of the black substitute bitmap.
	// Default: 640.
	PlaceholderSize int

	// OnResolved is called after each record, serially, with the number
	// of records done so far.
	OnResolved func(done, total int, o Outcome)

	Logger *log.Logger
}

// Loader turns records into a catalog.
type Loader struct {
	provider    artwork.Provider
	concurrency int
	placeholder image.Image
	onResolved  func(done, total int, o Outcome)
	logger      *log.Logger
}

// NewLoader creates a Loader backed by provider.
func NewLoader(provider artwork.Provider, opts LoaderOptions) *Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.PlaceholderSize <= 0 {
		opts.PlaceholderSize = 640
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Loader{
		provider:    provider,
		concurrency: opts.Concurrency,
		placeholder: ioutils.NewImageService().Placeholder(opts.PlaceholderSize),
		onResolved:  opts.OnResolved,
		logger:      opts.Logger,
	}
}

// Load resolves every record and returns the catalog in record order
// together with one Outcome per record.
//
// A failed lookup never fails the load: the album gets the placeholder
// bitmap, Placeholder is set and a warning is logged. Load only returns an
// error when ctx is cancelled.
func (l *Loader) Load(ctx context.Context, records []Record) (model.Catalog, []Outcome, error) {
	outcomes := make([]Outcome, len(records))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			o := l.resolve(gctx, i, rec)
			if o.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			outcomes[i] = o

			mu.Lock()
			done++
			if l.onResolved != nil {
				l.onResolved(done, len(records), o)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cat := make(model.Catalog, len(records))
	for i, o := range outcomes {
		cat[i] = o.Album
	}
	return cat, outcomes, nil
}

func (l *Loader) resolve(ctx context.Context, i int, rec Record) Outcome {
	art, err := l.provider.Lookup(ctx, rec.Artist, rec.Title)
	if err == nil && (art == nil || art.Image == nil) {
		err = artwork.ErrNotFound
	}
	if err != nil {
		err = mosaicerr.Wrap(mosaicerr.ErrCodeMetadataQuery, err, "%s - %s", rec.Artist, rec.Title)
		if ctx.Err() == nil {
			l.logger.Warn("using placeholder", "artist", rec.Artist, "title", rec.Title, "err", err)
		}
		return Outcome{
			Index: i,
			Album: model.NewPlaceholderAlbum(rec.Artist, rec.Title, l.placeholder),
			Err:   err,
		}
	}

	l.logger.Debug("resolved", "artist", rec.Artist, "title", rec.Title, "source", art.Source)
	return Outcome{
		Index:  i,
		Album:  model.NewAlbum(rec.Artist, rec.Title, art.Image, art.Released),
		Source: art.Source,
	}
}
