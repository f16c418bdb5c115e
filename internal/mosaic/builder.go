package mosaic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/handiism/cover-mosaic/internal/arrange"
	"github.com/handiism/cover-mosaic/internal/artwork"
	"github.com/handiism/cover-mosaic/internal/catalog"
	"github.com/handiism/cover-mosaic/internal/compose"
	"github.com/handiism/cover-mosaic/internal/config"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
	"github.com/handiism/cover-mosaic/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a build progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is a finished mosaic.
type Result struct {
	Image    *image.NRGBA
	Catalog  model.Catalog
	Order    model.Order
	Outcomes []catalog.Outcome

	// Side is the lattice edge in tiles; CellSize the tile edge in pixels.
	Side     int
	CellSize int

	// Dropped counts albums left out by truncation.
	Dropped int
}

// Placeholders returns how many placed tiles are black placeholders.
func (r *Result) Placeholders() int {
	n := 0
	for _, idx := range r.Order {
		if idx != model.Blank && r.Catalog[idx].Placeholder {
			n++
		}
	}
	return n
}

// Builder coordinates artwork loading, arrangement and composition.
type Builder struct {
	cfg      *config.Config
	provider artwork.Provider
	policy   arrange.Policy
	strategy arrange.Strategy
	images   *ioutils.ImageService
	logger   *log.Logger

	onProgress func(ProgressEvent)

	resolved atomic.Int32
	total    atomic.Int32
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithProgress registers a progress callback.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(b *Builder) { b.onProgress = fn }
}

// NewBuilder creates a Builder. cfg has already been validated, so no
// configuration error can occur past this point.
func NewBuilder(cfg *config.Config, provider artwork.Provider, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		provider: provider,
		policy:   arrange.Policy{Overflow: cfg.Overflow(), MaxTiles: cfg.MaxTiles()},
		strategy: arrange.New(cfg),
		images:   ioutils.NewImageService(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the mosaic for records.
//
// The lattice is sized before any lookup so that an empty, non-square
// (under the reject policy) or oversized catalog fails fast. Failed
// lookups become placeholders and never fail the build.
func (b *Builder) Build(ctx context.Context, records []catalog.Record) (*Result, error) {
	res, err := b.build(ctx, records)
	if err != nil && ctx.Err() == nil {
		b.progress(ProgressEvent{Message: mosaicerr.UserMessage(err), Level: LevelError})
	}
	return res, err
}

func (b *Builder) build(ctx context.Context, records []catalog.Record) (*Result, error) {
	layout, err := b.policy.Layout(len(records))
	if err != nil {
		return nil, err
	}
	b.total.Store(int32(len(records)))
	b.resolved.Store(0)

	b.progress(ProgressEvent{Message: fmt.Sprintf("Resolving artwork for %d albums", len(records)), Level: LevelInfo})
	loader := catalog.NewLoader(b.provider, catalog.LoaderOptions{
		Concurrency:     b.cfg.Artwork().Concurrency,
		PlaceholderSize: b.cfg.Artwork().PlaceholderSize,
		Logger:          b.logger,
		OnResolved:      b.onResolved,
	})
	cat, outcomes, err := loader.Load(ctx, records)
	if err != nil {
		return nil, err
	}
	if n := len(cat.Placeholders()); n > 0 {
		b.progress(ProgressEvent{Message: fmt.Sprintf("%d of %d albums use a placeholder", n, len(cat)), Level: LevelWarning})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.progress(ProgressEvent{Message: fmt.Sprintf("Arranging by %s on a %dx%d grid", b.cfg.SortMethod(), layout.Side, layout.Side), Level: LevelInfo})
	order, err := b.strategy.Arrange(cat)
	if err != nil {
		return nil, err
	}
	if len(order) != layout.Cells() {
		return nil, mosaicerr.New(mosaicerr.ErrCodeInternal, "arrangement has %d cells, want %d", len(order), layout.Cells())
	}

	dropped := len(cat) - order.Placed()
	if dropped > 0 {
		b.logger.Warn("catalog truncated to a square", "albums", len(cat), "placed", order.Placed(), "dropped", dropped)
		b.progress(ProgressEvent{Message: fmt.Sprintf("Dropped %d albums to fit a %dx%d grid", dropped, layout.Side, layout.Side), Level: LevelWarning})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cellSize := b.cfg.CellSize(layout.Side)
	b.progress(ProgressEvent{Message: fmt.Sprintf("Composing %dx%d px canvas", layout.Side*cellSize, layout.Side*cellSize), Level: LevelVerbose})
	canvas, err := compose.New(cellSize).Compose(cat, order)
	if err != nil {
		return nil, err
	}

	return &Result{
		Image:    canvas,
		Catalog:  cat,
		Order:    order,
		Outcomes: outcomes,
		Side:     layout.Side,
		CellSize: cellSize,
		Dropped:  dropped,
	}, nil
}

// Save encodes res in the configured format and writes it to path.
func (b *Builder) Save(ctx context.Context, res *Result, path string) error {
	format := ioutils.FormatPNG
	if b.cfg.Format() == config.FormatJPEG {
		format = ioutils.FormatJPEG
	}

	var buf bytes.Buffer
	if err := b.images.Encode(&buf, res.Image, format); err != nil {
		return fmt.Errorf("encoding mosaic: %w", err)
	}
	if err := ioutils.WriteFile(ctx, path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing mosaic: %w", err)
	}

	b.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelSuccess})
	return nil
}

// GetProgress returns how many of the records have been resolved.
func (b *Builder) GetProgress() (resolved, total int32) {
	return b.resolved.Load(), b.total.Load()
}

func (b *Builder) onResolved(done, total int, o catalog.Outcome) {
	b.resolved.Store(int32(done))
	if o.Err != nil {
		b.progress(ProgressEvent{Message: fmt.Sprintf("No artwork for %s, using placeholder", o.Album), Level: LevelWarning})
		return
	}
	b.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] %s", done, total, o.Album), Level: LevelVerbose})
}

func (b *Builder) progress(event ProgressEvent) {
	if b.onProgress != nil {
		b.onProgress(event)
	}
}

// Build validates settings, then builds the mosaic. The provider is not
// consulted when the settings are invalid.
func Build(ctx context.Context, settings *config.Settings, records []catalog.Record, provider artwork.Provider, opts ...Option) (*Result, error) {
	cfg, err := config.New(settings)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cfg, provider, opts...).Build(ctx, records)
}
