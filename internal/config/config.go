package config

import (
	"slices"
	"strings"
	"time"

	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
)

// SortMethod selects the arrangement strategy.
type SortMethod int

const (
	// SortColor clusters artwork by dominant color.
	SortColor SortMethod = iota

	// SortDate orders albums by release date.
	SortDate
)

// String returns the settings name of the sort method.
func (m SortMethod) String() string {
	switch m {
	case SortColor:
		return "color"
	case SortDate:
		return "date"
	default:
		return "unknown"
	}
}

// Overflow is the policy for catalogs whose size is not a perfect square.
type Overflow int

const (
	// OverflowTruncate keeps the first side² albums, side = floor(sqrt(N)).
	OverflowTruncate Overflow = iota

	// OverflowPad places every album on a ceil(sqrt(N)) lattice and leaves
	// the remaining cells blank.
	OverflowPad

	// OverflowReject fails the build.
	OverflowReject
)

// String returns the settings name of the policy.
func (o Overflow) String() string {
	switch o {
	case OverflowTruncate:
		return "truncate"
	case OverflowPad:
		return "pad"
	case OverflowReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Format is the output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// String returns the settings name of the format.
func (f Format) String() string {
	if f == FormatJPEG {
		return "jpeg"
	}
	return "png"
}

// Resolution is the nominal canvas size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// Embedding holds validated t-SNE parameters.
type Embedding struct {
	Perplexity   float64
	Iterations   int
	LearningRate float64
}

// Artwork holds validated acquisition options.
type Artwork struct {
	Providers       []string
	UserAgent       string
	Concurrency     int
	LibraryPath     string
	CacheDir        string
	CacheTTL        time.Duration
	MinScore        int
	RequestInterval time.Duration
	MaxRetries      int
	PlaceholderSize int
}

// Known provider names.
const (
	ProviderMusicBrainz = "musicbrainz"
	ProviderBandcamp    = "bandcamp"
	ProviderLibrary     = "library"
)

var knownProviders = []string{ProviderMusicBrainz, ProviderBandcamp, ProviderLibrary}

// Config is a validated, read-only configuration. The only way to obtain
// one is New, so an invalid Config cannot exist.
type Config struct {
	resolution Resolution
	sortMethod SortMethod
	cellSize   int
	seed       uint64
	overflow   Overflow
	maxTiles   int
	format     Format
	output     string
	embedding  Embedding
	artwork    Artwork
}

// New validates settings and returns the resulting Config.
//
// Returns an INVALID_CONFIG error for malformed values (unknown shape,
// asymmetric square resolution, unknown sort method, ...) and an
// UNSUPPORTED error for shape "rectangle", which has no arrangement
// algorithm.
func New(s *Settings) (*Config, error) {
	m := s.Mosaic

	if len(m.Resolution) != 2 {
		return nil, invalid("resolution must have exactly two values, got %d", len(m.Resolution))
	}
	res := Resolution{Width: m.Resolution[0], Height: m.Resolution[1]}
	if res.Width <= 0 || res.Height <= 0 {
		return nil, invalid("resolution must be positive, got %dx%d", res.Width, res.Height)
	}

	switch strings.ToLower(m.Shape) {
	case "square":
		if res.Width != res.Height {
			return nil, invalid("resolution width and height must match for a square mosaic, got %dx%d", res.Width, res.Height)
		}
	case "rectangle":
		return nil, mosaicerr.New(mosaicerr.ErrCodeUnsupported, "shape %q has no arrangement algorithm", m.Shape)
	default:
		return nil, invalid("shape must be square or rectangle, got %q", m.Shape)
	}

	sortMethod, err := ParseSortMethod(m.SortMethod)
	if err != nil {
		return nil, err
	}
	overflow, err := ParseOverflow(m.Overflow)
	if err != nil {
		return nil, err
	}

	var format Format
	switch strings.ToLower(m.Format) {
	case "", "png":
		format = FormatPNG
	case "jpeg", "jpg":
		format = FormatJPEG
	default:
		return nil, invalid("format must be png or jpeg, got %q", m.Format)
	}

	if m.CellSize < 0 {
		return nil, invalid("cell_size must not be negative, got %d", m.CellSize)
	}
	if m.EmbeddingSeed < 0 {
		return nil, invalid("embedding_seed must not be negative, got %d", m.EmbeddingSeed)
	}
	if m.MaxTiles <= 0 {
		return nil, invalid("max_tiles must be positive, got %d", m.MaxTiles)
	}

	e := s.Embedding
	if e.Perplexity <= 0 {
		return nil, invalid("perplexity must be positive, got %g", e.Perplexity)
	}
	if e.Iterations <= 0 {
		return nil, invalid("iterations must be positive, got %d", e.Iterations)
	}
	if e.LearningRate <= 0 {
		return nil, invalid("learning_rate must be positive, got %g", e.LearningRate)
	}

	art, err := validateArtwork(s.Artwork)
	if err != nil {
		return nil, err
	}

	return &Config{
		resolution: res,
		sortMethod: sortMethod,
		cellSize:   m.CellSize,
		seed:       uint64(m.EmbeddingSeed),
		overflow:   overflow,
		maxTiles:   m.MaxTiles,
		format:     format,
		output:     m.Output,
		embedding:  Embedding(e),
		artwork:    art,
	}, nil
}

func validateArtwork(a ArtworkSettings) (Artwork, error) {
	if len(a.Providers) == 0 {
		return Artwork{}, invalid("at least one artwork provider is required")
	}
	providers := make([]string, len(a.Providers))
	for i, p := range a.Providers {
		p = strings.ToLower(strings.TrimSpace(p))
		if !slices.Contains(knownProviders, p) {
			return Artwork{}, invalid("unknown artwork provider %q (must be one of %s)", p, strings.Join(knownProviders, ", "))
		}
		providers[i] = p
	}
	if slices.Contains(providers, ProviderLibrary) && a.LibraryPath == "" {
		return Artwork{}, invalid("library provider requires library_path")
	}
	if a.Concurrency <= 0 {
		return Artwork{}, invalid("concurrency must be positive, got %d", a.Concurrency)
	}
	if a.MinScore < 0 || a.MinScore > 100 {
		return Artwork{}, invalid("min_score must be within 0-100, got %d", a.MinScore)
	}
	if a.MaxRetries < 0 {
		return Artwork{}, invalid("max_retries must not be negative, got %d", a.MaxRetries)
	}
	if a.PlaceholderSize <= 0 {
		return Artwork{}, invalid("placeholder_size must be positive, got %d", a.PlaceholderSize)
	}
	if a.UserAgent == "" {
		return Artwork{}, invalid("user_agent must not be empty")
	}

	return Artwork{
		Providers:       providers,
		UserAgent:       a.UserAgent,
		Concurrency:     a.Concurrency,
		LibraryPath:     a.LibraryPath,
		CacheDir:        a.CacheDir,
		CacheTTL:        a.CacheTTL.Duration,
		MinScore:        a.MinScore,
		RequestInterval: a.RequestInterval.Duration,
		MaxRetries:      a.MaxRetries,
		PlaceholderSize: a.PlaceholderSize,
	}, nil
}

// ParseSortMethod converts a settings name to a SortMethod.
func ParseSortMethod(s string) (SortMethod, error) {
	switch strings.ToLower(s) {
	case "color", "colour":
		return SortColor, nil
	case "date":
		return SortDate, nil
	default:
		return 0, invalid("sort_method must be color or date, got %q", s)
	}
}

// ParseOverflow converts a settings name to an Overflow policy.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(s) {
	case "", "truncate":
		return OverflowTruncate, nil
	case "pad":
		return OverflowPad, nil
	case "reject":
		return OverflowReject, nil
	default:
		return 0, invalid("overflow must be truncate, pad or reject, got %q", s)
	}
}

func invalid(format string, args ...any) error {
	return mosaicerr.New(mosaicerr.ErrCodeInvalidConfig, format, args...)
}

// Resolution returns the nominal canvas size.
func (c *Config) Resolution() Resolution { return c.resolution }

// SortMethod returns the arrangement strategy.
func (c *Config) SortMethod() SortMethod { return c.sortMethod }

// Seed returns the embedding seed.
func (c *Config) Seed() uint64 { return c.seed }

// Overflow returns the non-square catalog policy.
func (c *Config) Overflow() Overflow { return c.overflow }

// MaxTiles returns the largest lattice (in cells) a build may use.
func (c *Config) MaxTiles() int { return c.maxTiles }

// Format returns the output encoding.
func (c *Config) Format() Format { return c.format }

// Output returns the configured output path.
func (c *Config) Output() string { return c.output }

// Embedding returns the t-SNE parameters.
func (c *Config) Embedding() Embedding { return c.embedding }

// Artwork returns the acquisition options. The Providers slice is a copy.
func (c *Config) Artwork() Artwork {
	a := c.artwork
	a.Providers = slices.Clone(a.Providers)
	return a
}

// CellSize returns the tile edge in pixels for a lattice of the given side.
// When cell_size is 0 the tile edge is derived from the resolution width.
func (c *Config) CellSize(side int) int {
	if c.cellSize > 0 || side <= 0 {
		return c.cellSize
	}
	return max(1, c.resolution.Width/side)
}
