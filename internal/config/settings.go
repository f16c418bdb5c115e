package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds all configuration options as they appear in the TOML file.
// Settings are not validated; pass them to New to obtain a Config.
type Settings struct {
	Mosaic    MosaicSettings    `toml:"mosaic"`
	Embedding EmbeddingSettings `toml:"embedding"`
	Artwork   ArtworkSettings   `toml:"artwork"`
}

// MosaicSettings controls the arrangement and the output canvas.
type MosaicSettings struct {
	Resolution    []int  `toml:"resolution"`     // [width, height]
	Shape         string `toml:"shape"`          // square, rectangle
	SortMethod    string `toml:"sort_method"`    // color, date
	CellSize      int    `toml:"cell_size"`      // 0 derives from resolution
	EmbeddingSeed int64  `toml:"embedding_seed"` // t-SNE seed
	Overflow      string `toml:"overflow"`       // truncate, pad, reject
	MaxTiles      int    `toml:"max_tiles"`
	Format        string `toml:"format"` // png, jpeg
	Output        string `toml:"output"`
}

// EmbeddingSettings tunes the t-SNE embedding.
type EmbeddingSettings struct {
	Perplexity   float64 `toml:"perplexity"`
	Iterations   int     `toml:"iterations"`
	LearningRate float64 `toml:"learning_rate"`
}

// ArtworkSettings configures artwork acquisition.
type ArtworkSettings struct {
	Providers       []string `toml:"providers"` // musicbrainz, bandcamp, library
	UserAgent       string   `toml:"user_agent"`
	Concurrency     int      `toml:"concurrency"`
	LibraryPath     string   `toml:"library_path"`
	CacheDir        string   `toml:"cache_dir"`
	CacheTTL        Duration `toml:"cache_ttl"`
	MinScore        int      `toml:"min_score"`
	RequestInterval Duration `toml:"request_interval"`
	MaxRetries      int      `toml:"max_retries"`
	PlaceholderSize int      `toml:"placeholder_size"`
}

// Duration is a time.Duration written as a string ("1s", "720h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	cacheDir, _ := os.UserCacheDir()
	if cacheDir != "" {
		cacheDir = filepath.Join(cacheDir, "cover-mosaic")
	}

	return &Settings{
		Mosaic: MosaicSettings{
			Resolution:    []int{1000, 1000},
			Shape:         "square",
			SortMethod:    "color",
			CellSize:      640,
			EmbeddingSeed: 42,
			Overflow:      "truncate",
			MaxTiles:      2500,
			Format:        "png",
			Output:        "mosaic.png",
		},
		Embedding: EmbeddingSettings{
			Perplexity:   30,
			Iterations:   1000,
			LearningRate: 200,
		},
		Artwork: ArtworkSettings{
			Providers:       []string{"musicbrainz"},
			UserAgent:       "cover-mosaic/0.1 ( https://github.com/handiism/cover-mosaic )",
			Concurrency:     4,
			CacheDir:        cacheDir,
			CacheTTL:        Duration{30 * 24 * time.Hour},
			MinScore:        95,
			RequestInterval: Duration{time.Second},
			MaxRetries:      3,
			PlaceholderSize: 640,
		},
	}
}

// Load reads settings from a TOML file. Keys missing from the file keep
// their default values; a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if _, err := toml.Decode(string(data), settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
