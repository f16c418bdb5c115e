package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, Resolution{Width: 1000, Height: 1000}, cfg.Resolution())
	assert.Equal(t, SortColor, cfg.SortMethod())
	assert.Equal(t, OverflowTruncate, cfg.Overflow())
	assert.Equal(t, FormatPNG, cfg.Format())
	assert.Equal(t, uint64(42), cfg.Seed())
	assert.Equal(t, 640, cfg.CellSize(3))
	assert.Equal(t, []string{ProviderMusicBrainz}, cfg.Artwork().Providers)
	assert.Equal(t, time.Second, cfg.Artwork().RequestInterval)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
		code   mosaicerr.Code
	}{
		{"triangle shape", func(s *Settings) { s.Mosaic.Shape = "triangle" }, mosaicerr.ErrCodeInvalidConfig},
		{"rectangle shape", func(s *Settings) { s.Mosaic.Shape = "rectangle" }, mosaicerr.ErrCodeUnsupported},
		{"asymmetric square", func(s *Settings) { s.Mosaic.Resolution = []int{1000, 800} }, mosaicerr.ErrCodeInvalidConfig},
		{"single resolution value", func(s *Settings) { s.Mosaic.Resolution = []int{1000} }, mosaicerr.ErrCodeInvalidConfig},
		{"zero resolution", func(s *Settings) { s.Mosaic.Resolution = []int{0, 0} }, mosaicerr.ErrCodeInvalidConfig},
		{"unknown sort", func(s *Settings) { s.Mosaic.SortMethod = "genre" }, mosaicerr.ErrCodeInvalidConfig},
		{"unknown overflow", func(s *Settings) { s.Mosaic.Overflow = "wrap" }, mosaicerr.ErrCodeInvalidConfig},
		{"negative cell size", func(s *Settings) { s.Mosaic.CellSize = -1 }, mosaicerr.ErrCodeInvalidConfig},
		{"negative seed", func(s *Settings) { s.Mosaic.EmbeddingSeed = -7 }, mosaicerr.ErrCodeInvalidConfig},
		{"unknown format", func(s *Settings) { s.Mosaic.Format = "gif" }, mosaicerr.ErrCodeInvalidConfig},
		{"zero perplexity", func(s *Settings) { s.Embedding.Perplexity = 0 }, mosaicerr.ErrCodeInvalidConfig},
		{"no providers", func(s *Settings) { s.Artwork.Providers = nil }, mosaicerr.ErrCodeInvalidConfig},
		{"unknown provider", func(s *Settings) { s.Artwork.Providers = []string{"spotify"} }, mosaicerr.ErrCodeInvalidConfig},
		{"library without path", func(s *Settings) { s.Artwork.Providers = []string{"library"} }, mosaicerr.ErrCodeInvalidConfig},
		{"zero concurrency", func(s *Settings) { s.Artwork.Concurrency = 0 }, mosaicerr.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)

			cfg, err := New(s)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, mosaicerr.Is(err, tt.code), "got %v, want code %s", err, tt.code)
		})
	}
}

func TestConfig_CellSizeDerivedFromResolution(t *testing.T) {
	s := DefaultSettings()
	s.Mosaic.CellSize = 0
	s.Mosaic.Resolution = []int{900, 900}

	cfg, err := New(s)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.CellSize(3))
	assert.Equal(t, 225, cfg.CellSize(4))
}

func TestConfig_ArtworkProvidersIsCopy(t *testing.T) {
	cfg, err := New(DefaultSettings())
	require.NoError(t, err)

	a := cfg.Artwork()
	a.Providers[0] = "tampered"
	assert.Equal(t, ProviderMusicBrainz, cfg.Artwork().Providers[0])
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Mosaic, s.Mosaic)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.toml")
	content := `
[mosaic]
sort_method = "date"
embedding_seed = 7

[artwork]
providers = ["bandcamp", "musicbrainz"]
request_interval = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "date", s.Mosaic.SortMethod)
	assert.Equal(t, int64(7), s.Mosaic.EmbeddingSeed)
	assert.Equal(t, 640, s.Mosaic.CellSize)
	assert.Equal(t, []string{"bandcamp", "musicbrainz"}, s.Artwork.Providers)
	assert.Equal(t, 250*time.Millisecond, s.Artwork.RequestInterval.Duration)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mosaic\nshape = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mosaic.toml")

	s := DefaultSettings()
	s.Mosaic.Overflow = "pad"
	s.Artwork.CacheTTL = Duration{2 * time.Hour}
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pad", loaded.Mosaic.Overflow)
	assert.Equal(t, 2*time.Hour, loaded.Artwork.CacheTTL.Duration)
}
