package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/cover-mosaic/internal/config"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cmd := newBuildCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--sort", "date", "--seed", "7", "-p", "bandcamp,library"}))

	var opts buildOpts
	opts.sort, opts.seed, opts.providers = "date", 7, []string{"bandcamp", "library"}
	opts.overflow = "reject" // set on the struct but not on the command line

	s := config.DefaultSettings()
	applyFlags(s, &opts, cmd.Flags())

	assert.Equal(t, "date", s.Mosaic.SortMethod)
	assert.Equal(t, int64(7), s.Mosaic.EmbeddingSeed)
	assert.Equal(t, []string{"bandcamp", "library"}, s.Artwork.Providers)
	assert.Equal(t, "truncate", s.Mosaic.Overflow)
	assert.Equal(t, config.DefaultSettings().Mosaic.CellSize, s.Mosaic.CellSize)
}

func TestOutputPath(t *testing.T) {
	s := config.DefaultSettings()
	cfg, err := config.New(s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("lists", "albums.png"), outputPath(cfg, filepath.Join("lists", "albums.csv"), false))

	s.Mosaic.Format = "jpeg"
	s.Mosaic.Output = "wall.jpg"
	cfg, err = config.New(s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("lists", "albums.jpg"), outputPath(cfg, filepath.Join("lists", "albums.csv"), false))
	assert.Equal(t, "wall.jpg", outputPath(cfg, "albums.csv", true))
}

func TestConfigInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.toml")

	require.NoError(t, execute(t, "config", "init", path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	assert.Error(t, execute(t, "config", "init", path), "existing file needs --force")
	assert.NoError(t, execute(t, "config", "init", "--force", path))
	assert.NoError(t, execute(t, "config", "check", path))
}

func TestConfigCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mosaic]\nsort_method = \"hue\"\n"), 0644))

	err := execute(t, "config", "check", path)
	require.Error(t, err)
	assert.Equal(t, mosaicerr.ErrCodeInvalidConfig, mosaicerr.GetCode(err))
}

func TestBuildRejectsNonSquareBeforeLookup(t *testing.T) {
	dir := t.TempDir()

	s := config.DefaultSettings()
	s.Artwork.CacheDir = filepath.Join(dir, "cache")
	s.Artwork.Providers = []string{"library"}
	s.Artwork.LibraryPath = filepath.Join(dir, "music")
	cfgPath := filepath.Join(dir, "mosaic.toml")
	require.NoError(t, s.Save(cfgPath))

	csvPath := filepath.Join(dir, "albums.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("A,One\nB,Two\nC,Three\n"), 0644))

	err := execute(t, "build", csvPath, "--config", cfgPath, "--overflow", "reject")
	require.Error(t, err)
	assert.Equal(t, mosaicerr.ErrCodeNonSquareCatalog, mosaicerr.GetCode(err))
	assert.ErrorAs(t, err, new(reportedError), "build failures are logged once, not printed again")

	_, statErr := os.Stat(filepath.Join(dir, "albums.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildRequiresCSV(t *testing.T) {
	assert.Error(t, execute(t, "build"))
}
