package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/handiism/cover-mosaic/internal/catalog"
	"github.com/handiism/cover-mosaic/internal/config"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
	"github.com/handiism/cover-mosaic/internal/mosaic"
)

type buildOpts struct {
	config    string
	output    string
	sort      string
	overflow  string
	format    string
	seed      int64
	cellSize  int
	maxTiles  int
	providers []string
	library   string
	legend    string
}

func newBuildCmd() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <albums.csv>",
		Short: "Build a mosaic from a CSV list of artist,title rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "path to a TOML settings file")
	f.StringVarP(&opts.output, "output", "o", "", "output image path (default: <albums>.png next to the CSV)")
	f.StringVarP(&opts.sort, "sort", "s", "", "arrangement: color or date")
	f.StringVar(&opts.overflow, "overflow", "", "non-square catalogs: truncate, pad or reject")
	f.StringVar(&opts.format, "format", "", "image format: png or jpeg")
	f.Int64Var(&opts.seed, "seed", 0, "t-SNE seed")
	f.IntVar(&opts.cellSize, "cell-size", 0, "tile edge in pixels (0 derives it from the resolution)")
	f.IntVar(&opts.maxTiles, "max-tiles", 0, "largest allowed grid")
	f.StringSliceVarP(&opts.providers, "provider", "p", nil, "artwork providers in lookup order: musicbrainz, bandcamp, library")
	f.StringVar(&opts.library, "library", "", "local music library scanned by the library provider")
	f.StringVar(&opts.legend, "legend", "", "also write a CSV legend mapping cells to albums")

	return cmd
}

// reportedError marks an error that has already been logged.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// applyFlags copies explicitly set flags over the loaded settings.
func applyFlags(s *config.Settings, opts *buildOpts, flags *pflag.FlagSet) {
	if flags.Changed("sort") {
		s.Mosaic.SortMethod = opts.sort
	}
	if flags.Changed("overflow") {
		s.Mosaic.Overflow = opts.overflow
	}
	if flags.Changed("format") {
		s.Mosaic.Format = opts.format
	}
	if flags.Changed("seed") {
		s.Mosaic.EmbeddingSeed = opts.seed
	}
	if flags.Changed("cell-size") {
		s.Mosaic.CellSize = opts.cellSize
	}
	if flags.Changed("max-tiles") {
		s.Mosaic.MaxTiles = opts.maxTiles
	}
	if flags.Changed("provider") {
		s.Artwork.Providers = opts.providers
	}
	if flags.Changed("library") {
		s.Artwork.LibraryPath = opts.library
	}
	if flags.Changed("output") {
		s.Mosaic.Output = opts.output
	}
}

// outputPath returns the explicit output, or the CSV path with the image
// extension when the settings keep the default.
func outputPath(cfg *config.Config, csvPath string, explicit bool) string {
	if explicit && cfg.Output() != "" {
		return cfg.Output()
	}
	ext := ".png"
	if cfg.Format() == config.FormatJPEG {
		ext = ".jpg"
	}
	return ioutils.DefaultOutputPath(csvPath, ext)
}

func runBuild(cmd *cobra.Command, csvPath string, opts *buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	start := time.Now()

	settings, err := loadSettings(opts.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(settings, opts, cmd.Flags())

	cfg, err := config.New(settings)
	if err != nil {
		return err
	}

	records, err := catalog.ReadFile(csvPath)
	if err != nil {
		return err
	}
	logger.Info("Read album list", "albums", len(records), "sort", cfg.SortMethod(), "providers", strings.Join(cfg.Artwork().Providers, ","))

	provider, closer, err := mosaic.NewProvider(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	builder := mosaic.NewBuilder(cfg, provider,
		mosaic.WithLogger(logger),
		mosaic.WithProgress(func(e mosaic.ProgressEvent) {
			switch e.Level {
			case mosaic.LevelError:
				logger.Error(e.Message)
			case mosaic.LevelWarning:
				logger.Warn(e.Message)
			case mosaic.LevelVerbose:
				logger.Debug(e.Message)
			default:
				logger.Info(e.Message)
			}
		}),
	)

	res, err := builder.Build(ctx, records)
	if err != nil {
		// Build already sent the failure through the progress logger.
		return reportedError{err}
	}

	out := outputPath(cfg, csvPath, cmd.Flags().Changed("output") || settings.Mosaic.Output != config.DefaultSettings().Mosaic.Output)
	if err := builder.Save(ctx, res, out); err != nil {
		return err
	}

	if opts.legend != "" {
		f, err := os.Create(opts.legend)
		if err != nil {
			return fmt.Errorf("create legend: %w", err)
		}
		if err := mosaic.WriteLegend(f, res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Debug("Wrote legend", "path", opts.legend)
	}

	if n := res.Placeholders(); n > 0 {
		logger.Warn("Some albums have no artwork", "placeholders", n)
	}
	elapsed(logger, start, fmt.Sprintf("Wrote %dx%d mosaic to %s", res.Side, res.Side, out))
	return nil
}
