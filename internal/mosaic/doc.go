// Package mosaic runs the whole pipeline: album list in, mosaic image out.
//
// A Builder is created from a validated config.Config and an
// artwork.Provider. Build resolves every record's artwork (placeholders
// for misses), arranges the catalog with the configured strategy and
// composes the canvas:
//
//	cfg, err := config.New(settings)          // validate before any lookup
//	provider, closer, err := mosaic.NewProvider(cfg, logger)
//	defer closer.Close()
//
//	b := mosaic.NewBuilder(cfg, provider, mosaic.WithLogger(logger))
//	res, err := b.Build(ctx, records)
//	err = b.Save(ctx, res, "mosaic.png")
//
// Progress is reported through ProgressEvent callbacks, the same way for
// the CLI and the TUI.
package mosaic
