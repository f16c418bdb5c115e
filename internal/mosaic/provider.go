package mosaic

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/handiism/cover-mosaic/internal/artwork"
	"github.com/handiism/cover-mosaic/internal/bandcamp"
	"github.com/handiism/cover-mosaic/internal/cache"
	"github.com/handiism/cover-mosaic/internal/config"
	httpclient "github.com/handiism/cover-mosaic/internal/http"
)

// NewProvider builds the artwork provider chain configured in cfg, in the
// configured order. The returned Closer releases the artwork cache.
//
// Each network provider gets its own HTTP client so that the MusicBrainz
// rate limit does not throttle Bandcamp.
func NewProvider(cfg *config.Config, logger *log.Logger) (artwork.Provider, io.Closer, error) {
	if logger == nil {
		logger = log.Default()
	}
	art := cfg.Artwork()

	var c cache.Cache = cache.NewNullCache()
	if art.CacheDir != "" {
		fc, err := cache.NewFileCache(art.CacheDir)
		if err != nil {
			logger.Warn("artwork cache disabled", "dir", art.CacheDir, "err", err)
		} else {
			c = fc
		}
	}

	newClient := func() *httpclient.Client {
		return httpclient.NewClient(httpclient.Options{
			UserAgent:       art.UserAgent,
			RequestInterval: art.RequestInterval,
			MaxRetries:      art.MaxRetries,
		})
	}

	providers := make([]artwork.Provider, 0, len(art.Providers))
	for _, name := range art.Providers {
		switch name {
		case config.ProviderMusicBrainz:
			providers = append(providers, artwork.NewMusicBrainz(newClient(), artwork.MusicBrainzOptions{
				MinScore: art.MinScore,
				Cache:    c,
				CacheTTL: art.CacheTTL,
				Logger:   logger.WithPrefix("musicbrainz"),
			}))
		case config.ProviderBandcamp:
			providers = append(providers, bandcamp.NewProvider(newClient(), bandcamp.ProviderOptions{
				Cache:    c,
				CacheTTL: art.CacheTTL,
				Logger:   logger.WithPrefix("bandcamp"),
			}))
		case config.ProviderLibrary:
			providers = append(providers, artwork.NewLibrary(afero.NewOsFs(), art.LibraryPath, logger.WithPrefix("library")))
		default:
			c.Close()
			return nil, nil, errors.New("unknown artwork provider " + name)
		}
	}

	if len(providers) == 1 {
		return providers[0], c, nil
	}
	return artwork.NewChain(providers...), c, nil
}
