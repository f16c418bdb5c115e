package bandcamp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/handiism/cover-mosaic/internal/artwork"
	"github.com/handiism/cover-mosaic/internal/cache"
	httpclient "github.com/handiism/cover-mosaic/internal/http"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
)

const (
	defaultBaseURL = "https://bandcamp.com"

	// maxCandidates bounds how many search results are opened per lookup.
	maxCandidates = 3
)

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	// BaseURL overrides the search host (tests).
	BaseURL string

	// Cache stores downloaded covers. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	Logger *log.Logger
}

// Provider finds album covers on Bandcamp. It searches for "artist title",
// opens the top album results and takes the first whose artist matches.
type Provider struct {
	client  *httpclient.Client
	parser  *Parser
	images  *ioutils.ImageService
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	logger  *log.Logger
}

// NewProvider creates a Bandcamp artwork provider.
func NewProvider(client *httpclient.Client, opts ProviderOptions) *Provider {
	p := &Provider{
		client:  client,
		parser:  NewParser(),
		images:  ioutils.NewImageService(),
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  opts.Logger,
	}
	if p.baseURL == "" {
		p.baseURL = defaultBaseURL
	}
	if p.cache == nil {
		p.cache = cache.NewNullCache()
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	return p
}

// Lookup implements artwork.Provider.
func (p *Provider) Lookup(ctx context.Context, artist, title string) (*artwork.Artwork, error) {
	page, err := p.client.GetString(ctx, SearchURL(p.baseURL, artist+" "+title))
	if err != nil {
		return nil, fmt.Errorf("bandcamp search: %w", err)
	}

	urls, err := AlbumURLs(page)
	if err != nil {
		return nil, fmt.Errorf("%s - %s: %w: %w", artist, title, artwork.ErrNotFound, err)
	}
	if len(urls) > maxCandidates {
		urls = urls[:maxCandidates]
	}

	for _, u := range urls {
		albumPage, err := p.client.GetString(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("bandcamp album page %s: %w", u, err)
		}
		rel, err := p.parser.ParseAlbumPage(albumPage)
		if err != nil {
			p.logger.Debug("unparseable album page", "url", u, "err", err)
			continue
		}
		if !sameName(rel.Artist, artist) || rel.ArtworkURL == "" {
			continue
		}

		data, err := p.download(ctx, rel.ArtworkURL)
		if err != nil {
			return nil, fmt.Errorf("bandcamp artwork %s: %w", rel.ArtworkURL, err)
		}
		img, err := p.images.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("bandcamp artwork %s: %w", rel.ArtworkURL, err)
		}

		p.logger.Debug("downloaded cover", "artist", artist, "title", title, "url", u)
		return &artwork.Artwork{
			Image:    img,
			Released: rel.Released,
			Source:   "bandcamp:" + u,
		}, nil
	}

	return nil, fmt.Errorf("%s - %s: %w", artist, title, artwork.ErrNotFound)
}

func (p *Provider) download(ctx context.Context, artworkURL string) ([]byte, error) {
	key := cache.Key("bandcamp-art", artworkURL)
	if data, ok, err := p.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := p.client.Get(ctx, artworkURL)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
		p.logger.Warn("caching cover failed", "url", artworkURL, "err", err)
	}
	return data, nil
}

func sameName(a, b string) bool {
	norm := func(s string) string { return strings.Join(strings.Fields(strings.ToLower(s)), " ") }
	return norm(a) == norm(b)
}
