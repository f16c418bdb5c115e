package artwork

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pborman/uuid"
	caa "gopkg.in/mineo/gocaa.v1"

	"github.com/handiism/cover-mosaic/internal/cache"
	httpclient "github.com/handiism/cover-mosaic/internal/http"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
)

const (
	musicBrainzHost          = "https://musicbrainz.org"
	musicBrainzReleasePath   = "/ws/2/release/"
	musicBrainzQueryTemplate = `release:"%s" AND artist:"%s"`
)

// CAAClient fetches front covers from the Cover Art Archive.
// *caa.CAAClient satisfies it.
type CAAClient interface {
	GetReleaseFront(mbid uuid.UUID, size int) (caa.CoverArtImage, error)
}

// MusicBrainzOptions configures a MusicBrainz provider.
type MusicBrainzOptions struct {
	// MinScore is the lowest search score (0-100) accepted as a match.
	MinScore int

	// Host overrides the MusicBrainz API host (tests).
	Host string

	// CAA overrides the Cover Art Archive client (tests).
	CAA CAAClient

	// Cache stores downloaded covers. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	Logger *log.Logger
}

// MusicBrainz finds releases through the MusicBrainz search API and
// downloads their front cover from the Cover Art Archive.
//
// A title may match many releases (reissues, regional editions). Every
// release scoring at least MinScore is tried in the order returned and the
// first one with a front cover wins.
type MusicBrainz struct {
	minScore int
	host     string
	client   *httpclient.Client
	caa      CAAClient
	cache    cache.Cache
	cacheTTL time.Duration
	images   *ioutils.ImageService
	logger   *log.Logger
}

// NewMusicBrainz creates a MusicBrainz provider. Search requests go
// through client, which carries the User-Agent and rate limit MusicBrainz
// asks for.
func NewMusicBrainz(client *httpclient.Client, opts MusicBrainzOptions) *MusicBrainz {
	mb := &MusicBrainz{
		minScore: opts.MinScore,
		host:     opts.Host,
		client:   client,
		caa:      opts.CAA,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		images:   ioutils.NewImageService(),
		logger:   opts.Logger,
	}
	if mb.host == "" {
		mb.host = musicBrainzHost
	}
	if mb.caa == nil {
		mb.caa = caa.NewCAAClient(client.UserAgent())
	}
	if mb.cache == nil {
		mb.cache = cache.NewNullCache()
	}
	if mb.logger == nil {
		mb.logger = log.Default()
	}
	return mb
}

// Lookup implements Provider.
func (m *MusicBrainz) Lookup(ctx context.Context, artist, title string) (*Artwork, error) {
	releases, err := m.searchReleases(ctx, artist, title)
	if err != nil {
		return nil, err
	}

	for _, rel := range releases {
		data, err := m.frontCover(ctx, rel.ID)
		if err != nil {
			if isCAANotFound(err) {
				m.logger.Debug("no front cover", "mbid", rel.ID)
				continue
			}
			return nil, fmt.Errorf("cover art archive %s: %w", rel.ID, err)
		}

		img, err := m.images.Decode(data)
		if err != nil {
			m.logger.Debug("undecodable cover", "mbid", rel.ID, "err", err)
			continue
		}

		m.logger.Debug("downloaded cover", "artist", artist, "title", title, "mbid", rel.ID)
		return &Artwork{
			Image:    img,
			Released: ParseDate(rel.Date),
			Source:   "musicbrainz:" + rel.ID,
		}, nil
	}

	return nil, fmt.Errorf("%s - %s: %w", artist, title, ErrNotFound)
}

// searchReleases returns the releases matching artist and title with a
// score of at least minScore.
func (m *MusicBrainz) searchReleases(ctx context.Context, artist, title string) ([]mbRelease, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf(musicBrainzQueryTemplate, luceneEscape(title), luceneEscape(artist)))
	endpoint := m.host + musicBrainzReleasePath + "?" + query.Encode()

	body, err := m.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("music brainz search: %w", err)
	}

	var root mbReleaseMetadata
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decoding music brainz XML API response: %w", err)
	}

	var out []mbRelease
	for _, rel := range root.ReleaseList.Releases {
		if rel.Score >= m.minScore {
			out = append(out, rel)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s - %s: %w", artist, title, ErrNotFound)
	}
	return out, nil
}

// frontCover returns the cover bytes for mbid, from cache when possible.
func (m *MusicBrainz) frontCover(ctx context.Context, mbid string) ([]byte, error) {
	key := cache.Key("caa-front", mbid, caa.ImageSize500)
	if data, ok, err := m.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := m.caa.GetReleaseFront(caa.StringToUUID(mbid), caa.ImageSize500)
	if err != nil {
		return nil, err
	}

	if err := m.cache.Set(ctx, key, img.Data, m.cacheTTL); err != nil {
		m.logger.Warn("caching cover failed", "mbid", mbid, "err", err)
	}
	return img.Data, nil
}

func isCAANotFound(err error) bool {
	httpErr, ok := err.(caa.HTTPError)
	return ok && httpErr.StatusCode == http.StatusNotFound
}

var luceneReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// luceneEscape escapes a value for use inside a quoted Lucene phrase.
func luceneEscape(s string) string {
	return luceneReplacer.Replace(s)
}

// The following structures are only used to decode the XML response from
// the MusicBrainz API.
type mbReleaseMetadata struct {
	ReleaseList mbReleaseList `xml:"release-list"`
}

type mbReleaseList struct {
	Releases []mbRelease `xml:"release"`
}

type mbRelease struct {
	ID    string `xml:"id,attr"`
	Score int    `xml:"score,attr"`
	Title string `xml:"title"`
	Date  string `xml:"date"`
}
