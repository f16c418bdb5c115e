// Package artwork looks up album cover art and release dates.
//
// A Provider answers one question: given an artist and an album title,
// what does the cover look like and when was the album released? Three
// implementations are available:
//
//   - MusicBrainz searches the MusicBrainz release index and fetches the
//     front cover from the Cover Art Archive.
//   - Bandcamp (in package bandcamp) scrapes Bandcamp search results and
//     album pages.
//   - Library reads embedded APIC frames from a local MP3 collection.
//
// Chain tries several providers in order and returns the first hit.
package artwork

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"
)

// ErrNotFound is returned when a provider has no artwork for an album.
var ErrNotFound = errors.New("artwork not found")

// Artwork is the result of a successful lookup.
type Artwork struct {
	// Image is the decoded cover.
	Image image.Image

	// Released is the release date, zero when unknown.
	Released time.Time

	// Source identifies where the cover came from, e.g.
	// "musicbrainz:<mbid>" or a file path.
	Source string
}

// Provider resolves cover art for an album.
// Implementations must be safe for concurrent use.
type Provider interface {
	Lookup(ctx context.Context, artist, title string) (*Artwork, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, artist, title string) (*Artwork, error)

// Lookup calls f.
func (f ProviderFunc) Lookup(ctx context.Context, artist, title string) (*Artwork, error) {
	return f(ctx, artist, title)
}

// ParseDate parses the partial dates used by metadata services:
// "2006-01-02", "2006-01" and "2006". A trailing time of day is ignored.
// Anything else yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
