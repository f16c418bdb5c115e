package bandcamp

import (
	"errors"
	"html"
	"net/url"
	"regexp"
)

// ErrNoAlbumFound is returned when a search results page lists no albums.
var ErrNoAlbumFound = errors.New("no album found on page")

// searchResultRe matches the heading link of an album search result:
//
//	<div class="heading">
//	  <a href="https://artist.bandcamp.com/album/name?from=search&amp;...">
var searchResultRe = regexp.MustCompile(`<div class="heading">\s*<a href="(https?://[^"]+?/album/[^"?]+)`)

// SearchURL returns the Bandcamp search page URL for albums matching query.
func SearchURL(base, query string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("item_type", "a")
	return base + "/search?" + v.Encode()
}

// AlbumURLs extracts album page URLs from a Bandcamp search results page,
// best match first. Tracking query parameters are dropped and duplicates
// removed.
//
// Returns ErrNoAlbumFound if the page lists no albums.
func AlbumURLs(searchPageHTML string) ([]string, error) {
	matches := searchResultRe.FindAllStringSubmatch(searchPageHTML, -1)

	seen := make(map[string]struct{})
	var urls []string
	for _, m := range matches {
		u := html.UnescapeString(m[1])
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	if len(urls) == 0 {
		return nil, ErrNoAlbumFound
	}
	return urls, nil
}
