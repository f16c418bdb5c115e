package bandcamp

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/handiism/cover-mosaic/internal/bandcamp/dto"
)

// Parser extracts release information from Bandcamp album pages.
//
// Bandcamp embeds album data as JSON within the HTML page in a data-tralbum
// attribute. The Parser extracts this JSON, fixes any malformed content,
// and deserializes it into a Release.
//
// Example usage:
//
//	parser := NewParser()
//
//	page, _ := client.GetString(ctx, "https://artist.bandcamp.com/album/name")
//	rel, err := parser.ParseAlbumPage(page)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("%s by %s, cover at %s\n", rel.Title, rel.Artist, rel.ArtworkURL)
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseAlbumPage extracts release info from a Bandcamp album page HTML.
//
// Returns an error if:
//   - The data-tralbum attribute cannot be found
//   - The JSON is malformed and cannot be parsed
func (p *Parser) ParseAlbumPage(htmlContent string) (*dto.Release, error) {
	albumData, err := extractAlbumData(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve album data: %w", err)
	}

	albumData = fixJSON(albumData)

	var jsonAlbum dto.JSONAlbum
	if err := json.Unmarshal([]byte(albumData), &jsonAlbum); err != nil {
		return nil, fmt.Errorf("failed to parse album JSON: %w", err)
	}

	return jsonAlbum.ToRelease(), nil
}

// extractAlbumData extracts the data-tralbum JSON string from HTML.
//
// Bandcamp embeds album data in the HTML like this:
//
//	<script ... data-tralbum="{...JSON...}">
//
// The attribute value is HTML-unescaped before it is returned.
func extractAlbumData(htmlContent string) (string, error) {
	const startString = `data-tralbum="{`
	const stopString = `}"`

	startIndex := strings.Index(htmlContent, startString)
	if startIndex == -1 {
		return "", fmt.Errorf("could not find album data in HTML")
	}

	startIndex += len(startString) - 1 // Include the opening brace
	remaining := htmlContent[startIndex:]

	endIndex := strings.Index(remaining, stopString)
	if endIndex == -1 {
		return "", fmt.Errorf("could not find end of album data")
	}

	return html.UnescapeString(remaining[:endIndex+1]), nil
}

var urlConcatRe = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// fixJSON fixes malformed JSON from Bandcamp pages.
//
// Some Bandcamp pages have JavaScript-style URL concatenation in the JSON:
//
//	url: "http://example.bandcamp.com" + "/album/name",
//
// which is rewritten to a single string literal.
func fixJSON(albumData string) string {
	return urlConcatRe.ReplaceAllString(albumData, "${1}${2}")
}
