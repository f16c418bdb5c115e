// Package bandcamp looks up album covers on Bandcamp.
//
// The lookup has three steps:
//
//  1. Search bandcamp.com for "artist title" restricted to albums and
//     collect the album page URLs from the results (AlbumURLs)
//  2. Parse an album page's data-tralbum JSON into a Release (Parser)
//  3. Download the cover from the art_id derived URL on bcbits.com
//
// # Album Page Parsing
//
//	parser := bandcamp.NewParser()
//	rel, err := parser.ParseAlbumPage(htmlContent)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s by %s released %s\n", rel.Title, rel.Artist, rel.Released)
//
// # Provider
//
// Provider wires the steps together and implements artwork.Provider:
//
//	p := bandcamp.NewProvider(client, bandcamp.ProviderOptions{})
//	art, err := p.Lookup(ctx, "Artist", "Album")
//
// # Bandcamp Data Format
//
// Bandcamp embeds album data as JSON in the HTML page within a
// `data-tralbum` attribute. This package extracts and parses that JSON,
// handling Bandcamp's non-standard date format and fixing malformed JSON.
package bandcamp
