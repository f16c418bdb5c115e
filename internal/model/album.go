package model

import (
	"fmt"
	"image"
	"time"
)

// Blank marks an empty lattice cell in an Order. It only appears when the
// pad overflow policy leaves cells without an album.
const Blank = -1

// Album represents one catalog entry with its resolved cover art.
//
// Album contains everything the arrangement engine needs:
//   - Artist and Title for display and the legend
//   - Released for chronological ordering (zero means unknown)
//   - Artwork, the decoded cover bitmap
//   - Placeholder, set when acquisition failed and a uniform black
//     bitmap was substituted
//
// Albums are created once by the catalog loader and never modified
// afterwards.
type Album struct {
	// Artist is the album artist name.
	Artist string

	// Title is the album title.
	Title string

	// Released is when the album was released.
	// The zero value means the release date is unknown.
	Released time.Time

	// Artwork is the decoded cover image.
	Artwork image.Image

	// Placeholder is true when Artwork is the black substitute bitmap.
	Placeholder bool
}

// NewAlbum creates a new Album with resolved artwork.
func NewAlbum(artist, title string, artwork image.Image, released time.Time) *Album {
	return &Album{
		Artist:   artist,
		Title:    title,
		Released: released,
		Artwork:  artwork,
	}
}

// NewPlaceholderAlbum creates an Album whose artwork could not be
// acquired. The given bitmap must be the uniform black placeholder.
func NewPlaceholderAlbum(artist, title string, placeholder image.Image) *Album {
	return &Album{
		Artist:      artist,
		Title:       title,
		Artwork:     placeholder,
		Placeholder: true,
	}
}

// HasReleased returns true if the release date is known.
func (a *Album) HasReleased() bool {
	return !a.Released.IsZero()
}

// String returns "Artist - Title".
func (a *Album) String() string {
	return fmt.Sprintf("%s - %s", a.Artist, a.Title)
}

// Catalog is the ordered album collection. The position of an album is its
// identity: every derived array (features, embedding, assignment, order)
// refers to albums by catalog index.
type Catalog []*Album

// Len returns the number of albums.
func (c Catalog) Len() int {
	return len(c)
}

// Placeholders returns the indices of albums without real artwork.
func (c Catalog) Placeholders() []int {
	var out []int
	for i, a := range c {
		if a.Placeholder {
			out = append(out, i)
		}
	}
	return out
}

// Order is the paste sequence consumed by the composer: catalog indices
// in row-major canvas order, with Blank for empty cells.
type Order []int

// Placed returns the number of non-blank entries.
func (o Order) Placed() int {
	n := 0
	for _, idx := range o {
		if idx != Blank {
			n++
		}
	}
	return n
}

// Contains reports whether the album index appears in the order.
func (o Order) Contains(idx int) bool {
	for _, v := range o {
		if v == idx {
			return true
		}
	}
	return false
}
