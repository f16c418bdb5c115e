package model

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlbum_HasReleased(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	dated := NewAlbum("Artist", "Dated", img, time.Date(1997, 5, 21, 0, 0, 0, 0, time.UTC))
	undated := NewAlbum("Artist", "Undated", img, time.Time{})

	assert.True(t, dated.HasReleased())
	assert.False(t, undated.HasReleased())
	assert.Equal(t, "Artist - Dated", dated.String())
}

func TestNewPlaceholderAlbum(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	album := NewPlaceholderAlbum("Artist", "Missing", img)

	assert.True(t, album.Placeholder)
	assert.False(t, album.HasReleased())
	assert.Same(t, img, album.Artwork)
}

func TestCatalog_Placeholders(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	cat := Catalog{
		NewAlbum("a", "1", img, time.Time{}),
		NewPlaceholderAlbum("b", "2", img),
		NewAlbum("c", "3", img, time.Time{}),
		NewPlaceholderAlbum("d", "4", img),
	}

	assert.Equal(t, 4, cat.Len())
	assert.Equal(t, []int{1, 3}, cat.Placeholders())
}

func TestOrder_Placed(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  int
	}{
		{"empty", Order{}, 0},
		{"full", Order{2, 0, 1, 3}, 4},
		{"padded", Order{2, 0, 1, Blank}, 3},
		{"all blank", Order{Blank, Blank}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.Placed())
		})
	}
}

func TestOrder_Contains(t *testing.T) {
	o := Order{3, Blank, 1}
	assert.True(t, o.Contains(3))
	assert.True(t, o.Contains(Blank))
	assert.False(t, o.Contains(0))
}
