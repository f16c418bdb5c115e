package mosaic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/cover-mosaic/internal/artwork"
	"github.com/handiism/cover-mosaic/internal/catalog"
	"github.com/handiism/cover-mosaic/internal/config"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	"github.com/handiism/cover-mosaic/internal/model"
)

// countingProvider serves a solid cover per album and records calls.
type countingProvider struct {
	calls   atomic.Int32
	missing map[string]bool
}

func (p *countingProvider) Lookup(ctx context.Context, artist, title string) (*artwork.Artwork, error) {
	p.calls.Add(1)
	if p.missing[artist] {
		return nil, artwork.ErrNotFound
	}
	var n int
	fmt.Sscanf(artist, "Artist %d", &n)

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	c := color.RGBA{R: uint8(40 + 20*n), G: uint8(200 - 15*n), B: 128, A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &artwork.Artwork{
		Image:    img,
		Released: time.Date(2000+(n*7)%10, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:   "test",
	}, nil
}

func records(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range out {
		out[i] = catalog.Record{Artist: fmt.Sprintf("Artist %d", i), Title: fmt.Sprintf("Title %d", i)}
	}
	return out
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Mosaic.CellSize = 8
	s.Embedding.Iterations = 300
	s.Artwork.CacheDir = ""
	return s
}

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

func TestBuild_InvalidConfigNeverQueriesProvider(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *config.Settings)
		wantCode mosaicerr.Code
	}{
		{"triangle", func(s *config.Settings) { s.Mosaic.Shape = "triangle" }, mosaicerr.ErrCodeInvalidConfig},
		{"rectangle", func(s *config.Settings) { s.Mosaic.Shape = "rectangle" }, mosaicerr.ErrCodeUnsupported},
		{"asymmetric square", func(s *config.Settings) { s.Mosaic.Resolution = []int{1000, 800} }, mosaicerr.ErrCodeInvalidConfig},
		{"unknown sort", func(s *config.Settings) { s.Mosaic.SortMethod = "size" }, mosaicerr.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			tt.mutate(s)
			p := &countingProvider{}

			_, err := Build(context.Background(), s, records(9), p, quiet())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, mosaicerr.GetCode(err))
			assert.Zero(t, p.calls.Load())
		})
	}
}

func TestBuild_LatticeErrorsFailBeforeLookups(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := &countingProvider{}
		_, err := Build(context.Background(), testSettings(), nil, p, quiet())
		assert.True(t, mosaicerr.Is(err, mosaicerr.ErrCodeEmptyCatalog))
		assert.Zero(t, p.calls.Load())
	})

	t.Run("reject", func(t *testing.T) {
		s := testSettings()
		s.Mosaic.Overflow = "reject"
		p := &countingProvider{}
		_, err := Build(context.Background(), s, records(10), p, quiet())
		assert.True(t, mosaicerr.Is(err, mosaicerr.ErrCodeNonSquareCatalog))
		assert.Zero(t, p.calls.Load())
	})

	t.Run("too large", func(t *testing.T) {
		s := testSettings()
		s.Mosaic.MaxTiles = 4
		p := &countingProvider{}
		_, err := Build(context.Background(), s, records(9), p, quiet())
		assert.True(t, mosaicerr.Is(err, mosaicerr.ErrCodeCatalogTooLarge))
		assert.Zero(t, p.calls.Load())
	})
}

func TestBuild_ColorMosaic(t *testing.T) {
	p := &countingProvider{}
	var (
		mu     sync.Mutex
		events []ProgressEvent
	)
	progress := WithProgress(func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	res, err := Build(context.Background(), testSettings(), records(9), p, quiet(), progress)
	require.NoError(t, err)

	assert.Equal(t, int32(9), p.calls.Load())
	assert.Equal(t, 3, res.Side)
	assert.Equal(t, 8, res.CellSize)
	assert.Equal(t, image.Rect(0, 0, 24, 24), res.Image.Bounds())
	assert.Equal(t, 9, res.Order.Placed())
	assert.Zero(t, res.Dropped)
	for i := 0; i < 9; i++ {
		assert.True(t, res.Order.Contains(i))
	}
	assert.NotEmpty(t, events)
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(context.Background(), testSettings(), records(9), &countingProvider{}, quiet())
	require.NoError(t, err)
	b, err := Build(context.Background(), testSettings(), records(9), &countingProvider{}, quiet())
	require.NoError(t, err)

	assert.Equal(t, a.Order, b.Order)
	assert.Equal(t, a.Image.Pix, b.Image.Pix)
}

func TestBuild_PlaceholderTileIsBlack(t *testing.T) {
	s := testSettings()
	s.Mosaic.SortMethod = "date"
	p := &countingProvider{missing: map[string]bool{"Artist 4": true}}

	res, err := Build(context.Background(), s, records(9), p, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Placeholders())

	// Unknown dates sort last.
	pos := len(res.Order) - 1
	require.Equal(t, 4, res.Order[pos])

	x, y := (pos%res.Side)*res.CellSize, (pos/res.Side)*res.CellSize
	for dy := 0; dy < res.CellSize; dy++ {
		for dx := 0; dx < res.CellSize; dx++ {
			require.Equal(t, color.NRGBA{A: 255}, res.Image.NRGBAAt(x+dx, y+dy))
		}
	}
}

func TestBuild_Truncate(t *testing.T) {
	s := testSettings()
	s.Mosaic.SortMethod = "date"

	res, err := Build(context.Background(), s, records(11), &countingProvider{}, quiet())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Side)
	assert.Equal(t, 2, res.Dropped)
	assert.Len(t, res.Catalog, 11)
}

func TestBuild_Pad(t *testing.T) {
	s := testSettings()
	s.Mosaic.Overflow = "pad"

	res, err := Build(context.Background(), s, records(5), &countingProvider{}, quiet())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Side)
	assert.Len(t, res.Order, 9)
	assert.Equal(t, 5, res.Order.Placed())
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, testSettings(), records(4), &countingProvider{}, quiet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_FatalErrorReported(t *testing.T) {
	collect := func(events *[]ProgressEvent) Option {
		return WithProgress(func(e ProgressEvent) { *events = append(*events, e) })
	}
	errorEvents := func(events []ProgressEvent) []ProgressEvent {
		var out []ProgressEvent
		for _, e := range events {
			if e.Level == LevelError {
				out = append(out, e)
			}
		}
		return out
	}

	t.Run("reject", func(t *testing.T) {
		s := testSettings()
		s.Mosaic.Overflow = "reject"
		var events []ProgressEvent

		_, err := Build(context.Background(), s, records(10), &countingProvider{}, quiet(), collect(&events))
		require.Error(t, err)

		errs := errorEvents(events)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "10")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var events []ProgressEvent

		_, err := Build(ctx, testSettings(), records(4), &countingProvider{}, quiet(), collect(&events))
		require.Error(t, err)
		assert.Empty(t, errorEvents(events))
	})

	t.Run("success", func(t *testing.T) {
		var events []ProgressEvent

		_, err := Build(context.Background(), testSettings(), records(4), &countingProvider{}, quiet(), collect(&events))
		require.NoError(t, err)
		assert.Empty(t, errorEvents(events))
	})
}

func TestBuilder_Save(t *testing.T) {
	cfg, err := config.New(testSettings())
	require.NoError(t, err)
	b := NewBuilder(cfg, &countingProvider{}, quiet())

	res, err := b.Build(context.Background(), records(4))
	require.NoError(t, err)

	resolved, total := b.GetProgress()
	assert.Equal(t, int32(4), resolved)
	assert.Equal(t, int32(4), total)

	path := filepath.Join(t.TempDir(), "out", "mosaic.png")
	require.NoError(t, b.Save(context.Background(), res, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestWriteLegend(t *testing.T) {
	res := &Result{
		Side: 2,
		Catalog: model.Catalog{
			model.NewAlbum("Iron Maiden", "Killers", nil, time.Time{}),
			model.NewPlaceholderAlbum("Crosby, Stills & Nash", "CSN", nil),
		},
		Order: model.Order{1, model.Blank, model.Blank, 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLegend(&buf, res))

	want := strings.Join([]string{
		"row,col,artist,title,placeholder",
		`0,0,"Crosby, Stills & Nash",CSN,true`,
		"1,1,Iron Maiden,Killers,false",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}
