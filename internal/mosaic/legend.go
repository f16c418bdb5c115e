package mosaic

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/handiism/cover-mosaic/internal/model"
)

// WriteLegend writes one CSV row per placed tile: row, column (both
// zero-based), artist, title and whether the tile is a placeholder.
func WriteLegend(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row", "col", "artist", "title", "placeholder"}); err != nil {
		return err
	}

	for pos, idx := range res.Order {
		if idx == model.Blank {
			continue
		}
		a := res.Catalog[idx]
		row := []string{
			strconv.Itoa(pos / res.Side),
			strconv.Itoa(pos % res.Side),
			a.Artist,
			a.Title,
			strconv.FormatBool(a.Placeholder),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
