package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
)

// Record is one line of the album list.
type Record struct {
	Artist string
	Title  string
}

// ReadRecords parses an album list.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mosaicerr.Wrap(mosaicerr.ErrCodeInvalidInput, err, "malformed album list")
		}
		line, _ := cr.FieldPos(0)

		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if len(fields) < 2 {
			return nil, mosaicerr.New(mosaicerr.ErrCodeInvalidInput, "line %d: expected artist,title", line)
		}

		rec := Record{
			Artist: strings.TrimSpace(fields[0]),
			Title:  strings.TrimSpace(fields[1]),
		}
		if rec.Artist == "" || rec.Title == "" {
			return nil, mosaicerr.New(mosaicerr.ErrCodeInvalidInput, "line %d: artist and title must not be empty", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile parses the album list at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mosaicerr.Wrap(mosaicerr.ErrCodeInvalidInput, err, "opening album list")
	}
	defer f.Close()
	return ReadRecords(f)
}
