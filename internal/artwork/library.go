package artwork

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bogem/id3v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	ioutils "github.com/handiism/cover-mosaic/internal/io"
)

// libraryEntry locates the first tagged file of an album.
type libraryEntry struct {
	path string
	date string
}

// Library serves cover art embedded in a local MP3 collection.
//
// On first use the tree under root is walked and every .mp3 file's ID3
// tag is read; albums are indexed by both lead artist (TPE1) and album
// artist (TPE2). A lookup re-reads the indexed file and decodes its front
// cover picture (APIC), falling back to the first picture present.
type Library struct {
	fs     afero.Fs
	root   string
	images *ioutils.ImageService
	logger *log.Logger

	once  sync.Once
	index map[string]libraryEntry
	err   error
}

// NewLibrary creates a Library rooted at root on fsys. Pass
// afero.NewOsFs() for the real file system.
func NewLibrary(fsys afero.Fs, root string, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{
		fs:     fsys,
		root:   root,
		images: ioutils.NewImageService(),
		logger: logger,
	}
}

// Lookup implements Provider.
func (l *Library) Lookup(ctx context.Context, artist, title string) (*Artwork, error) {
	l.once.Do(func() { l.err = l.scan(ctx) })
	if l.err != nil {
		return nil, l.err
	}

	entry, ok := l.index[libraryKey(artist, title)]
	if !ok {
		return nil, fmt.Errorf("%s - %s: %w", artist, title, ErrNotFound)
	}

	tag, err := l.readTag(entry.path)
	if err != nil {
		return nil, err
	}
	pic, ok := frontPicture(tag)
	if !ok {
		return nil, fmt.Errorf("%s: no attached picture: %w", entry.path, ErrNotFound)
	}

	img, err := l.images.Decode(pic.Picture)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.path, err)
	}

	return &Artwork{
		Image:    img,
		Released: ParseDate(entry.date),
		Source:   entry.path,
	}, nil
}

// scan walks the library and builds the album index. Only files that
// carry a picture are indexed.
func (l *Library) scan(ctx context.Context) error {
	index := make(map[string]libraryEntry)

	err := afero.Walk(l.fs, l.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		tag, err := l.readTag(path)
		if err != nil {
			l.logger.Debug("skipping unreadable tag", "path", path, "err", err)
			return nil
		}
		if _, ok := frontPicture(tag); !ok {
			return nil
		}

		entry := libraryEntry{path: path, date: releaseDate(tag)}
		for _, who := range []string{tag.Artist(), tag.GetTextFrame("TPE2").Text} {
			if who == "" {
				continue
			}
			key := libraryKey(who, tag.Album())
			if _, seen := index[key]; !seen {
				index[key] = entry
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning library %s: %w", l.root, err)
	}

	l.logger.Debug("library indexed", "root", l.root, "albums", len(index))
	l.index = index
	return nil
}

func (l *Library) readTag(path string) (*id3v2.Tag, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tag, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("reading tag of %s: %w", path, err)
	}
	return tag, nil
}

// frontPicture returns the front cover APIC frame, or the first picture
// when none is marked as front cover.
func frontPicture(tag *id3v2.Tag) (id3v2.PictureFrame, bool) {
	var first *id3v2.PictureFrame
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic, true
		}
		if first == nil {
			first = &pic
		}
	}
	if first == nil {
		return id3v2.PictureFrame{}, false
	}
	return *first, true
}

// releaseDate prefers the ID3v2.4 recording time over the v2.3 year.
func releaseDate(tag *id3v2.Tag) string {
	if d := strings.TrimSpace(tag.GetTextFrame("TDRC").Text); d != "" {
		return d
	}
	return strings.TrimSpace(tag.GetTextFrame("TYER").Text)
}

func libraryKey(artist, album string) string {
	return normalize(artist) + "\x00" + normalize(album)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
