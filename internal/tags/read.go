// Package tags reads the metadata a music file already carries.
// It never writes tags.
package tags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Fields is the subset of embedded metadata the importer cares about.
type Fields struct {
	Title  string
	Album  string
	Artist string
}

// Read returns the title, album and artist stored in the file at path.
// Files without a recognized tag block yield empty Fields and no error.
func Read(path string) (Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fields{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Fields{}, nil
		}
		return Fields{}, fmt.Errorf("read tags from %s: %w", path, err)
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}

	return Fields{
		Title:  trim(m.Title()),
		Album:  trim(m.Album()),
		Artist: trim(artist),
	}, nil
}

// ID3v1 pads fixed-width fields with NULs.
func trim(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}
