// Package pathmeta infers track metadata from an Artist/Album/Track path layout.
package pathmeta

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TrackTitle returns the file name without its final extension.
func TrackTitle(path string) string {
	base := name(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// dot-files like ".hidden" have no extension, only a name
		return base
	}
	return stem
}

// AlbumName returns the name of the directory holding the track.
func AlbumName(path string) string {
	return name(parent(path))
}

// ArtistName returns the name of the directory holding the album directory.
func ArtistName(path string) string {
	return name(parent(parent(path)))
}

// Displayable turns a raw path into a printable, NFC-normalized string.
func Displayable(path string) string {
	if !utf8.ValidString(path) {
		path = strings.ToValidUTF8(path, string(utf8.RuneError))
	}
	return norm.NFC.String(path)
}

func parent(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// name mirrors filepath.Base but reports "" for the root and the current directory.
func name(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
