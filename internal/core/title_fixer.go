package core

import (
	"go.uber.org/zap"

	"youtubetitle/pkg/junk"
	"youtubetitle/pkg/pathmeta"
)

// TitleFixer fills in missing title, album and artist fields from an
// Artist/Album/Track path, stripping video-site junk from the title.
type TitleFixer struct {
	config   *InferenceConfig
	patterns *junk.PatternCache
	recorder Recorder
	logger   *zap.Logger
}

// NewTitleFixer creates a TitleFixer. recorder may be nil.
func NewTitleFixer(
	config *InferenceConfig,
	patterns *junk.PatternCache,
	recorder Recorder,
	logger *zap.Logger,
) *TitleFixer {
	if patterns == nil {
		patterns = junk.NewPatternCache(junk.DefaultCacheSize)
	}
	return &TitleFixer{
		config:   config,
		patterns: patterns,
		recorder: recorder,
		logger:   logger,
	}
}

// HandleImportTaskStart processes every item of an import task as it starts.
func (f *TitleFixer) HandleImportTaskStart(task Task) []Changes {
	items := task.Items()
	f.logger.Debug("Import task started",
		zap.String("kind", task.Kind.String()),
		zap.Int("items", len(items)))

	changes := make([]Changes, 0, len(items))
	for _, item := range items {
		changes = append(changes, f.ApplyItem(item))
	}
	return changes
}

// ApplyItem fills the empty fields of item. Non-empty fields are never touched.
func (f *TitleFixer) ApplyItem(item *Item) Changes {
	var changes Changes

	if item.Title == "" {
		item.Title = f.CleanTitle(item)
		changes.Title = item.Title != ""
	}

	if f.config.ParentIsAlbum && item.Album == "" {
		item.Album = f.Album(item)
		changes.Album = item.Album != ""
	}

	if f.config.ParentParentIsArtist && item.Artist == "" {
		item.Artist = f.Artist(item)
		changes.Artist = item.Artist != ""
	}

	if changes.Any() {
		f.logger.Debug("Filled in item metadata",
			zap.String("path", item.Path),
			zap.Strings("fields", changes.Fields()),
			zap.String("title", item.Title),
			zap.String("album", item.Album),
			zap.String("artist", item.Artist))
	}

	if f.recorder != nil {
		f.recorder.RecordItem(changes)
	}

	return changes
}

// CleanTitle derives the title from the file name and removes junk from it.
func (f *TitleFixer) CleanTitle(item *Item) string {
	path := pathmeta.Displayable(item.Path)

	// Junk patterns specific to this item go before the generic catalog.
	patterns := make([]*junk.Pattern, 0, 2)
	if f.config.ParentIsAlbum {
		patterns = append(patterns, f.patterns.Album(pathmeta.AlbumName(path)))
	}
	if f.config.ParentParentIsArtist {
		patterns = append(patterns, f.patterns.Artist(pathmeta.ArtistName(path)))
	}
	patterns = append(patterns, junk.Catalog()...)

	return junk.ReplaceJunk(pathmeta.TrackTitle(path), patterns...)
}

// Album returns the raw album name taken from the parent directory.
func (f *TitleFixer) Album(item *Item) string {
	return pathmeta.AlbumName(pathmeta.Displayable(item.Path))
}

// Artist returns the raw artist name taken from the grandparent directory.
func (f *TitleFixer) Artist(item *Item) string {
	return pathmeta.ArtistName(pathmeta.Displayable(item.Path))
}
