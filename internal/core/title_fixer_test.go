package core

import (
	"testing"

	"go.uber.org/zap"

	"youtubetitle/pkg/junk"
)

type mockRecorder struct {
	items   int
	changed []Changes
}

func (m *mockRecorder) RecordItem(changes Changes) {
	m.items++
	m.changed = append(m.changed, changes)
}

func newTestFixer(inferAlbum, inferArtist bool, recorder Recorder) *TitleFixer {
	config := &InferenceConfig{
		ParentIsAlbum:        inferAlbum,
		ParentParentIsArtist: inferArtist,
	}
	return NewTitleFixer(config, junk.NewPatternCache(junk.DefaultCacheSize), recorder, zap.NewNop())
}

func TestTitleFixer_ApplyItem(t *testing.T) {
	tests := []struct {
		name        string
		inferAlbum  bool
		inferArtist bool
		item        Item
		expected    Item
		changes     Changes
	}{
		{
			name:        "Official audio",
			inferAlbum:  true,
			inferArtist: true,
			item:        Item{Path: "Artist/Album/01 Track (Official Audio).mp3"},
			expected: Item{
				Path: "Artist/Album/01 Track (Official Audio).mp3", Title: "01 Track",
				Album: "Album", Artist: "Artist",
			},
			changes: Changes{Title: true, Album: true, Artist: true},
		},
		{
			name:        "Artist prefix and video junk",
			inferAlbum:  true,
			inferArtist: true,
			item:        Item{Path: "/music/Artist/Singles/Artist - Song Title (Official Video).webm"},
			expected: Item{
				Path: "/music/Artist/Singles/Artist - Song Title (Official Video).webm", Title: "Song Title",
				Album: "Singles", Artist: "Artist",
			},
			changes: Changes{Title: true, Album: true, Artist: true},
		},
		{
			name:        "Album name in title",
			inferAlbum:  true,
			inferArtist: true,
			item:        Item{Path: "Band/Best Of/Song (Best Of) [HD].mp3"},
			expected: Item{
				Path: "Band/Best Of/Song (Best Of) [HD].mp3", Title: "Song",
				Album: "Best Of", Artist: "Band",
			},
			changes: Changes{Title: true, Album: true, Artist: true},
		},
		{
			name:        "Artist inference disabled keeps artist in title",
			inferAlbum:  true,
			inferArtist: false,
			item:        Item{Path: "Artist/Album/Artist - Song (Official Video).mp3"},
			expected: Item{
				Path: "Artist/Album/Artist - Song (Official Video).mp3", Title: "Artist - Song",
				Album: "Album",
			},
			changes: Changes{Title: true, Album: true},
		},
		{
			name:        "Album inference disabled keeps album in title",
			inferAlbum:  false,
			inferArtist: false,
			item:        Item{Path: "Artist/Greatest Hits/Song (Greatest Hits).mp3"},
			expected:    Item{Path: "Artist/Greatest Hits/Song (Greatest Hits).mp3", Title: "Song (Greatest Hits)"},
			changes:     Changes{Title: true},
		},
		{
			name:        "Existing fields are kept",
			inferAlbum:  true,
			inferArtist: true,
			item: Item{
				Path: "Artist/Album/Song (Lyrics).mp3", Title: "Tagged Title",
				Album: "Tagged Album", Artist: "Tagged Artist",
			},
			expected: Item{
				Path: "Artist/Album/Song (Lyrics).mp3", Title: "Tagged Title",
				Album: "Tagged Album", Artist: "Tagged Artist",
			},
			changes: Changes{},
		},
		{
			name:        "Directory names are not cleaned",
			inferAlbum:  true,
			inferArtist: true,
			item:        Item{Path: "Artist (Official)/Album [HD]/Song.mp3"},
			expected: Item{
				Path: "Artist (Official)/Album [HD]/Song.mp3", Title: "Song",
				Album: "Album [HD]", Artist: "Artist (Official)",
			},
			changes: Changes{Title: true, Album: true, Artist: true},
		},
		{
			name:        "Shallow path",
			inferAlbum:  true,
			inferArtist: true,
			item:        Item{Path: "Song (Official Audio).mp3"},
			expected:    Item{Path: "Song (Official Audio).mp3", Title: "Song"},
			changes:     Changes{Title: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixer := newTestFixer(tt.inferAlbum, tt.inferArtist, nil)
			item := tt.item

			changes := fixer.ApplyItem(&item)

			if item != tt.expected {
				t.Errorf("ApplyItem() item = %+v, want %+v", item, tt.expected)
			}
			if changes != tt.changes {
				t.Errorf("ApplyItem() changes = %+v, want %+v", changes, tt.changes)
			}
		})
	}
}

func TestTitleFixer_AlbumAndArtistAreRaw(t *testing.T) {
	fixer := newTestFixer(true, true, nil)
	item := &Item{Path: "Artist [Official Video]/Album (Official Audio)/Song.mp3"}

	if got := fixer.Album(item); got != "Album (Official Audio)" {
		t.Errorf("Album() = %q, want %q", got, "Album (Official Audio)")
	}
	if got := fixer.Artist(item); got != "Artist [Official Video]" {
		t.Errorf("Artist() = %q, want %q", got, "Artist [Official Video]")
	}
}

func TestTitleFixer_HandleImportTaskStart(t *testing.T) {
	recorder := &mockRecorder{}
	fixer := newTestFixer(true, true, recorder)

	a := &Item{Path: "Artist/Album/01 One (Official Audio).mp3"}
	b := &Item{Path: "Artist/Album/02 Two [HQ].mp3", Title: "Two"}

	changes := fixer.HandleImportTaskStart(NewAlbumTask([]*Item{a, b}))

	if len(changes) != 2 {
		t.Fatalf("HandleImportTaskStart() returned %d changes, want 2", len(changes))
	}
	if a.Title != "01 One" {
		t.Errorf("first item title = %q, want %q", a.Title, "01 One")
	}
	if b.Title != "Two" {
		t.Errorf("second item title = %q, want it untouched", b.Title)
	}
	if changes[1].Title {
		t.Error("second item title should not be reported as changed")
	}
	if !changes[1].Album || !changes[1].Artist {
		t.Error("second item album and artist should be reported as changed")
	}
	if recorder.items != 2 {
		t.Errorf("recorder saw %d items, want 2", recorder.items)
	}

	single := &Item{Path: "Artist/Singles/Song (Visualizer).mp3"}
	fixer.HandleImportTaskStart(NewSingletonTask(single))
	if single.Title != "Song" || single.Album != "Singles" || single.Artist != "Artist" {
		t.Errorf("singleton item = %+v", single)
	}
	if recorder.items != 3 {
		t.Errorf("recorder saw %d items, want 3", recorder.items)
	}
}

func TestTitleFixer_NilPatternCache(t *testing.T) {
	config := &InferenceConfig{ParentIsAlbum: true, ParentParentIsArtist: true}
	fixer := NewTitleFixer(config, nil, nil, zap.NewNop())

	item := &Item{Path: "Artist/Album/Song (Audio).mp3"}
	if got := fixer.CleanTitle(item); got != "Song" {
		t.Errorf("CleanTitle() = %q, want %q", got, "Song")
	}
}
