package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"youtubetitle/internal/core"
	"youtubetitle/internal/store"
	"youtubetitle/internal/tags"
	"youtubetitle/pkg/junk"
)

type mockStore struct {
	mutex sync.Mutex
	saved map[string]core.Item
	err   error
}

func (m *mockStore) Save(_ context.Context, item *core.Item) error {
	if m.err != nil {
		return m.err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]core.Item)
	}
	m.saved[item.Path] = *item
	return nil
}

func newTestFixer() *core.TitleFixer {
	config := core.DefaultConfig()
	return core.NewTitleFixer(&config.Inference, junk.NewPatternCache(junk.DefaultCacheSize), nil, zap.NewNop())
}

func testTasks() []core.Task {
	return []core.Task{
		core.NewAlbumTask([]*core.Item{
			{Path: "Artist/Album/01 One (Official Audio).mp3"},
			{Path: "Artist/Album/02 Two [HD].mp3"},
		}),
		core.NewSingletonTask(&core.Item{Path: "Artist/Singles/Artist - Song (Lyrics).mp3"}),
	}
}

func TestRunner_Run(t *testing.T) {
	lib := &mockStore{}
	runner := NewRunner(newTestFixer(), nil, lib, nil, 2, zap.NewNop())

	results, err := runner.Run(context.Background(), testTasks())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	expected := []core.Item{
		{Path: "Artist/Album/01 One (Official Audio).mp3", Title: "01 One", Album: "Album", Artist: "Artist"},
		{Path: "Artist/Album/02 Two [HD].mp3", Title: "02 Two", Album: "Album", Artist: "Artist"},
		{Path: "Artist/Singles/Artist - Song (Lyrics).mp3", Title: "Song", Album: "Singles", Artist: "Artist"},
	}

	if len(results) != len(expected) {
		t.Fatalf("Run() returned %d results, want %d", len(results), len(expected))
	}
	for i, want := range expected {
		if *results[i].Item != want {
			t.Errorf("result %d = %+v, want %+v", i, *results[i].Item, want)
		}
		if saved, ok := lib.saved[want.Path]; !ok || saved != want {
			t.Errorf("library has %+v for %s, want %+v", saved, want.Path, want)
		}
	}
}

func TestRunner_SkipsSeenPaths(t *testing.T) {
	seen := store.NewPathSet(100, 0.001)
	seen.MarkSeen("Artist/Album/01 One (Official Audio).mp3")

	runner := NewRunner(newTestFixer(), seen, nil, nil, 1, zap.NewNop())

	results, err := runner.Run(context.Background(), testTasks())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Run() returned %d results, want 2", len(results))
	}
	if results[0].Item.Path != "Artist/Album/02 Two [HD].mp3" {
		t.Errorf("first result = %q, want the unseen album track", results[0].Item.Path)
	}

	results, err = runner.Run(context.Background(), testTasks())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("second Run() returned %d results, want 0", len(results))
	}
}

func TestRunner_PrefillsFromTags(t *testing.T) {
	readTag := func(path string) (tags.Fields, error) {
		if path == "Artist/Album/01 One (Official Audio).mp3" {
			return tags.Fields{Title: "One", Artist: "Tagged Artist"}, nil
		}
		return tags.Fields{}, errors.New("unreadable")
	}

	runner := NewRunner(newTestFixer(), nil, nil, readTag, 1, zap.NewNop())

	results, err := runner.Run(context.Background(), testTasks())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	first := results[0]
	if first.Item.Title != "One" || first.Item.Artist != "Tagged Artist" || first.Item.Album != "Album" {
		t.Errorf("first item = %+v, want tagged title and artist with inferred album", *first.Item)
	}
	if first.Changes.Title || first.Changes.Artist || !first.Changes.Album {
		t.Errorf("first changes = %+v, want only album inferred", first.Changes)
	}

	if results[1].Item.Title != "02 Two" {
		t.Errorf("unreadable tags should fall back to inference, got %q", results[1].Item.Title)
	}
}

func TestRunner_LibraryError(t *testing.T) {
	lib := &mockStore{err: errors.New("disk full")}
	runner := NewRunner(newTestFixer(), nil, lib, nil, 1, zap.NewNop())

	if _, err := runner.Run(context.Background(), testTasks()); err == nil {
		t.Error("Run() should fail when the library cannot save")
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(newTestFixer(), nil, nil, nil, 1, zap.NewNop())
	if _, err := runner.Run(ctx, testTasks()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
