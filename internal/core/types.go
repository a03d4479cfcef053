package core

// Item is one track handed over by the import pipeline.
// Empty strings mean the field is unset.
type Item struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Album  string `json:"album"`
	Artist string `json:"artist"`
}

type TaskKind int

const (
	// TaskSingleton carries one track imported on its own
	TaskSingleton TaskKind = iota
	// TaskAlbum carries every track of one album directory
	TaskAlbum
)

func (k TaskKind) String() string {
	switch k {
	case TaskSingleton:
		return "singleton"
	case TaskAlbum:
		return "album"
	default:
		return "unknown"
	}
}

// Task is one import batch: either a single Item or a group of them.
type Task struct {
	Kind  TaskKind
	Item  *Item
	Group []*Item
}

func NewSingletonTask(item *Item) Task {
	return Task{Kind: TaskSingleton, Item: item}
}

func NewAlbumTask(items []*Item) Task {
	return Task{Kind: TaskAlbum, Group: items}
}

// Items flattens the task into the list of items to process.
func (t Task) Items() []*Item {
	if t.Kind == TaskAlbum {
		return t.Group
	}
	if t.Item == nil {
		return nil
	}
	return []*Item{t.Item}
}

// Changes records which fields of an item were filled in.
type Changes struct {
	Title  bool `json:"title"`
	Album  bool `json:"album"`
	Artist bool `json:"artist"`
}

// Any reports whether at least one field changed.
func (c Changes) Any() bool {
	return c.Title || c.Album || c.Artist
}

// Fields lists the names of the changed fields.
func (c Changes) Fields() []string {
	var fields []string
	if c.Title {
		fields = append(fields, FieldTitle)
	}
	if c.Album {
		fields = append(fields, FieldAlbum)
	}
	if c.Artist {
		fields = append(fields, FieldArtist)
	}
	return fields
}

const (
	FieldTitle  = "title"
	FieldAlbum  = "album"
	FieldArtist = "artist"
)

// Recorder receives per-item outcomes, typically for metrics.
type Recorder interface {
	RecordItem(changes Changes)
}
