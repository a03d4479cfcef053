package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"youtubetitle/internal/core"
	"youtubetitle/internal/store"
	"youtubetitle/internal/tags"
)

// ItemStore persists processed items.
type ItemStore interface {
	Save(ctx context.Context, item *core.Item) error
}

// TagReader returns the metadata already embedded in a file.
type TagReader func(path string) (tags.Fields, error)

// Result is one processed item and the fields that were inferred for it.
type Result struct {
	Item    *core.Item   `json:"item"`
	Changes core.Changes `json:"changes"`
}

type Runner struct {
	fixer   *core.TitleFixer
	seen    *store.PathSet
	library ItemStore
	readTag TagReader
	workers int
	logger  *zap.Logger
}

// NewRunner creates a Runner. seen, library and readTag are optional.
func NewRunner(
	fixer *core.TitleFixer,
	seen *store.PathSet,
	library ItemStore,
	readTag TagReader,
	workers int,
	logger *zap.Logger,
) *Runner {
	if workers <= 0 {
		workers = core.DefaultScanWorkers
	}
	return &Runner{
		fixer:   fixer,
		seen:    seen,
		library: library,
		readTag: readTag,
		workers: workers,
		logger:  logger,
	}
}

// Run processes tasks concurrently and returns the results sorted by path.
// Paths already processed in this session are skipped.
func (r *Runner) Run(ctx context.Context, tasks []core.Task) ([]Result, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var (
		mutex   sync.Mutex
		results []Result
	)

	for _, task := range tasks {
		g.Go(func() error {
			taskResults, err := r.runTask(gCtx, task)
			if err != nil {
				return err
			}
			mutex.Lock()
			results = append(results, taskResults...)
			mutex.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Item.Path < results[j].Item.Path
	})

	r.logger.Info("Scan finished",
		zap.Int("tasks", len(tasks)),
		zap.Int("items", len(results)))

	return results, nil
}

func (r *Runner) runTask(ctx context.Context, task core.Task) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := r.unseen(task.Items())
	if len(items) == 0 {
		return nil, nil
	}

	for _, item := range items {
		r.prefillFromTags(item)
	}

	pending := core.Task{Kind: task.Kind, Item: items[0], Group: items}
	changes := r.fixer.HandleImportTaskStart(pending)

	results := make([]Result, 0, len(items))
	for i, item := range items {
		if r.library != nil {
			if err := r.library.Save(ctx, item); err != nil {
				return nil, fmt.Errorf("failed to persist %s: %w", item.Path, err)
			}
		}
		results = append(results, Result{Item: item, Changes: changes[i]})
	}
	return results, nil
}

func (r *Runner) unseen(items []*core.Item) []*core.Item {
	if r.seen == nil {
		return items
	}

	fresh := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if !r.seen.MarkSeen(item.Path) {
			r.logger.Debug("Skipping already processed path", zap.String("path", item.Path))
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh
}

// prefillFromTags copies embedded tags into empty fields so only missing ones are inferred.
func (r *Runner) prefillFromTags(item *core.Item) {
	if r.readTag == nil {
		return
	}

	fields, err := r.readTag(item.Path)
	if err != nil {
		r.logger.Warn("Failed to read tags", zap.String("path", item.Path), zap.Error(err))
		return
	}

	if item.Title == "" {
		item.Title = fields.Title
	}
	if item.Album == "" {
		item.Album = fields.Album
	}
	if item.Artist == "" {
		item.Artist = fields.Artist
	}
}
