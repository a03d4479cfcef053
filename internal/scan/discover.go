// Package scan turns a directory of downloaded music into import tasks and runs them.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"youtubetitle/internal/core"
)

// Discover walks root and returns one task per directory holding music files. A directory
// with a single file becomes a singleton task, anything larger an album task.
func Discover(root string, extensions []string) ([]core.Task, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	byDir := make(map[string][]*core.Item)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		dir := filepath.Dir(path)
		byDir[dir] = append(byDir[dir], &core.Item{Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	tasks := make([]core.Task, 0, len(dirs))
	for _, dir := range dirs {
		items := byDir[dir]
		if len(items) == 1 {
			tasks = append(tasks, core.NewSingletonTask(items[0]))
			continue
		}
		tasks = append(tasks, core.NewAlbumTask(items))
	}
	return tasks, nil
}
