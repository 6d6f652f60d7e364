package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for the file system to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watch calls onChange with the sorted set of changed .ql files each time the
// watched paths settle after a burst of writes. Directories are watched
// recursively, including ones created later. Watch returns nil when ctx is
// done and the first error of onChange otherwise.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(changed []string) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// одиночные файлы отслеживаются через их каталог
	files := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := addTree(w, p); err != nil {
				return err
			}
			continue
		}
		files[filepath.Clean(p)] = true
		if err := w.Add(filepath.Dir(p)); err != nil {
			return err
		}
	}
	watchesDirs := len(files) < len(paths)
	wanted := func(name string) bool {
		if files[filepath.Clean(name)] {
			return true
		}
		return watchesDirs && strings.HasSuffix(name, SourceExt)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						watchLog.Warningf("watch %s: %v", ev.Name, err)
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 || !wanted(ev.Name) {
				continue
			}
			watchLog.Debugf("%s %s", ev.Op, ev.Name)
			pending[ev.Name] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			watchLog.Errorf("watcher: %v", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			if err := onChange(changed); err != nil {
				return err
			}
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
