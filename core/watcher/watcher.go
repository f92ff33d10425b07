package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/models"
	"github.com/tristendillon/importmend/core/walker"
)

type FileWatcher interface {
	Watch() error
	Close() error
}

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
	walker      *walker.SourceWalker
	closed      chan struct{}
}

func NewFileWatcher(rootDir string, sourceWalker *walker.SourceWalker) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(rootDir, sourceWalker.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
		walker:      sourceWalker,
		closed:      make(chan struct{}),
	}, nil
}

// SetDebounce changes how long the watcher waits for events to settle
// before calling OnChange.
func (fw *FileWatcherImpl) SetDebounce(d time.Duration) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()
	fw.FileWatcher.Debounce = d
}

// Watch blocks until Close is called or the underlying watcher fails.
func (fw *FileWatcherImpl) Watch() error {
	if err := fw.addWatchersRecursively(fw.FileWatcher.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-fw.closed:
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				if fw.isClosed() {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(event)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				if fw.isClosed() {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) handleEvent(event fsnotify.Event) {
	if fw.shouldExcludePath(event.Name) {
		return
	}

	logger.Debug("File event: %s %s", event.Op, event.Name)

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	stat, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if stat.IsDir() {
		// A moved-in directory arrives as a single create; its files need
		// watching and processing too.
		if event.Has(fsnotify.Create) {
			logger.Debug("Adding watcher for new directory: %s", event.Name)
			if err := fw.addWatchersRecursively(event.Name); err != nil {
				logger.Error("Failed to watch %s: %v", event.Name, err)
			}
			err := fw.walker.Walk(event.Name, func(path string) error {
				fw.debounceChange(path)
				return nil
			})
			if err != nil {
				logger.Error("Failed to scan %s: %v", event.Name, err)
			}
		}
		return
	}

	if fw.walker.IsEligible(event.Name) {
		fw.debounceChange(event.Name)
	}
}

func (fw *FileWatcherImpl) debounceChange(path string) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.Pending[path] = struct{}{}

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, fw.flush)
}

func (fw *FileWatcherImpl) flush() {
	fw.FileWatcher.Mutex.Lock()
	paths := make([]string, 0, len(fw.FileWatcher.Pending))
	for path := range fw.FileWatcher.Pending {
		paths = append(paths, path)
	}
	fw.FileWatcher.Pending = make(map[string]struct{})
	fw.FileWatcher.Mutex.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	logger.Debug("File changes detected, rewriting %d files...", len(paths))
	if err := fw.FileWatcher.OnChange(paths); err != nil {
		logger.Error("Watcher.OnChange failed: %v", err)
	}
}

func (fw *FileWatcherImpl) isClosed() bool {
	select {
	case <-fw.closed:
		return true
	default:
		return false
	}
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	if fw.isClosed() {
		fw.FileWatcher.Mutex.Unlock()
		return nil
	}
	close(fw.closed)

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}
	fw.FileWatcher.Mutex.Unlock()

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil {
		return false
	}

	relPath = filepath.Clean(relPath)

	for _, excludePath := range fw.FileWatcher.ExcludePaths {
		excludePath = filepath.Clean(excludePath)

		if relPath == excludePath {
			return true
		}
		if strings.HasPrefix(relPath, excludePath+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
