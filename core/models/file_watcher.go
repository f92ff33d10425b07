package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/importmend/core/logger"
)

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	RootDir       string
	ExcludePaths  []string
	DebounceTimer *time.Timer
	Debounce      time.Duration
	Pending       map[string]struct{}
	Mutex         sync.Mutex
	OnStart       func() error
	OnChange      func(paths []string) error
	OnClose       func() error
}

func NewFileWatcher(rootDir string, excludePaths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		Watcher:      watcher,
		RootDir:      rootDir,
		Debounce:     500 * time.Millisecond,
		Pending:      make(map[string]struct{}),
		OnStart:      func() error { return fmt.Errorf("OnStart not set") },
		OnChange:     func([]string) error { return fmt.Errorf("OnChange not set") },
		OnClose:      func() error { return nil },
		ExcludePaths: append([]string{".git"}, excludePaths...),
	}

	logger.Debug("Excluding paths: %v", fw.ExcludePaths)
	return fw, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func(paths []string) error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}
