package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/importmend/core/logger"
)

type Walker interface {
	Walk(root string, fn func(path string) error) error
}

type SourceWalker struct {
	Extensions []string
	Exclude    []string
}

func NewSourceWalker(extensions, exclude []string) *SourceWalker {
	return &SourceWalker{
		Extensions: extensions,
		Exclude:    exclude,
	}
}

// IsEligible reports whether path has one of the walker's extensions.
// Matching is case sensitive.
func (w *SourceWalker) IsEligible(path string) bool {
	for _, ext := range w.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether relPath (relative to the walk root) is an
// excluded directory or lies under one.
func (w *SourceWalker) IsExcluded(relPath string) bool {
	relPath = filepath.Clean(relPath)
	for _, ex := range w.Exclude {
		ex = filepath.Clean(filepath.FromSlash(ex))
		if relPath == ex || strings.HasPrefix(relPath, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Walk calls fn for each eligible file under root, depth first in lexical
// order. Ineligible files are never opened. An error from fn stops the walk;
// an unreadable entry below root is logged and skipped.
//
// A root that is itself a symlink is followed, and paths passed to fn stay
// under root rather than the link target. Symlinked directories below root
// are not descended.
func (w *SourceWalker) Walk(root string, fn func(path string) error) error {
	walkRoot, err := resolveRoot(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			logger.Warn("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if relPath != "." && w.IsExcluded(relPath) {
				logger.Debug("Excluding directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !w.IsEligible(path) || w.IsExcluded(relPath) || !isFile(path, d) {
			return nil
		}

		return fn(filepath.Join(root, relPath))
	})
}

// resolveRoot returns the directory to walk for root, following root when
// it is a symlink.
func resolveRoot(root string) (string, error) {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root, nil
	}

	target, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	logger.Debug("Source root %s is a symlink to %s", root, target)
	return target, nil
}

// isFile accepts regular files and symlinks to regular files. Symlinked
// directories are not descended into.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
