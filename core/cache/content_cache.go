package cache

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tristendillon/importmend/core/logger"
)

// ContentEntry is the last known state of a file the remapper has processed.
type ContentEntry struct {
	FilePath    string
	ContentHash string
	ModTime     time.Time
	Size        int64
}

type Stats struct {
	TotalFiles int
	Hits       int64
	Misses     int64
	HitRate    float64
}

// ContentCache remembers the content hash of each file as of the last time
// it was processed, so watch mode can skip events that did not change
// anything (including the remapper's own writes).
type ContentCache struct {
	entries map[string]*ContentEntry
	mutex   sync.RWMutex
	hits    int64
	misses  int64
}

func NewContentCache() *ContentCache {
	return &ContentCache{
		entries: make(map[string]*ContentEntry),
	}
}

// Changed reports whether filePath differs from its recorded state. Unknown
// files count as changed; deleted files are forgotten and reported unchanged.
func (cc *ContentCache) Changed(filePath string) (bool, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			cc.Forget(filePath)
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	existing, exists := cc.entries[filePath]
	if !exists {
		logger.Debug("ContentCache: New file detected: %s", filePath)
		cc.misses++
		return true, nil
	}

	// Quick check: if size and modtime haven't changed, assume content is same
	if stat.Size() == existing.Size && stat.ModTime().Equal(existing.ModTime) {
		cc.hits++
		return false, nil
	}

	newHash, err := calculateFileHash(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	if newHash != existing.ContentHash {
		logger.Debug("ContentCache: Content changed for %s (hash: %s -> %s)", filePath, existing.ContentHash[:8], newHash[:8])
		cc.misses++
		return true, nil
	}

	// Content same, but modtime/size changed (editor save, etc.)
	existing.ModTime = stat.ModTime()
	existing.Size = stat.Size()
	cc.hits++
	return false, nil
}

// Record stores the current state of filePath.
func (cc *ContentCache) Record(filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	hash, err := calculateFileHash(filePath)
	if err != nil {
		return fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.entries[filePath] = &ContentEntry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
	}
	return nil
}

func (cc *ContentCache) Get(filePath string) (*ContentEntry, bool) {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	entry, ok := cc.entries[filePath]
	return entry, ok
}

func (cc *ContentCache) Forget(filePath string) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	if _, exists := cc.entries[filePath]; exists {
		delete(cc.entries, filePath)
		logger.Debug("ContentCache: Removed entry for %s", filePath)
	}
}

func (cc *ContentCache) GetStats() Stats {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	stats := Stats{
		TotalFiles: len(cc.entries),
		Hits:       cc.hits,
		Misses:     cc.misses,
	}
	if total := cc.hits + cc.misses; total > 0 {
		stats.HitRate = float64(cc.hits) / float64(total) * 100
	}
	return stats
}

func (cc *ContentCache) LogStats() {
	stats := cc.GetStats()
	logger.Debug("Cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Total Entries=%d",
		stats.Hits, stats.Misses, stats.HitRate, stats.TotalFiles)
}

// calculateFileHash computes MD5 hash of file content
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
