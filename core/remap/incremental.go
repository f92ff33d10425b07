package remap

import (
	"github.com/tristendillon/importmend/core/cache"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/models"
)

// Incremental re-runs the remapper on individual files as they change,
// skipping files whose content is what it was the last time they were
// processed.
type Incremental struct {
	remapper *Remapper
	cache    *cache.ContentCache
}

func NewIncremental(remapper *Remapper, contentCache *cache.ContentCache) *Incremental {
	if contentCache == nil {
		contentCache = cache.NewContentCache()
	}
	return &Incremental{remapper: remapper, cache: contentCache}
}

// Prime runs a full pass and records the state of every eligible file.
func (inc *Incremental) Prime() (*models.Summary, error) {
	summary, err := inc.remapper.Run()
	if err != nil {
		return summary, err
	}

	err = inc.remapper.walker.Walk(inc.remapper.root, func(path string) error {
		if err := inc.cache.Record(path); err != nil {
			logger.Debug("Failed to record %s: %v", path, err)
		}
		return nil
	})
	inc.cache.LogStats()
	return summary, err
}

// Process rewrites the given files. Paths that are not eligible, no longer
// exist, or have not changed since they were last processed are skipped.
func (inc *Incremental) Process(paths []string) *models.Summary {
	summary := &models.Summary{}
	for _, path := range paths {
		if !inc.remapper.walker.IsEligible(path) {
			continue
		}
		if rel, ok := inc.remapper.relToRoot(path); !ok || inc.remapper.walker.IsExcluded(rel) {
			continue
		}

		changed, err := inc.cache.Changed(path)
		if err != nil {
			logger.Error("Failed to check %s: %v", path, err)
			summary.Add(models.FileResult{Path: path, Err: err})
			continue
		}
		if !changed {
			logger.Debug("Skipping unchanged file: %s", path)
			continue
		}

		fixed, err := inc.remapper.RewriteFile(path)
		if err != nil {
			logger.Error("Failed to rewrite %s: %v", path, err)
		}
		summary.Add(models.FileResult{Path: path, Changed: fixed, Err: err})

		// Recorded even on failure so a broken file is not retried until
		// it is edited again.
		if err := inc.cache.Record(path); err != nil {
			logger.Debug("Failed to record %s: %v", path, err)
		}
	}
	inc.cache.LogStats()
	return summary
}
