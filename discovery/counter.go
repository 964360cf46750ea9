package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"golang.org/x/sync/errgroup"

	"repomuse/cache"
	"repomuse/scan"
)

// CountFiles walks the whole project and counts every eligible file. It
// always recomputes, then records the result in the count cache so the
// next listing can serve the exact number instead of an estimate.
func (e *Engine) CountFiles(project string) (int, error) {
	info, err := os.Stat(project)
	if err != nil || !info.IsDir() {
		return 0, serr.New("Invalid project path")
	}

	count := e.exactCount(project)

	counts := cache.LoadMap[countEntry](e.counts)
	counts[project] = countEntry{
		Path:         project,
		Count:        count,
		LastModified: scan.DirModTime(project),
		CachedAt:     time.Now().Unix(),
	}
	if err := cache.SaveMap(e.counts, counts); err != nil {
		logger.LogErr(err, "failed to persist file count cache")
	}

	logger.Info("Counted project files", "project", project, "count", count)
	return count, nil
}

// ClearCounts removes the persisted file-count cache so every project
// falls back to estimates until recounted.
func (e *Engine) ClearCounts() error {
	return e.counts.Clear()
}

// exactCount fans subtree walks out across the worker pool, one goroutine
// per immediate subdirectory; files directly under root are counted
// inline.
func (e *Engine) exactCount(root string) int {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return 0
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	subCounts := make([]int, len(dirents))
	rootFiles := 0

	for i, d := range dirents {
		path := filepath.Join(root, d.Name())
		if d.IsDir() {
			g.Go(func() error {
				subCounts[i] = countUnder(path)
				return nil
			})
		} else if d.Type().IsRegular() && scan.Eligible(path) {
			rootFiles++
		}
	}
	g.Wait()

	total := rootFiles
	for _, c := range subCounts {
		total += c
	}
	return total
}

// countUnder counts eligible files in one subtree sequentially.
func countUnder(dir string) int {
	n := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && scan.Eligible(path) {
			n++
		}
		return nil
	})
	return n
}
