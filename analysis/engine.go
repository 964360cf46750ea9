// Package analysis walks a directory tree, reads every eligible text file,
// and folds the results into a single Analysis document: file contents,
// directory structure, the technology set, and aggregate metrics. Results
// are memoized in a JSON snapshot cache keyed by the raw root path.
package analysis

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"

	"repomuse/cache"
	"repomuse/scan"
)

// cacheTTL bounds how long a cached analysis is served. The root mtime
// check alone is not enough: a directory's mtime does not move when a file
// deeper in the tree changes.
const cacheTTL = time.Hour

// Engine analyzes directory trees with bounded parallelism, memoizing
// results in the snapshot store it was constructed with.
type Engine struct {
	store   cache.Store
	workers int
}

// NewEngine returns an engine persisting to store and processing files on
// at most workers goroutines.
func NewEngine(store cache.Store, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{store: store, workers: workers}
}

// Analyze walks root and folds every readable eligible file into one
// Analysis. A fresh cache entry short-circuits the walk unless force is
// set. Cache persistence failures are logged and swallowed; the computed
// analysis is returned regardless.
func (e *Engine) Analyze(root string, force bool) (*Analysis, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, serr.New("Invalid folder path")
	}

	dirMod := scan.DirModTime(root)
	now := time.Now()
	entries := cache.LoadMap[cacheEntry](e.store)

	if !force {
		if ent, ok := entries[root]; ok && cache.Fresh(ent.LastModified, ent.CachedAt, dirMod, now, cacheTTL) {
			result := ent.Analysis
			result.FromCache = true
			logger.Info("Serving analysis from cache", "root", root)
			return &result, nil
		}
	}

	paths := collectFiles(root)
	result := fold(e.processAll(paths))
	result.GeneratedAt = now.UTC().Format(time.RFC3339)

	entries[root] = cacheEntry{
		Path:         root,
		LastModified: dirMod,
		CachedAt:     now.Unix(),
		Analysis:     *result,
	}
	if err := cache.SaveMap(e.store, entries); err != nil {
		logger.LogErr(err, "failed to persist analysis cache")
	}

	logger.Info("Analyzed directory", "root", root,
		"total_files", result.Metrics.TotalFiles,
		"analyzed_files", result.Metrics.AnalyzedFiles)
	return result, nil
}

// collectFiles gathers every eligible regular file under root in walk
// order. Unreadable entries vanish silently.
func collectFiles(root string) []string {
	var paths []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && scan.Eligible(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

// processAll maps processFile over paths with bounded parallelism. Each
// goroutine owns exactly one result slot, so the phase needs no locking;
// the fold that follows runs single-threaded.
func (e *Engine) processAll(paths []string) []*fileResult {
	results := make([]*fileResult, len(paths))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if res, ok := processFile(path); ok {
				results[i] = &res
			}
		}(i, path)
	}
	wg.Wait()
	return results
}

// fold reduces per-file results into one Analysis. Nil slots are files
// that failed processing; they contribute nothing anywhere.
func fold(results []*fileResult) *Analysis {
	a := &Analysis{
		Files:     make([]FileRecord, 0, len(results)),
		Structure: make(map[string][]string),
	}
	techs := make(map[string]bool)

	for _, res := range results {
		if res == nil {
			continue
		}
		a.Metrics.TotalFiles++
		a.Metrics.TotalLines += res.lines
		if res.language != scan.UnknownLanguage {
			techs[res.language] = true
		}
		if res.record != nil {
			a.Files = append(a.Files, *res.record)
			a.Structure[res.parent] = append(a.Structure[res.parent], res.name)
		}
	}

	a.Metrics.AnalyzedFiles = len(a.Files)
	a.Technologies = make([]string, 0, len(techs))
	for lang := range techs {
		a.Technologies = append(a.Technologies, lang)
	}
	sort.Strings(a.Technologies)
	return a
}
