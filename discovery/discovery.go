// Package discovery lists the project directories under a root folder and
// maintains their file counts. Listings are cheap by design: expensive
// exact counts are cached and refreshed on demand, with a fast estimate
// (flagged is_counting) standing in until then.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"golang.org/x/sync/errgroup"

	"repomuse/cache"
	"repomuse/scan"
)

const (
	countTTL = 24 * time.Hour
	metaTTL  = time.Hour
)

// skipDirs are child directory names never considered projects.
var skipDirs = []string{"node_modules", "target", "build", "dist", "vendor", "__pycache__"}

// ProjectSummary describes one discovered project. IsCounting signals the
// caller that FileCount is an estimate and an exact recount is worth
// requesting.
type ProjectSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsGitRepo   bool   `json:"is_git_repo"`
	FileCount   int    `json:"file_count"`
	Description string `json:"description,omitempty"`
	IsCounting  bool   `json:"is_counting"`
}

// countEntry is one file-count cache record. Timestamps are epoch seconds.
type countEntry struct {
	Path         string `json:"path"`
	Count        int    `json:"count"`
	LastModified int64  `json:"last_modified"`
	CachedAt     int64  `json:"cached_at"`
}

// metaEntry is one project-meta cache record.
type metaEntry struct {
	Path         string `json:"path"`
	Description  string `json:"description,omitempty"`
	IsGitRepo    bool   `json:"is_git_repo"`
	LastModified int64  `json:"last_modified"`
	CachedAt     int64  `json:"cached_at"`
}

// Engine discovers projects under root folders, backed by separate
// count and meta snapshot caches.
type Engine struct {
	counts  cache.Store
	meta    cache.Store
	workers int
	est     EstimateOptions
}

// NewEngine wires the two caches and the probe worker cap.
func NewEngine(counts, meta cache.Store, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		counts:  counts,
		meta:    meta,
		workers: workers,
		est:     DefaultEstimateOptions(),
	}
}

// ListProjects returns every immediate child of root that carries a
// project marker, sorted case-insensitively by name. Hidden and
// dependency directories are skipped. Probes run in parallel against
// read-only cache views; meta updates are merged and persisted once at
// the end.
func (e *Engine) ListProjects(root string) ([]ProjectSummary, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, serr.New("Invalid root directory")
	}

	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, serr.Wrap(err, "failed to read root directory")
	}

	counts := cache.LoadMap[countEntry](e.counts)
	meta := cache.LoadMap[metaEntry](e.meta)

	var children []string
	for _, d := range dirents {
		if d.IsDir() {
			children = append(children, filepath.Join(root, d.Name()))
		}
	}

	results := make([]*probeResult, len(children))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, child := range children {
		g.Go(func() error {
			results[i] = e.probeChild(child, counts, meta)
			return nil
		})
	}
	g.Wait()

	projects := make([]ProjectSummary, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.metaUpdate != nil {
			meta[res.metaUpdate.Path] = *res.metaUpdate
		}
		projects = append(projects, res.project)
	}
	if err := cache.SaveMap(e.meta, meta); err != nil {
		logger.LogErr(err, "failed to persist project meta cache")
	}

	sort.Slice(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})

	logger.Info("Listed projects", "root", root, "found", len(projects))
	return projects, nil
}

// probeResult pairs a listing row with an optional meta-cache update.
type probeResult struct {
	project    ProjectSummary
	metaUpdate *metaEntry
}

// probeChild inspects one candidate directory against the read-only cache
// views. Children that are not projects come back nil.
func (e *Engine) probeChild(path string, counts map[string]countEntry, meta map[string]metaEntry) *probeResult {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return nil
	}
	for _, skip := range skipDirs {
		if name == skip {
			return nil
		}
	}
	if !hasProjectMarker(path) {
		return nil
	}

	dirMod := scan.DirModTime(path)
	now := time.Now()

	_, gitErr := os.Stat(filepath.Join(path, ".git"))
	isGit := gitErr == nil
	description := ""

	if m, ok := meta[path]; ok && cache.Fresh(m.LastModified, m.CachedAt, dirMod, now, metaTTL) {
		isGit = m.IsGitRepo
		description = m.Description
	}

	res := &probeResult{}
	if description == "" {
		description = projectDescription(path)
		res.metaUpdate = &metaEntry{
			Path:         path,
			Description:  description,
			IsGitRepo:    isGit,
			LastModified: dirMod,
			CachedAt:     now.Unix(),
		}
	}

	fileCount := 0
	isCounting := false
	if c, ok := counts[path]; ok && cache.Fresh(c.LastModified, c.CachedAt, dirMod, now, countTTL) {
		fileCount = c.Count
	} else {
		fileCount = EstimateFiles(path, e.est)
		isCounting = true
	}

	res.project = ProjectSummary{
		Name:        name,
		Path:        path,
		IsGitRepo:   isGit,
		FileCount:   fileCount,
		Description: description,
		IsCounting:  isCounting,
	}
	return res
}
