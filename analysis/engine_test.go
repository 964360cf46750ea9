package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"repomuse/cache"
)

// buildFixture creates a small project: a.rs (50 lines), b.py (10 lines),
// and a node_modules file that must be ignored everywhere.
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "a.rs"),
		[]byte(strings.Repeat("let x = 1;\n", 50)), 0644); err != nil {
		t.Fatalf("Failed to write a.rs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.py"),
		[]byte(strings.Repeat("x = 1\n", 10)), 0644); err != nil {
		t.Fatalf("Failed to write b.py: %v", err)
	}
	deps := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(deps, 0755); err != nil {
		t.Fatalf("Failed to make node_modules: %v", err)
	}
	if err := os.WriteFile(filepath.Join(deps, "c.js"),
		[]byte("module.exports = {};\n"), 0644); err != nil {
		t.Fatalf("Failed to write c.js: %v", err)
	}
	return root
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(cache.NewStore(t.TempDir(), "analysis_cache.json"), 4)
}

func TestAnalyzeFixture(t *testing.T) {
	root := buildFixture(t)
	engine := newTestEngine(t)

	a, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Metrics.TotalFiles != 2 {
		t.Errorf("Expected 2 total files, got %d", a.Metrics.TotalFiles)
	}
	if a.Metrics.TotalLines != 60 {
		t.Errorf("Expected 60 total lines, got %d", a.Metrics.TotalLines)
	}
	if a.Metrics.AnalyzedFiles != len(a.Files) {
		t.Errorf("analyzed_files %d must equal len(files) %d",
			a.Metrics.AnalyzedFiles, len(a.Files))
	}
	if a.Metrics.TotalFiles < a.Metrics.AnalyzedFiles {
		t.Error("total_files must never be below analyzed_files")
	}

	if !reflect.DeepEqual(a.Technologies, []string{"Python", "Rust"}) {
		t.Errorf("Expected [Python Rust], got %v", a.Technologies)
	}
	for _, tech := range a.Technologies {
		if tech == "Unknown" {
			t.Error("Technologies must never contain Unknown")
		}
	}

	names, ok := a.Structure[root]
	if !ok {
		t.Fatalf("Expected structure entry for root, have %v", a.Structure)
	}
	if !reflect.DeepEqual(names, []string{"a.rs", "b.py"}) {
		t.Errorf("Expected [a.rs b.py] under root, got %v", names)
	}
	for dir := range a.Structure {
		if strings.Contains(dir, "node_modules") {
			t.Errorf("node_modules leaked into structure: %s", dir)
		}
	}

	if a.FromCache {
		t.Error("First run must not come from cache")
	}
	if a.GeneratedAt == "" {
		t.Error("Expected a generated_at stamp")
	}
	if _, err := time.Parse(time.RFC3339, a.GeneratedAt); err != nil {
		t.Errorf("generated_at is not RFC3339: %v", err)
	}
}

// TestAnalyzeCacheHit tests that a second run is served from cache with
// identical metrics and the original timestamp
func TestAnalyzeCacheHit(t *testing.T) {
	root := buildFixture(t)
	engine := newTestEngine(t)

	first, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("First analyze failed: %v", err)
	}
	second, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("Second analyze failed: %v", err)
	}

	if !second.FromCache {
		t.Error("Expected second run to come from cache")
	}
	if second.Metrics != first.Metrics {
		t.Errorf("Cached metrics %+v differ from computed %+v", second.Metrics, first.Metrics)
	}
	if second.GeneratedAt != first.GeneratedAt {
		t.Error("Cache hit must keep the stored generated_at")
	}
}

func TestAnalyzeForceBypassesCache(t *testing.T) {
	root := buildFixture(t)
	engine := newTestEngine(t)

	if _, err := engine.Analyze(root, false); err != nil {
		t.Fatalf("Warm-up analyze failed: %v", err)
	}
	a, err := engine.Analyze(root, true)
	if err != nil {
		t.Fatalf("Forced analyze failed: %v", err)
	}
	if a.FromCache {
		t.Error("Forced analyze must never be served from cache")
	}
}

// TestAnalyzeExpiredEntry tests that an entry past the ttl is recomputed
func TestAnalyzeExpiredEntry(t *testing.T) {
	root := buildFixture(t)
	store := cache.NewStore(t.TempDir(), "analysis_cache.json")
	engine := NewEngine(store, 4)

	if _, err := engine.Analyze(root, false); err != nil {
		t.Fatalf("Warm-up analyze failed: %v", err)
	}

	// Age the stored entry past the ttl
	entries := cache.LoadMap[cacheEntry](store)
	ent, ok := entries[root]
	if !ok {
		t.Fatal("Expected a cache entry after analyze")
	}
	ent.CachedAt -= 2 * 3600
	entries[root] = ent
	if err := cache.SaveMap(store, entries); err != nil {
		t.Fatalf("Failed to age cache entry: %v", err)
	}

	a, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.FromCache {
		t.Error("Expired entry must not be served from cache")
	}
}

func TestAnalyzeInvalidPath(t *testing.T) {
	engine := newTestEngine(t)

	if _, err := engine.Analyze("/no/such/dir", false); err == nil {
		t.Fatal("Expected error for missing directory")
	} else if !strings.Contains(err.Error(), "Invalid folder path") {
		t.Errorf("Expected invalid folder message, got %q", err.Error())
	}

	// A file is not a folder
	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("hi"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := engine.Analyze(file, false); err == nil {
		t.Fatal("Expected error for a file path")
	}
}

// TestAnalyzeSurvivesPersistFailure tests that the analysis is returned
// even when the cache snapshot cannot be written
func TestAnalyzeSurvivesPersistFailure(t *testing.T) {
	root := buildFixture(t)

	// Parent of the store dir is a regular file, so MkdirAll must fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}
	engine := NewEngine(cache.NewStore(filepath.Join(blocker, "sub"), "analysis_cache.json"), 4)

	a, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("Analyze must succeed despite persist failure: %v", err)
	}
	if a.Metrics.TotalFiles != 2 {
		t.Errorf("Expected complete analysis, got %+v", a.Metrics)
	}
}

func TestAnalyzeDropsUnreadableContent(t *testing.T) {
	root := buildFixture(t)
	if err := os.WriteFile(filepath.Join(root, "blob"),
		[]byte{0xff, 0xfe, 0x00, 0x01}, 0644); err != nil {
		t.Fatalf("Failed to write blob: %v", err)
	}
	engine := newTestEngine(t)

	a, err := engine.Analyze(root, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Metrics.TotalFiles != 2 {
		t.Errorf("Unreadable file must not count anywhere, got %d total files", a.Metrics.TotalFiles)
	}
	for _, names := range a.Structure {
		for _, name := range names {
			if name == "blob" {
				t.Error("Unreadable file leaked into structure")
			}
		}
	}
}
