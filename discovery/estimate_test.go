package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to mkdir %s: %v", path, err)
	}
}

func mustTouch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// buildDeepTree creates root/a/b/cNN directories where cNN holds
// fileCounts[NN-1] files. The cNN directories sit at depth 3.
func buildDeepTree(t *testing.T, fileCounts []int) string {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, "a", "b")
	mustMkdir(t, base)
	for i, n := range fileCounts {
		dir := filepath.Join(base, fmt.Sprintf("c%02d", i+1))
		mustMkdir(t, dir)
		for f := 0; f < n; f++ {
			mustTouch(t, filepath.Join(dir, fmt.Sprintf("f%02d.go", f)))
		}
	}
	return root
}

func TestEstimateExactWithinDepth(t *testing.T) {
	root := t.TempDir()
	mustTouch(t, filepath.Join(root, "a.txt"))
	mustMkdir(t, filepath.Join(root, "sub", "deep"))
	mustTouch(t, filepath.Join(root, "sub", "b.txt"))
	mustTouch(t, filepath.Join(root, "sub", "deep", "c.txt"))

	got := EstimateFiles(root, DefaultEstimateOptions())
	if got != 3 {
		t.Errorf("Expected exact count 3 for a shallow tree, got %d", got)
	}
}

// TestEstimateSamplesDeepDirs tests the every-Nth sampling extrapolation
func TestEstimateSamplesDeepDirs(t *testing.T) {
	// c01..c20 with 1..20 files each; only c10 and c20 get sampled
	counts := make([]int, 20)
	for i := range counts {
		counts[i] = i + 1
	}
	root := buildDeepTree(t, counts)

	got := EstimateFiles(root, DefaultEstimateOptions())
	want := 10*10 + 20*10 // each sample extrapolated across its stride
	if got != want {
		t.Errorf("Expected estimate %d, got %d", want, got)
	}
}

// TestEstimateBudgetDoubling tests the compensation factor when a sampled
// subtree exhausts the entry budget
func TestEstimateBudgetDoubling(t *testing.T) {
	counts := make([]int, 10)
	counts[9] = 60 // the sampled directory holds more entries than the budget
	root := buildDeepTree(t, counts)

	got := EstimateFiles(root, DefaultEstimateOptions())
	// Budget of 50 entries: the directory itself plus 49 files, doubled,
	// then extrapolated by the stride.
	want := 49 * 2 * 10
	if got != want {
		t.Errorf("Expected estimate %d, got %d", want, got)
	}
}

func TestEstimateCustomOptions(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "x", "y1"))
	mustMkdir(t, filepath.Join(root, "x", "y2"))
	mustTouch(t, filepath.Join(root, "x", "y1", "a.go"))
	mustTouch(t, filepath.Join(root, "x", "y1", "b.go"))
	mustTouch(t, filepath.Join(root, "x", "y2", "a.go"))
	mustTouch(t, filepath.Join(root, "x", "y2", "b.go"))
	mustTouch(t, filepath.Join(root, "x", "y2", "c.go"))

	opts := EstimateOptions{MaxDepth: 2, SampleStride: 1, SampleCap: 50}
	if got := EstimateFiles(root, opts); got != 5 {
		t.Errorf("Expected 5 with stride 1, got %d", got)
	}
}

// TestEstimateDeepMaxDepthIsExact tests that a generous depth makes the
// estimator agree with the exact counter
func TestEstimateDeepMaxDepthIsExact(t *testing.T) {
	counts := make([]int, 20)
	for i := range counts {
		counts[i] = i + 1
	}
	root := buildDeepTree(t, counts)

	opts := EstimateOptions{MaxDepth: 32, SampleStride: 10, SampleCap: 50}
	got := EstimateFiles(root, opts)
	want := countUnder(root)
	if got != want {
		t.Errorf("Expected estimate %d to match exact count %d", got, want)
	}
	if want != 210 {
		t.Errorf("Fixture should hold 210 files, counted %d", want)
	}
}

func TestEstimateMissingRoot(t *testing.T) {
	if got := EstimateFiles("/no/such/dir", DefaultEstimateOptions()); got != 0 {
		t.Errorf("Expected 0 for missing root, got %d", got)
	}
}
