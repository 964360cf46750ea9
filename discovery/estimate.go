package discovery

import (
	"io/fs"
	"os"
	"path/filepath"

	"repomuse/scan"
)

// EstimateOptions tunes the fast file-count estimator.
type EstimateOptions struct {
	// MaxDepth is how deep files are counted exactly.
	MaxDepth int
	// SampleStride samples every Nth directory found at MaxDepth.
	SampleStride int
	// SampleCap is the entry budget when sampling one subtree.
	SampleCap int
}

// DefaultEstimateOptions trades accuracy for interactive listing latency:
// exact to depth 3, sampling every 10th deep directory on a 50-entry
// budget.
func DefaultEstimateOptions() EstimateOptions {
	return EstimateOptions{MaxDepth: 3, SampleStride: 10, SampleCap: 50}
}

// EstimateFiles approximates the eligible-file count under root without
// walking the whole tree. Files down to MaxDepth are counted exactly;
// directories sitting at MaxDepth are sampled every SampleStride-th and
// the sample extrapolated across its unsampled siblings. Unreadable
// entries are skipped. Never exact on deep trees, and never claimed to be.
func EstimateFiles(root string, opts EstimateOptions) int {
	if opts.MaxDepth < 1 || opts.SampleStride < 1 {
		return 0
	}

	total := 0
	deepDirs := 0

	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		dirents, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, d := range dirents {
			path := filepath.Join(dir, d.Name())
			if d.IsDir() {
				if depth+1 >= opts.MaxDepth {
					deepDirs++
					if deepDirs%opts.SampleStride == 0 {
						total += sampleSubtree(path, opts.SampleCap) * opts.SampleStride
					}
				} else {
					walk(path, depth+1)
				}
			} else if d.Type().IsRegular() && scan.Eligible(path) {
				total++
			}
		}
	}
	walk(root, 0)
	return total
}

// sampleSubtree counts eligible files among the first budget entries of a
// subtree, the directory itself included. An exhausted budget doubles the
// count as truncation compensation.
func sampleSubtree(dir string, budget int) int {
	count, seen := 0, 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if seen >= budget {
			return fs.SkipAll
		}
		seen++
		if d.Type().IsRegular() && scan.Eligible(path) {
			count++
		}
		return nil
	})
	if seen >= budget {
		count *= 2
	}
	return count
}
