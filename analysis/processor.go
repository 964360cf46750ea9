package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"unicode/utf8"

	"repomuse/scan"
)

const (
	// maxContentBytes is the retention ceiling: files at or above this size
	// still count toward metrics and technologies but keep no content.
	maxContentBytes = 100_000

	// contentLimit caps retained content in bytes.
	contentLimit = 5000

	truncationMark = "...(truncated)"
)

// fileResult carries what the fold needs to know about one readable file.
// record stays nil when the file is too large for content retention.
type fileResult struct {
	parent   string
	name     string
	language string
	lines    int
	record   *FileRecord
}

// processFile reads one file as text. ok is false when the file cannot be
// read or is not valid UTF-8; such a file contributes to no output at all,
// not even the totals.
func processFile(path string) (fileResult, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, false
	}
	if !utf8.Valid(data) {
		return fileResult{}, false
	}

	res := fileResult{
		parent:   filepath.Dir(path),
		name:     filepath.Base(path),
		language: scan.Language(path),
		lines:    countLines(data),
	}

	size := int64(len(data))
	if size < maxContentBytes {
		content := string(data)
		if len(content) > contentLimit {
			content = content[:contentLimit] + truncationMark
		}
		res.record = &FileRecord{
			Path:     path,
			Content:  content,
			Language: res.language,
			Size:     size,
		}
	}
	return res, true
}

// countLines counts lines the way line iterators do: a trailing newline
// does not open a final empty line, and an empty file has zero lines.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
