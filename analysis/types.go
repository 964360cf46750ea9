package analysis

// FileRecord is one analyzed file with its (possibly truncated) content.
type FileRecord struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
}

// Metrics aggregates counts over every file that could be read as text.
// TotalFiles and TotalLines cover all readable files; AnalyzedFiles counts
// only those small enough for their content to be retained.
type Metrics struct {
	TotalFiles    int `json:"total_files"`
	TotalLines    int `json:"total_lines"`
	AnalyzedFiles int `json:"analyzed_files"`
}

// Analysis is the complete result of analyzing one directory tree. It is
// immutable once produced; a rerun supersedes it rather than mutating it.
type Analysis struct {
	Files        []FileRecord        `json:"files"`
	Structure    map[string][]string `json:"structure"`
	Technologies []string            `json:"technologies"`
	Metrics      Metrics             `json:"metrics"`
	GeneratedAt  string              `json:"generated_at"`
	FromCache    bool                `json:"from_cache"`
}

// cacheEntry is one analysis cache record. Timestamps are epoch seconds;
// LastModified snapshots the root directory's mtime at analysis time.
type cacheEntry struct {
	Path         string   `json:"path"`
	LastModified int64    `json:"last_modified"`
	CachedAt     int64    `json:"cached_at"`
	Analysis     Analysis `json:"analysis"`
}
