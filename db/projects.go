package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ProjectRecord represents a project row in the registry
type ProjectRecord struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsGitRepo   bool   `json:"is_git_repo"`
	FileCount   int    `json:"file_count"`
}

// JSONStrings is a helper type for JSON array columns
type JSONStrings []string

// Scan implements sql.Scanner interface for JSONStrings
func (s *JSONStrings) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}
}

// Value implements driver.Valuer interface for JSONStrings
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// UpsertProject records that a project was analyzed, inserting or
// refreshing its registry row
func (db *DB) UpsertProject(rec ProjectRecord) error {
	query := `
		INSERT INTO projects (path, name, description, is_git_repo, file_count, last_analyzed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (path) DO UPDATE SET
			name = excluded.name,
			description = COALESCE(NULLIF(excluded.description, ''), projects.description),
			is_git_repo = excluded.is_git_repo,
			file_count = excluded.file_count,
			last_analyzed_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := db.Exec(query, rec.Path, rec.Name, rec.Description, rec.IsGitRepo, rec.FileCount)
	if err != nil {
		return serr.Wrap(err, "failed to upsert project")
	}

	return nil
}

// ToggleFavorite flips a project's favorite flag and returns the new state.
// A registry row is created on the fly for projects never analyzed.
func (db *DB) ToggleFavorite(path string) (bool, error) {
	_, err := db.Exec(`
		INSERT INTO projects (path, name)
		VALUES (?, ?)
		ON CONFLICT (path) DO NOTHING
	`, path, filepath.Base(path))
	if err != nil {
		return false, serr.Wrap(err, "failed to ensure project row")
	}

	var isFavorite bool
	err = db.QueryRow(`
		UPDATE projects
		SET is_favorite = NOT is_favorite, updated_at = CURRENT_TIMESTAMP
		WHERE path = ?
		RETURNING is_favorite
	`, path).Scan(&isFavorite)
	if err != nil {
		return false, serr.Wrap(err, "failed to toggle favorite")
	}

	logger.Info("Toggled favorite", "path", path, "favorite", isFavorite)
	return isFavorite, nil
}

// FavoritePaths returns the paths of all favorited projects
func (db *DB) FavoritePaths() ([]string, error) {
	rows, err := db.Query("SELECT path FROM projects WHERE is_favorite ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, serr.Wrap(err, "failed to scan favorite row")
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// AnalysisRun captures the metrics of one analysis request
type AnalysisRun struct {
	ProjectPath   string      `json:"project_path"`
	TotalFiles    int         `json:"total_files"`
	TotalLines    int         `json:"total_lines"`
	AnalyzedFiles int         `json:"analyzed_files"`
	Technologies  JSONStrings `json:"technologies"`
	DurationMs    int64       `json:"duration_ms"`
	FromCache     bool        `json:"from_cache"`
}

// RecordRun appends one row to the analysis history
func (db *DB) RecordRun(run AnalysisRun) error {
	techJSON, err := json.Marshal(run.Technologies)
	if err != nil {
		return serr.Wrap(err, "failed to marshal technologies")
	}

	query := `
		INSERT INTO analysis_runs (project_path, total_files, total_lines, analyzed_files, technologies, duration_ms, from_cache)
		VALUES (?, ?, ?, ?, ?::JSON, ?, ?)
	`

	_, err = db.Exec(query,
		run.ProjectPath, run.TotalFiles, run.TotalLines, run.AnalyzedFiles,
		string(techJSON), run.DurationMs, run.FromCache,
	)
	if err != nil {
		return serr.Wrap(err, "failed to record analysis run")
	}

	return nil
}
