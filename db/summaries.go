package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Summary represents a stored project summary
type Summary struct {
	ID           int         `json:"id"`
	ProjectPath  string      `json:"project_path"`
	Summary      string      `json:"summary"`
	Technologies JSONStrings `json:"technologies"`
	KeyFeatures  JSONStrings `json:"key_features"`
	GeneratedAt  time.Time   `json:"generated_at"`
}

// SaveSummary stores a generated summary
func (db *DB) SaveSummary(s Summary) error {
	techJSON, err := json.Marshal(s.Technologies)
	if err != nil {
		return serr.Wrap(err, "failed to marshal technologies")
	}

	featuresJSON, err := json.Marshal(s.KeyFeatures)
	if err != nil {
		return serr.Wrap(err, "failed to marshal key features")
	}

	query := `
		INSERT INTO summaries (project_path, summary, technologies, key_features)
		VALUES (?, ?, ?::JSON, ?::JSON)
	`

	_, err = db.Exec(query, s.ProjectPath, s.Summary, string(techJSON), string(featuresJSON))
	if err != nil {
		return serr.Wrap(err, "failed to save summary")
	}

	logger.Info("Saved summary", "project", s.ProjectPath)
	return nil
}

// LatestSummary retrieves the most recent summary for a project,
// or nil when none has been generated
func (db *DB) LatestSummary(projectPath string) (*Summary, error) {
	query := `
		SELECT id, project_path, summary, technologies, key_features, generated_at
		FROM summaries
		WHERE project_path = ?
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var s Summary
	err := db.QueryRow(query, projectPath).Scan(
		&s.ID,
		&s.ProjectPath,
		&s.Summary,
		&s.Technologies,
		&s.KeyFeatures,
		&s.GeneratedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to get latest summary")
	}

	return &s, nil
}
