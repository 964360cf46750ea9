package db

import (
	"database/sql"
	"fmt"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations list all database migrations in order
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create project registry",
		SQL: `
			-- Create projects table
			CREATE SEQUENCE IF NOT EXISTS projects_id_seq;

			CREATE TABLE IF NOT EXISTS projects (
				id INTEGER PRIMARY KEY DEFAULT nextval('projects_id_seq'),
				path TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				description TEXT,
				is_git_repo BOOLEAN DEFAULT false,
				is_favorite BOOLEAN DEFAULT false,
				file_count INTEGER,
				last_analyzed_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_projects_path ON projects(path);

			-- Create migrations table
			CREATE TABLE IF NOT EXISTS migrations (
				version INTEGER PRIMARY KEY,
				description TEXT NOT NULL,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version:     2,
		Description: "Add tasks and summaries",
		SQL: `
			-- Create tasks table; IDs are UUIDs minted by the application
			CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				project_path TEXT NOT NULL,
				text TEXT NOT NULL,
				completed BOOLEAN DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				completed_at TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_path);

			-- Create summaries table for generated project summaries
			CREATE SEQUENCE IF NOT EXISTS summaries_id_seq;

			CREATE TABLE IF NOT EXISTS summaries (
				id INTEGER PRIMARY KEY DEFAULT nextval('summaries_id_seq'),
				project_path TEXT NOT NULL,
				summary TEXT NOT NULL,
				technologies JSON,
				key_features JSON,
				generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_summaries_project ON summaries(project_path);
		`,
	},
	{
		Version:     3,
		Description: "Add analysis run history",
		SQL: `
			-- Create analysis_runs table tracking every analysis served
			CREATE SEQUENCE IF NOT EXISTS analysis_runs_id_seq;

			CREATE TABLE IF NOT EXISTS analysis_runs (
				id INTEGER PRIMARY KEY DEFAULT nextval('analysis_runs_id_seq'),
				project_path TEXT NOT NULL,
				total_files INTEGER NOT NULL DEFAULT 0,
				total_lines INTEGER NOT NULL DEFAULT 0,
				analyzed_files INTEGER NOT NULL DEFAULT 0,
				technologies JSON,
				duration_ms INTEGER,
				from_cache BOOLEAN DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_analysis_runs_project ON analysis_runs(project_path);
			CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs(created_at);
		`,
	},
}

// Migrate runs all pending database migrations
func (db *DB) Migrate() error {
	// First, ensure migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return serr.Wrap(err, "failed to create migrations table")
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return serr.Wrap(err, "failed to get current migration version")
	}

	logger.Info("Current migration version", "version", currentVersion)

	// Apply pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("Applying migration", "version", migration.Version, "description", migration.Description)

		// Execute migration in a transaction
		err := db.Transaction(func(tx *sql.Tx) error {
			// Execute migration SQL
			if _, err := tx.Exec(migration.SQL); err != nil {
				return serr.Wrap(err, fmt.Sprintf("failed to execute migration %d", migration.Version))
			}

			// Record migration
			_, err := tx.Exec(
				"INSERT INTO migrations (version, description) VALUES (?, ?)",
				migration.Version, migration.Description,
			)
			if err != nil {
				return serr.Wrap(err, "failed to record migration")
			}

			return nil
		})

		if err != nil {
			return err
		}

		logger.Info("Migration applied successfully", "version", migration.Version)
	}

	return nil
}
