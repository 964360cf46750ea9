package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Task represents a per-project todo item
type Task struct {
	ID          string     `json:"id"`
	ProjectPath string     `json:"project_path"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListTasks retrieves all tasks for a project, newest first
func (db *DB) ListTasks(projectPath string) ([]*Task, error) {
	query := `
		SELECT id, project_path, text, completed, created_at, completed_at
		FROM tasks
		WHERE project_path = ?
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query, projectPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*Task{}
	for rows.Next() {
		var task Task
		var completedAt sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.ProjectPath,
			&task.Text,
			&task.Completed,
			&task.CreatedAt,
			&completedAt,
		)
		if err != nil {
			return nil, serr.Wrap(err, "failed to scan task row")
		}

		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}

		tasks = append(tasks, &task)
	}

	return tasks, nil
}

// AddTask creates a new task for a project
func (db *DB) AddTask(projectPath, text string) (*Task, error) {
	task := &Task{
		ID:          uuid.New().String(),
		ProjectPath: projectPath,
		Text:        text,
		CreatedAt:   time.Now(),
	}

	query := `
		INSERT INTO tasks (id, project_path, text, completed)
		VALUES (?, ?, ?, false)
	`

	_, err := db.Exec(query, task.ID, task.ProjectPath, task.Text)
	if err != nil {
		return nil, serr.Wrap(err, "failed to create task")
	}

	logger.Info("Created task", "id", task.ID, "project", projectPath)
	return task, nil
}

// SetTaskCompleted marks a task done or not done
func (db *DB) SetTaskCompleted(id string, completed bool) error {
	query := `
		UPDATE tasks
		SET completed = ?,
		    completed_at = CASE WHEN ? THEN CURRENT_TIMESTAMP ELSE NULL END
		WHERE id = ?
	`

	result, err := db.Exec(query, completed, completed, id)
	if err != nil {
		return serr.Wrap(err, "failed to update task")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return serr.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return serr.New("task not found")
	}

	return nil
}

// DeleteTask removes a task
func (db *DB) DeleteTask(id string) error {
	result, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return serr.Wrap(err, "failed to delete task")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return serr.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return serr.New("task not found")
	}

	logger.Info("Deleted task", "id", id)
	return nil
}
