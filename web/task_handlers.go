package web

import (
	"encoding/json"
	"strings"

	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/db"
)

func listTasksHandler(c rweb.Context) error {
	path := c.Request().QueryParam("path")
	if path == "" {
		return c.WriteError(serr.New("path is required"), 400)
	}

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	tasks, err := database.ListTasks(path)
	if err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(tasks)
}

// AddTaskRequest represents a new task for a project
type AddTaskRequest struct {
	ProjectPath string `json:"project_path"`
	Text        string `json:"text"`
}

func addTaskHandler(c rweb.Context) error {
	var req AddTaskRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.ProjectPath == "" || req.Text == "" {
		return c.WriteError(serr.New("project_path and text are required"), 400)
	}

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	task, err := database.AddTask(req.ProjectPath, req.Text)
	if err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(task)
}

// UpdateTaskRequest flips a task's completed state
type UpdateTaskRequest struct {
	Completed bool `json:"completed"`
}

func updateTaskHandler(c rweb.Context) error {
	id := c.Request().Param("id")

	var req UpdateTaskRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	if err := database.SetTaskCompleted(id, req.Completed); err != nil {
		if strings.Contains(err.Error(), "task not found") {
			return c.WriteError(err, 404)
		}
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}

func deleteTaskHandler(c rweb.Context) error {
	id := c.Request().Param("id")

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	if err := database.DeleteTask(id); err != nil {
		if strings.Contains(err.Error(), "task not found") {
			return c.WriteError(err, 404)
		}
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}
