package web

import (
	"encoding/json"

	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/db"
)

func listProjectsHandler(c rweb.Context) error {
	root := c.Request().QueryParam("root")
	if root == "" {
		// Fall back to the remembered root folder
		root = prefs.LoadRootFolder()
	}
	if root == "" {
		return c.WriteError(serr.New("root directory not specified"), 400)
	}

	projects, err := discoveryEngine.ListProjects(root)
	if err != nil {
		return c.WriteError(err, 400)
	}

	return c.WriteJSON(projects)
}

// CountRequest represents a request to count files in one project
type CountRequest struct {
	ProjectPath string `json:"project_path"`
}

func countFilesHandler(c rweb.Context) error {
	var req CountRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	count, err := discoveryEngine.CountFiles(req.ProjectPath)
	if err != nil {
		return c.WriteError(err, 400)
	}

	return c.WriteJSON(map[string]interface{}{
		"project_path": req.ProjectPath,
		"file_count":   count,
	})
}

// FavoriteRequest represents a favorite toggle for one project
type FavoriteRequest struct {
	Path string `json:"path"`
}

func toggleFavoriteHandler(c rweb.Context) error {
	var req FavoriteRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}
	if req.Path == "" {
		return c.WriteError(serr.New("path is required"), 400)
	}

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	isFavorite, err := database.ToggleFavorite(req.Path)
	if err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]interface{}{
		"path":        req.Path,
		"is_favorite": isFavorite,
	})
}

func listFavoritesHandler(c rweb.Context) error {
	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	paths, err := database.FavoritePaths()
	if err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]interface{}{"favorites": paths})
}

func clearFileCountsHandler(c rweb.Context) error {
	if err := discoveryEngine.ClearCounts(); err != nil {
		return c.WriteError(serr.Wrap(err, "failed to clear file count cache"), 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}
