package web

import (
	"github.com/rohanthewiz/rweb"

	"repomuse/config"
)

// SetupRoutes configures all HTTP routes for the server
func SetupRoutes(s *rweb.Server) {
	// Root endpoint - serves the dashboard UI
	s.Get("/", rootHandler)

	// App info
	s.Get("/api/app", appInfoHandler)

	// Repository analysis
	s.Post("/api/analysis", analyzeHandler)

	// Project discovery
	s.Get("/api/projects", listProjectsHandler)
	s.Post("/api/projects/count", countFilesHandler)
	s.Post("/api/projects/favorite", toggleFavoriteHandler)
	s.Get("/api/projects/favorites", listFavoritesHandler)
	s.Post("/api/cache/file-counts/clear", clearFileCountsHandler)

	// Preferences
	s.Get("/api/settings", getSettingsHandler)
	s.Post("/api/settings", saveSettingsHandler)
	s.Get("/api/theme", getThemeHandler)
	s.Post("/api/theme", saveThemeHandler)
	s.Get("/api/root-folder", getRootFolderHandler)
	s.Post("/api/root-folder", saveRootFolderHandler)

	// Project insights
	s.Get("/api/insights", insightsHandler)
	s.Get("/api/insights/git-log", gitLogHandler)

	// AI endpoints
	s.Get("/api/models", listModelsHandler)
	s.Post("/api/ideas", generateIdeasHandler)
	s.Post("/api/summary", generateSummaryHandler)
	s.Get("/api/summary", latestSummaryHandler)

	// Per-project tasks
	s.Get("/api/tasks", listTasksHandler)
	s.Post("/api/tasks", addTaskHandler)
	s.Put("/api/tasks/:id", updateTaskHandler)
	s.Delete("/api/tasks/:id", deleteTaskHandler)
}

// rootHandler serves the dashboard UI
func rootHandler(c rweb.Context) error {
	return UIHandler(c)
}

// appInfoHandler returns application information
func appInfoHandler(c rweb.Context) error {
	return c.WriteJSON(map[string]interface{}{
		"version":  "0.1.0",
		"status":   "ok",
		"data_dir": config.Get().DataDir,
	})
}
