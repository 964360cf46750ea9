package web

import (
	"encoding/json"
	"os"

	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/storage"
)

func getSettingsHandler(c rweb.Context) error {
	return c.WriteJSON(prefs.LoadSettings())
}

func saveSettingsHandler(c rweb.Context) error {
	var settings storage.Settings
	if err := json.Unmarshal(c.Request().Body(), &settings); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}
	if settings.APIURL == "" || settings.Model == "" {
		return c.WriteError(serr.New("api_url and model are required"), 400)
	}

	if err := prefs.SaveSettings(settings); err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}

// ThemeRequest carries the chosen UI theme
type ThemeRequest struct {
	Theme string `json:"theme"`
}

func getThemeHandler(c rweb.Context) error {
	return c.WriteJSON(map[string]string{"theme": prefs.LoadTheme()})
}

func saveThemeHandler(c rweb.Context) error {
	var req ThemeRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}
	if req.Theme == "" {
		return c.WriteError(serr.New("theme is required"), 400)
	}

	if err := prefs.SaveTheme(req.Theme); err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}

// RootFolderRequest carries the workspace root to remember
type RootFolderRequest struct {
	RootFolder string `json:"root_folder"`
}

func getRootFolderHandler(c rweb.Context) error {
	return c.WriteJSON(map[string]string{"root_folder": prefs.LoadRootFolder()})
}

func saveRootFolderHandler(c rweb.Context) error {
	var req RootFolderRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	info, err := os.Stat(req.RootFolder)
	if err != nil || !info.IsDir() {
		return c.WriteError(serr.New("Invalid folder path"), 400)
	}

	if err := prefs.SaveRootFolder(req.RootFolder); err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(map[string]bool{"success": true})
}
