package web

import (
	"encoding/json"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/ai"
	"repomuse/db"
)

func listModelsHandler(c rweb.Context) error {
	models, err := ai.ListModels(prefs.LoadSettings())
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to list models"), 500)
	}

	return c.WriteJSON(map[string]interface{}{"models": models})
}

// IdeasRequest asks for development ideas for one repository
type IdeasRequest struct {
	FolderPath string `json:"folder_path"`
	FocusArea  string `json:"focus_area,omitempty"`
}

func generateIdeasHandler(c rweb.Context) error {
	var req IdeasRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	result, err := analysisEngine.Analyze(req.FolderPath, false)
	if err != nil {
		return c.WriteError(err, 400)
	}

	client := ai.NewClient(prefs.LoadSettings())
	ideas, err := client.GenerateIdeas(result, req.FocusArea)
	if err != nil {
		return c.WriteError(err, 500)
	}

	return c.WriteJSON(ideas)
}

// SummaryRequest asks for a generated summary of one repository
type SummaryRequest struct {
	FolderPath string `json:"folder_path"`
}

func generateSummaryHandler(c rweb.Context) error {
	var req SummaryRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	result, err := analysisEngine.Analyze(req.FolderPath, false)
	if err != nil {
		return c.WriteError(err, 400)
	}

	client := ai.NewClient(prefs.LoadSettings())
	summary, err := client.GenerateSummary(result, req.FolderPath)
	if err != nil {
		return c.WriteError(err, 500)
	}

	saveSummary(summary)

	return c.WriteJSON(summary)
}

// saveSummary persists a generated summary to the registry. Failures are
// logged; the caller still gets the summary.
func saveSummary(summary *ai.Summary) {
	database, err := db.GetDB()
	if err != nil {
		logger.LogErr(err, "failed to get database for summary")
		return
	}

	err = database.SaveSummary(db.Summary{
		ProjectPath:  summary.ProjectPath,
		Summary:      summary.Summary,
		Technologies: db.JSONStrings(summary.Technologies),
		KeyFeatures:  db.JSONStrings(summary.KeyFeatures),
	})
	if err != nil {
		logger.LogErr(err, "failed to save summary")
	}
}

func latestSummaryHandler(c rweb.Context) error {
	path := c.Request().QueryParam("path")
	if path == "" {
		return c.WriteError(serr.New("path is required"), 400)
	}

	database, err := db.GetDB()
	if err != nil {
		return c.WriteError(serr.Wrap(err, "failed to get database"), 500)
	}

	summary, err := database.LatestSummary(path)
	if err != nil {
		return c.WriteError(err, 500)
	}
	if summary == nil {
		return c.WriteError(serr.New("no summary generated yet"), 404)
	}

	return c.WriteJSON(summary)
}
