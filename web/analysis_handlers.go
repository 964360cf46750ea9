package web

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/analysis"
	"repomuse/db"
)

// AnalyzeRequest represents a request to analyze a repository
type AnalyzeRequest struct {
	FolderPath string `json:"folder_path"`
	Force      bool   `json:"force,omitempty"`
}

func analyzeHandler(c rweb.Context) error {
	var req AnalyzeRequest
	if err := json.Unmarshal(c.Request().Body(), &req); err != nil {
		return c.WriteError(serr.Wrap(err, "invalid request body"), 400)
	}

	start := time.Now()
	result, err := analysisEngine.Analyze(req.FolderPath, req.Force)
	if err != nil {
		return c.WriteError(err, 400)
	}

	recordAnalysis(req.FolderPath, result, time.Since(start))

	return c.WriteJSON(result)
}

// recordAnalysis writes the run to the registry. Registry failures never
// fail the analysis that produced them.
func recordAnalysis(path string, result *analysis.Analysis, elapsed time.Duration) {
	database, err := db.GetDB()
	if err != nil {
		logger.LogErr(err, "failed to get database for analysis record")
		return
	}

	_, gitErr := os.Stat(filepath.Join(path, ".git"))
	err = database.UpsertProject(db.ProjectRecord{
		Path:      path,
		Name:      filepath.Base(path),
		IsGitRepo: gitErr == nil,
		FileCount: result.Metrics.TotalFiles,
	})
	if err != nil {
		logger.LogErr(err, "failed to upsert project")
	}

	err = database.RecordRun(db.AnalysisRun{
		ProjectPath:   path,
		TotalFiles:    result.Metrics.TotalFiles,
		TotalLines:    result.Metrics.TotalLines,
		AnalyzedFiles: result.Metrics.AnalyzedFiles,
		Technologies:  db.JSONStrings(result.Technologies),
		DurationMs:    elapsed.Milliseconds(),
		FromCache:     result.FromCache,
	})
	if err != nil {
		logger.LogErr(err, "failed to record analysis run")
	}
}
