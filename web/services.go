package web

import (
	"repomuse/analysis"
	"repomuse/cache"
	"repomuse/config"
	"repomuse/discovery"
	"repomuse/storage"
)

// Shared service instances used by the handlers. All of them hang off the
// configured data directory.
var (
	analysisEngine  *analysis.Engine
	discoveryEngine *discovery.Engine
	prefs           *storage.Store
)

// InitServices wires the engines and the preference store to the data
// directory. Must run before SetupRoutes.
func InitServices(cfg *config.Config) {
	analysisEngine = analysis.NewEngine(
		cache.NewStore(cfg.DataDir, "analysis_cache.json"),
		cfg.MaxWorkers,
	)
	discoveryEngine = discovery.NewEngine(
		cache.NewStore(cfg.DataDir, "file_count_cache.json"),
		cache.NewStore(cfg.DataDir, "project_meta_cache.json"),
		cfg.MaxWorkers,
	)
	prefs = storage.NewStore(cfg.DataDir)
}
