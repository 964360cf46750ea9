package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	// Default OpenAI-compatible chat endpoint (local Ollama)
	defaultAIURL = "http://localhost:11434/v1/chat/completions"

	defaultAddress = ":8000"
)

// Config holds application configuration
type Config struct {
	Address    string
	DataDir    string
	MaxWorkers int
	AIURL      string
}

// globalConfig holds the application configuration instance
var globalConfig *Config

// Initialize sets up the configuration from environment variables
func Initialize() {
	globalConfig = &Config{
		Address:    getAddress(),
		DataDir:    getDataDir(),
		MaxWorkers: getMaxWorkers(),
		AIURL:      getAIURL(),
	}
}

// Get returns the global configuration instance
func Get() *Config {
	if globalConfig == nil {
		Initialize()
	}
	return globalConfig
}

// getAddress returns the listen address from environment or default
func getAddress() string {
	if addr := os.Getenv("REPOMUSE_ADDR"); addr != "" {
		return addr
	}
	return defaultAddress
}

// getDataDir returns the per-user directory holding caches, preferences,
// and the registry database
func getDataDir() string {
	if dir := os.Getenv("REPOMUSE_DATA_DIR"); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// No resolvable home; keep data next to the binary
		return "data"
	}
	return filepath.Join(homeDir, ".local", "share", "repomuse")
}

// getMaxWorkers caps the parallel walkers; past a point more goroutines
// only contend on the disk
func getMaxWorkers() int {
	if raw := os.Getenv("REPOMUSE_WORKERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return workers
}

// getAIURL returns the chat completions URL from environment or default
func getAIURL() string {
	if url := os.Getenv("REPOMUSE_AI_URL"); url != "" {
		return url
	}
	return defaultAIURL
}
