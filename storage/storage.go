// Package storage persists user preferences under the data directory:
// the AI endpoint settings, the UI theme, and the remembered root folder.
// Writes are atomic so a crash never leaves a half-written preference.
package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/rohanthewiz/serr"
	"github.com/tailscale/hujson"

	"repomuse/config"
)

// Settings configures the AI endpoint. An empty key sends no auth header.
type Settings struct {
	APIURL string `json:"api_url"`
	Model  string `json:"model"`
	APIKey string `json:"api_key"`
}

// DefaultSettings points at the configured endpoint, a local
// Ollama-compatible server unless REPOMUSE_AI_URL says otherwise.
func DefaultSettings() Settings {
	return Settings{
		APIURL: config.Get().AIURL,
		Model:  "llama2",
	}
}

// ThemePreference records the chosen UI theme.
type ThemePreference struct {
	Theme       string `json:"theme"`
	LastUpdated string `json:"last_updated"`
}

// Store reads and writes preference files inside one directory.
type Store struct {
	dir string
}

// NewStore returns a preference store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadSettings returns stored settings merged over the defaults, so fields
// absent from disk keep their default. The file is parsed leniently;
// hand edits with comments or trailing commas still load.
func (s *Store) LoadSettings() Settings {
	settings := DefaultSettings()
	data, err := os.ReadFile(filepath.Join(s.dir, "settings.json"))
	if err != nil {
		return settings
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return DefaultSettings()
	}
	if err := json.Unmarshal(std, &settings); err != nil {
		return DefaultSettings()
	}
	return settings
}

// SaveSettings persists settings as pretty JSON.
func (s *Store) SaveSettings(settings Settings) error {
	return s.writeJSON("settings.json", settings)
}

// LoadTheme returns the stored theme name, empty when never saved.
func (s *Store) LoadTheme() string {
	data, err := os.ReadFile(filepath.Join(s.dir, "theme.json"))
	if err != nil {
		return ""
	}
	var pref ThemePreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return ""
	}
	return pref.Theme
}

// SaveTheme persists the theme with an update stamp.
func (s *Store) SaveTheme(theme string) error {
	return s.writeJSON("theme.json", ThemePreference{
		Theme:       theme,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// LoadRootFolder returns the remembered root folder. A folder that no
// longer exists on disk is treated as unset.
func (s *Store) LoadRootFolder() string {
	data, err := os.ReadFile(filepath.Join(s.dir, "root_folder.txt"))
	if err != nil {
		return ""
	}
	path := strings.TrimSpace(string(data))
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// SaveRootFolder persists the root folder path.
func (s *Store) SaveRootFolder(path string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return serr.Wrap(err, "failed to create data dir")
	}
	dest := filepath.Join(s.dir, "root_folder.txt")
	if err := atomic.WriteFile(dest, strings.NewReader(path)); err != nil {
		return serr.Wrap(err, "failed to write root folder")
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return serr.Wrap(err, "failed to create data dir")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return serr.Wrap(err, "failed to encode "+name)
	}
	if err := atomic.WriteFile(filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return serr.Wrap(err, "failed to write "+name)
	}
	return nil
}
