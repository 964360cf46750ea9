package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// projectMarkers are files whose presence marks a directory as a project.
var projectMarkers = []string{
	"package.json", "Cargo.toml", "pom.xml", "build.gradle",
	"requirements.txt", "Gemfile", "go.mod", "composer.json",
	"project.clj", "mix.exs", "pubspec.yaml", "CMakeLists.txt",
	"Makefile", "README.md", "README.txt",
}

// readmeNames in probe order. Only the first line of the first existing
// candidate that yields something usable is taken.
var readmeNames = []string{"README.md", "README.txt", "readme.md", "readme.txt"}

// hasProjectMarker reports whether dir contains a known project marker.
// C# projects name the .csproj after the project, so those are found by
// scanning the directory listing instead.
func hasProjectMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, d := range dirents {
		if strings.HasSuffix(d.Name(), ".csproj") {
			return true
		}
	}
	return false
}

// projectDescription derives a short description for a project, preferring
// manifest fields over README prose: package.json, then pubspec.yaml, then
// a naive Cargo.toml scan, then the first README line.
func projectDescription(dir string) string {
	if desc := packageJSONDescription(filepath.Join(dir, "package.json")); desc != "" {
		return desc
	}
	if desc := pubspecDescription(filepath.Join(dir, "pubspec.yaml")); desc != "" {
		return desc
	}
	if desc := cargoDescription(filepath.Join(dir, "Cargo.toml")); desc != "" {
		return desc
	}
	return readmeFirstLine(dir)
}

func packageJSONDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var manifest struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	return strings.TrimSpace(manifest.Description)
}

func pubspecDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var manifest struct {
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	return strings.TrimSpace(manifest.Description)
}

// cargoDescription takes the first line starting with "description" and
// returns whatever sits right of the equals sign, unquoted. Deliberately
// not a TOML parse; a multi-line or indented description yields nothing.
func cargoDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "description") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return ""
		}
		return strings.Trim(strings.TrimSpace(parts[1]), `"`)
	}
	return ""
}

// readmeFirstLine probes the README candidates and returns the first
// line of the first file whose opening line is short and non-empty, with
// any leading hashes stripped.
func readmeFirstLine(dir string) string {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		line, _, _ := strings.Cut(string(data), "\n")
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= 200 {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line != "" {
			return line
		}
	}
	return ""
}
