package ai

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"repomuse/analysis"
)

const (
	contextStructureDirs = 20
	contextKeyFiles      = 8
	contextExcerptChars  = 400
)

// BuildContext condenses an Analysis into prompt-sized project context: a
// profile, detected frameworks, the directory shape, and the most telling
// file excerpts.
func BuildContext(a *analysis.Analysis) string {
	var b strings.Builder

	b.WriteString("## Project profile\n")
	fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(a.Technologies, ", "))
	fmt.Fprintf(&b, "Scale: %d files, %d lines (%d analyzed in depth)\n",
		a.Metrics.TotalFiles, a.Metrics.TotalLines, a.Metrics.AnalyzedFiles)
	fmt.Fprintf(&b, "Type: %s\n", projectType(a))

	if frameworks := detectFrameworks(a); len(frameworks) > 0 {
		fmt.Fprintf(&b, "Frameworks: %s\n", strings.Join(frameworks, ", "))
	}
	if traits := characteristics(a); len(traits) > 0 {
		fmt.Fprintf(&b, "Characteristics: %s\n", strings.Join(traits, ", "))
	}

	b.WriteString("\n## Structure\n")
	for _, line := range structureInsights(a, contextStructureDirs) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n## Key files\n")
	for _, f := range keyFiles(a, contextKeyFiles) {
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n", f.Path, f.Language, clip(f.Content, contextExcerptChars))
	}
	return b.String()
}

// baseNames collects the base names of every included file.
func baseNames(a *analysis.Analysis) map[string]bool {
	names := make(map[string]bool)
	for _, files := range a.Structure {
		for _, name := range files {
			names[name] = true
		}
	}
	return names
}

func projectType(a *analysis.Analysis) string {
	has := func(tech string) bool {
		for _, t := range a.Technologies {
			if t == tech {
				return true
			}
		}
		return false
	}
	names := baseNames(a)

	switch {
	case names["Cargo.toml"] && has("Rust"):
		return "Rust application or library"
	case names["go.mod"] && has("Go"):
		return "Go module"
	case names["package.json"] && (has("TypeScript") || has("JavaScript")):
		return "JavaScript/TypeScript project"
	case names["requirements.txt"] || names["pyproject.toml"] || names["setup.py"]:
		return "Python project"
	case names["pom.xml"] || names["build.gradle"]:
		return "Java project"
	case names["Gemfile"]:
		return "Ruby project"
	case names["mix.exs"]:
		return "Elixir project"
	}
	return "General software project"
}

// frameworkMarkers are needles looked up in manifest contents only;
// matching against source code would misfire constantly.
var frameworkMarkers = []struct{ name, needle string }{
	{"React", `"react"`},
	{"Vue", `"vue"`},
	{"Svelte", `"svelte"`},
	{"Next.js", `"next"`},
	{"Express", `"express"`},
	{"Tauri", `"@tauri-apps`},
	{"Electron", `"electron"`},
	{"Tokio", "tokio"},
	{"Axum", "axum"},
	{"Actix", "actix-web"},
	{"Gin", "github.com/gin-gonic/gin"},
	{"Echo", "github.com/labstack/echo"},
	{"Django", "django"},
	{"Flask", "flask"},
	{"FastAPI", "fastapi"},
	{"Rails", "rails"},
}

var manifestNames = []string{
	"package.json", "Cargo.toml", "go.mod", "requirements.txt",
	"Gemfile", "pyproject.toml",
}

func detectFrameworks(a *analysis.Analysis) []string {
	var blob strings.Builder
	for _, f := range a.Files {
		base := filepath.Base(f.Path)
		for _, m := range manifestNames {
			if base == m {
				blob.WriteString(f.Content)
				blob.WriteString("\n")
				break
			}
		}
	}

	text := strings.ToLower(blob.String())
	found := []string{}
	for _, fm := range frameworkMarkers {
		if strings.Contains(text, strings.ToLower(fm.needle)) {
			found = append(found, fm.name)
		}
	}
	return found
}

func characteristics(a *analysis.Analysis) []string {
	names := baseNames(a)
	hasTests := false
	hasCI := false
	for dir, files := range a.Structure {
		if strings.Contains(dir, ".github") {
			hasCI = true
		}
		for _, name := range files {
			if strings.Contains(name, "test") || strings.Contains(name, "spec") {
				hasTests = true
			}
		}
	}

	traits := []string{}
	if hasTests {
		traits = append(traits, "has tests")
	}
	if hasCI {
		traits = append(traits, "has CI")
	}
	if names["Dockerfile"] || names["docker-compose.yml"] {
		traits = append(traits, "containerized")
	}
	if names["LICENSE"] {
		traits = append(traits, "licensed")
	}
	return traits
}

// structureInsights lists the busiest directories, largest first.
func structureInsights(a *analysis.Analysis, max int) []string {
	type dirCount struct {
		dir   string
		count int
	}
	dirs := make([]dirCount, 0, len(a.Structure))
	for dir, files := range a.Structure {
		dirs = append(dirs, dirCount{dir, len(files)})
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].count != dirs[j].count {
			return dirs[i].count > dirs[j].count
		}
		return dirs[i].dir < dirs[j].dir
	})
	if len(dirs) > max {
		dirs = dirs[:max]
	}

	lines := make([]string, 0, len(dirs))
	for _, dc := range dirs {
		lines = append(lines, fmt.Sprintf("%s: %d files", dc.dir, dc.count))
	}
	return lines
}

// keyFiles picks the most telling excerpts: manifests and entry points
// first, then the larger source files.
func keyFiles(a *analysis.Analysis, max int) []analysis.FileRecord {
	priority := func(f analysis.FileRecord) int {
		switch filepath.Base(f.Path) {
		case "package.json", "Cargo.toml", "go.mod", "pyproject.toml", "pom.xml":
			return 0
		case "README.md", "README.txt":
			return 1
		case "main.go", "main.rs", "index.ts", "index.js", "app.py", "main.py":
			return 2
		}
		return 3
	}

	files := make([]analysis.FileRecord, len(a.Files))
	copy(files, a.Files)
	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := priority(files[i]), priority(files[j])
		if pi != pj {
			return pi < pj
		}
		return files[i].Size > files[j].Size
	})
	if len(files) > max {
		files = files[:max]
	}
	return files
}

// clip cuts s to at most n characters.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
