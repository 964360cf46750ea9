// Package insights gathers health signals for one project directory: git
// state, README presence, CI configuration, packaging manifests, and a
// rough picture of test coverage. Everything degrades gracefully; a probe
// that cannot run reports its zero state rather than failing the set.
package insights

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohanthewiz/serr"

	"repomuse/scan"
)

// ProjectInsights bundles every probe result for one project.
type ProjectInsights struct {
	GitStatus   GitStatus   `json:"git_status"`
	ReadmeInfo  ReadmeInfo  `json:"readme_info"`
	CIInfo      CIInfo      `json:"ci_info"`
	PackageInfo PackageInfo `json:"package_info"`
	TestingInfo TestingInfo `json:"testing_info"`
}

// ReadmeInfo describes the first README found.
type ReadmeInfo struct {
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Size    int64  `json:"size"`
	Preview string `json:"preview,omitempty"`
}

// CIInfo flags the continuous-integration setups present.
type CIInfo struct {
	GithubWorkflows []string `json:"github_workflows"`
	HasGitlabCI     bool     `json:"has_gitlab_ci"`
	HasTravis       bool     `json:"has_travis"`
	HasCircleCI     bool     `json:"has_circle_ci"`
	HasJenkins      bool     `json:"has_jenkins"`
	HasAzure        bool     `json:"has_azure_pipelines"`
	HasBuildkite    bool     `json:"has_buildkite"`
}

// PackageInfo flags packaging manifests and conventional files the
// project is missing.
type PackageInfo struct {
	HasPackageJSON  bool     `json:"has_package_json"`
	HasCargoToml    bool     `json:"has_cargo_toml"`
	HasGoMod        bool     `json:"has_go_mod"`
	HasRequirements bool     `json:"has_requirements_txt"`
	HasGemfile      bool     `json:"has_gemfile"`
	HasComposerJSON bool     `json:"has_composer_json"`
	MissingFiles    []string `json:"missing_files"`
}

// TestingInfo summarizes declared frameworks and the test-to-source shape
// of the tree.
type TestingInfo struct {
	Frameworks      []string `json:"frameworks"`
	TestFileCount   int      `json:"test_file_count"`
	SourceFileCount int      `json:"source_file_count"`
	TestRatio       float64  `json:"test_ratio"`
	Patterns        []string `json:"patterns"`
}

// Collect runs every probe against one project directory.
func Collect(project string) (*ProjectInsights, error) {
	info, err := os.Stat(project)
	if err != nil || !info.IsDir() {
		return nil, serr.New("Invalid project path")
	}
	return &ProjectInsights{
		GitStatus:   gitStatus(project),
		ReadmeInfo:  readmeInfo(project),
		CIInfo:      ciInfo(project),
		PackageInfo: packageInfo(project),
		TestingInfo: testingInfo(project),
	}, nil
}

var readmeCandidates = []string{"README.md", "README.txt", "readme.md", "readme.txt"}

func readmeInfo(project string) ReadmeInfo {
	for _, name := range readmeCandidates {
		path := filepath.Join(project, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		ri := ReadmeInfo{Exists: true, Name: name, Size: info.Size()}
		if data, err := os.ReadFile(path); err == nil {
			ri.Preview = preview(string(data), 200)
		}
		return ri
	}
	return ReadmeInfo{}
}

// preview trims s and cuts it to at most n characters.
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func ciInfo(project string) CIInfo {
	ci := CIInfo{GithubWorkflows: []string{}}

	if dirents, err := os.ReadDir(filepath.Join(project, ".github", "workflows")); err == nil {
		for _, d := range dirents {
			name := d.Name()
			if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
				ci.GithubWorkflows = append(ci.GithubWorkflows, name)
			}
		}
	}

	exists := func(parts ...string) bool {
		_, err := os.Stat(filepath.Join(append([]string{project}, parts...)...))
		return err == nil
	}
	ci.HasGitlabCI = exists(".gitlab-ci.yml")
	ci.HasTravis = exists(".travis.yml")
	ci.HasCircleCI = exists(".circleci", "config.yml")
	ci.HasJenkins = exists("Jenkinsfile")
	ci.HasAzure = exists("azure-pipelines.yml")
	ci.HasBuildkite = exists(".buildkite")
	return ci
}

func packageInfo(project string) PackageInfo {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(project, name))
		return err == nil
	}

	pi := PackageInfo{
		HasPackageJSON:  exists("package.json"),
		HasCargoToml:    exists("Cargo.toml"),
		HasGoMod:        exists("go.mod"),
		HasRequirements: exists("requirements.txt"),
		HasGemfile:      exists("Gemfile"),
		HasComposerJSON: exists("composer.json"),
		MissingFiles:    []string{},
	}
	for _, name := range []string{"README.md", "LICENSE", ".gitignore"} {
		if !exists(name) {
			pi.MissingFiles = append(pi.MissingFiles, name)
		}
	}
	return pi
}

// jsTestFrameworks are recognized when declared in package.json.
var jsTestFrameworks = []string{"jest", "vitest", "mocha", "jasmine", "cypress", "playwright"}

// testFilePatterns mark a code file as a test by its name.
var testFilePatterns = []string{
	"_test.go", ".test.js", ".test.ts", ".test.jsx", ".test.tsx",
	".spec.js", ".spec.ts", "_spec.rb", "test_", "_test.py", "Test.java",
}

// pruneDirs are skipped during the testing scan; their contents would
// swamp the ratio with third-party code.
var pruneDirs = map[string]bool{
	"node_modules": true, "target": true, "vendor": true,
	"build": true, "dist": true, "__pycache__": true,
}

const testScanDepth = 4

func testingInfo(project string) TestingInfo {
	ti := TestingInfo{Frameworks: []string{}, Patterns: []string{}}

	if data, err := os.ReadFile(filepath.Join(project, "package.json")); err == nil {
		var manifest struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if err := json.Unmarshal(data, &manifest); err == nil {
			for _, fw := range jsTestFrameworks {
				if _, ok := manifest.Dependencies[fw]; !ok {
					if _, ok := manifest.DevDependencies[fw]; !ok {
						continue
					}
				}
				ti.Frameworks = append(ti.Frameworks, fw)
			}
		}
	}

	patternSeen := make(map[string]bool)
	walkToDepth(project, testScanDepth, func(path string, d fs.DirEntry) {
		if !scan.Eligible(path) || !isCodeFile(path) {
			return
		}
		ti.SourceFileCount++
		name := d.Name()
		for _, pat := range testFilePatterns {
			if !strings.Contains(name, pat) {
				continue
			}
			ti.TestFileCount++
			if !patternSeen[pat] && len(ti.Patterns) < 10 {
				patternSeen[pat] = true
				ti.Patterns = append(ti.Patterns, pat)
			}
			break
		}
	})

	if ti.SourceFileCount > 0 {
		ti.TestRatio = float64(ti.TestFileCount) / float64(ti.SourceFileCount)
	}
	return ti
}

// isCodeFile keeps the testing ratio to implementation languages; markup,
// config, and docs would drown it.
func isCodeFile(path string) bool {
	switch scan.Language(path) {
	case "Rust", "JavaScript", "TypeScript", "Python", "Java", "C++", "C",
		"Go", "PHP", "Ruby", "C#", "Swift", "Kotlin":
		return true
	}
	return false
}

// walkToDepth visits regular files down to maxDepth levels below root,
// pruning hidden and dependency directories.
func walkToDepth(root string, maxDepth int, visit func(path string, d fs.DirEntry)) {
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		dirents, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, d := range dirents {
			path := filepath.Join(dir, d.Name())
			if d.IsDir() {
				if depth+1 < maxDepth && !strings.HasPrefix(d.Name(), ".") && !pruneDirs[d.Name()] {
					walk(path, depth+1)
				}
				continue
			}
			if d.Type().IsRegular() {
				visit(path, d)
			}
		}
	}
	walk(root, 0)
}
