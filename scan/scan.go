// Package scan holds the file predicates shared by the analysis engine and
// the discovery service: which files count, what language they are, and how
// fresh a directory is.
package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// UnknownLanguage is reported for files whose extension is not recognized.
const UnknownLanguage = "Unknown"

// ignoredDirs are directory names whose contents never count as project
// files, matched as a path segment anywhere in the file's path.
var ignoredDirs = []string{
	"node_modules", "target", "build", "dist", ".git", ".svn", "vendor", "__pycache__",
}

// binaryExts are lowercased extensions excluded from analysis and counting.
var binaryExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true,
	"ico": true, "woff": true, "woff2": true, "ttf": true, "eot": true,
	"pdf": true, "zip": true, "tar": true, "gz": true,
}

// languageByExt maps a lowercased extension (without the dot) to the
// language name reported in analysis results.
var languageByExt = map[string]string{
	"rs":    "Rust",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"py":    "Python",
	"java":  "Java",
	"cpp":   "C++",
	"cc":    "C++",
	"cxx":   "C++",
	"c":     "C",
	"go":    "Go",
	"php":   "PHP",
	"rb":    "Ruby",
	"cs":    "C#",
	"swift": "Swift",
	"kt":    "Kotlin",
	"html":  "HTML",
	"css":   "CSS",
	"scss":  "SCSS",
	"sass":  "SCSS",
	"json":  "JSON",
	"xml":   "XML",
	"yml":   "YAML",
	"yaml":  "YAML",
	"toml":  "TOML",
	"md":    "Markdown",
}

// Eligible reports whether a file path counts toward analysis and file
// counts. Files under ignored directories and files with binary extensions
// are excluded; extensionless files pass.
func Eligible(path string) bool {
	for _, dir := range ignoredDirs {
		if strings.Contains(path, "/"+dir+"/") || strings.Contains(path, `\`+dir+`\`) {
			return false
		}
	}
	ext := fileExt(path)
	if ext == "" {
		return true
	}
	return !binaryExts[ext]
}

// Language classifies a file by its extension, falling back to
// UnknownLanguage.
func Language(path string) string {
	if lang, ok := languageByExt[fileExt(path)]; ok {
		return lang
	}
	return UnknownLanguage
}

// DirModTime returns a directory's modification time as epoch seconds, or
// zero when the directory cannot be inspected.
func DirModTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}

func fileExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
