package insights

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rohanthewiz/serr"
)

// GitStatus is the working-tree section of the insights.
type GitStatus struct {
	IsRepo         bool     `json:"is_repo"`
	CurrentBranch  string   `json:"current_branch,omitempty"`
	Remotes        []string `json:"remotes"`
	HasUncommitted bool     `json:"has_uncommitted"`
}

// Commit is one record in a GitLog.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// GitLog carries the branch picture and the most recent commits.
type GitLog struct {
	Branch       string   `json:"branch"`
	Branches     []string `json:"branches"`
	Commits      []Commit `json:"commits"`
	TotalCommits int      `json:"total_commits"`
}

const commitSeparator = "---COMMIT-SEPARATOR---"

// Log returns the current branch, all branches, and up to the last hundred
// commits of a project. The project must exist and be a git repository.
func Log(project string) (*GitLog, error) {
	info, err := os.Stat(project)
	if err != nil || !info.IsDir() {
		return nil, serr.New("Invalid project path")
	}
	if _, err := os.Stat(filepath.Join(project, ".git")); err != nil {
		return nil, serr.New("Not a git repository")
	}

	gl := &GitLog{Branches: []string{}, Commits: []Commit{}}
	if branch, err := runGit(project, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		gl.Branch = branch
	}
	if out, err := runGit(project, "branch", "-a"); err == nil {
		gl.Branches = parseBranches(out)
	}
	format := "%H%n%an%n%aI%n%s%n" + commitSeparator
	if out, err := runGit(project, "log", "-100", "--pretty=format:"+format); err == nil {
		gl.Commits = parseCommits(out)
	}

	// rev-list gives the true total; the log above is capped at 100
	gl.TotalCommits = len(gl.Commits)
	if out, err := runGit(project, "rev-list", "--count", "HEAD"); err == nil {
		if n, err := strconv.Atoi(out); err == nil {
			gl.TotalCommits = n
		}
	}
	return gl, nil
}

func gitStatus(project string) GitStatus {
	st := GitStatus{Remotes: []string{}}
	if _, err := os.Stat(filepath.Join(project, ".git")); err != nil {
		return st
	}
	st.IsRepo = true

	if branch, err := runGit(project, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		st.CurrentBranch = branch
	}
	if out, err := runGit(project, "remote", "-v"); err == nil {
		st.Remotes = parseRemotes(out)
	}
	if out, err := runGit(project, "status", "--porcelain"); err == nil {
		st.HasUncommitted = out != ""
	}
	return st
}

// runGit executes one git command inside dir and returns trimmed stdout.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", serr.Wrap(err, "git "+strings.Join(args, " "))
	}
	return strings.TrimSpace(string(out)), nil
}

// parseRemotes deduplicates remote names out of `git remote -v` output,
// which lists each remote once for fetch and once for push.
func parseRemotes(out string) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		names = append(names, fields[0])
	}
	return names
}

// parseBranches strips the active-branch marker from `git branch -a` lines.
func parseBranches(out string) []string {
	branches := []string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches
}

// parseCommits splits formatted log output into records. Each block holds
// hash, author, ISO date, and subject on separate lines; short blocks are
// dropped.
func parseCommits(out string) []Commit {
	commits := []Commit{}
	for _, block := range strings.Split(out, commitSeparator) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    strings.TrimSpace(lines[0]),
			Author:  strings.TrimSpace(lines[1]),
			Date:    strings.TrimSpace(lines[2]),
			Message: strings.TrimSpace(lines[3]),
		})
	}
	return commits
}
