package git

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// logDateLayout matches the output of git log --date=iso.
const logDateLayout = "2006-01-02 15:04:05 -0700"

// GitError represents a git command error with captured output
type GitError struct {
	Command string
	Err     error
	Stdout  string
	Stderr  string
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git command '%s' failed: %v\nstdout: %s\nstderr: %s", e.Command, e.Err, e.Stdout, e.Stderr)
}

// NotARepositoryError indicates the given path is not inside a git work tree
type NotARepositoryError struct {
	Path string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("'%s' is not a git repository", e.Path)
}

// ParseError indicates git log produced a line this tool could not understand
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse git log output %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Commit represents a single commit as read from git log
type Commit struct {
	Hash    string
	Author  string
	Email   string
	Subject string
	When    time.Time
}

// CheckGitAvailability verifies that git command is available and working
func CheckGitAvailability() error {
	cmd := exec.Command("git", "--version")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git command not found or not working: %v\nstdout: %s\nstderr: %s", err, stdout.String(), stderr.String())
	}

	versionOutput := strings.TrimSpace(stdout.String())
	if !strings.HasPrefix(versionOutput, "git version") {
		return fmt.Errorf("unexpected git version output: %s", versionOutput)
	}

	return nil
}

// runGitCommand executes a git command in a specific directory
func runGitCommand(dir string, args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("no git command arguments provided")
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if err != nil {
		return "", &GitError{
			Command: fmt.Sprintf("git %s (in %s)", strings.Join(args, " "), dir),
			Err:     err,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
		}
	}

	return stdout.String(), nil
}

// IsRepository reports whether repoPath is inside a git work tree
func IsRepository(repoPath string) bool {
	output, err := runGitCommand(repoPath, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return strings.TrimSpace(output) == "true"
}

// RequireRepository returns a NotARepositoryError when repoPath is not a git work tree
func RequireRepository(repoPath string) error {
	if !IsRepository(repoPath) {
		return &NotARepositoryError{Path: repoPath}
	}
	return nil
}

// ListCommits returns all commits reachable from HEAD, newest first.
// The subject is the last field of the pretty format so embedded pipes
// in commit subjects cannot break the split.
func ListCommits(repoPath string) ([]Commit, error) {
	// An empty repository has no HEAD; treat it as zero commits
	if _, err := runGitCommand(repoPath, "rev-parse", "HEAD"); err != nil {
		return []Commit{}, nil
	}

	output, err := runGitCommand(repoPath, "log", "--pretty=format:%H|%an|%ae|%ad|%s", "--date=iso")
	if err != nil {
		return nil, err
	}

	return parseCommits(output)
}

// parseCommits parses git log output in hash|author|email|date|subject format
func parseCommits(output string) ([]Commit, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return []Commit{}, nil
	}

	lines := strings.Split(trimmed, "\n")
	commits := make([]Commit, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		commit, err := parseLogLine(line)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}

	return commits, nil
}

func parseLogLine(line string) (Commit, error) {
	parts := strings.SplitN(line, "|", 5)
	if len(parts) < 5 {
		return Commit{}, &ParseError{Raw: line, Err: fmt.Errorf("expected 5 fields, got %d", len(parts))}
	}

	when, err := time.Parse(logDateLayout, parts[3])
	if err != nil {
		return Commit{}, &ParseError{Raw: parts[3], Err: err}
	}

	return Commit{
		Hash:    parts[0],
		Author:  parts[1],
		Email:   parts[2],
		Subject: parts[4],
		When:    when,
	}, nil
}

// CreateBackup copies the repository directory next to itself with a
// timestamped suffix before history is rewritten
func CreateBackup(repoPath string) (string, error) {
	timestamp := time.Now().Format("2006-01-02-15-04-05")
	backupPath := fmt.Sprintf("%s.backup-%s", strings.TrimRight(repoPath, "/"), timestamp)

	cmd := exec.Command("cp", "-r", repoPath, backupPath)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to create backup of %s: %v\nstdout: %s\nstderr: %s", repoPath, err, stdout.String(), stderr.String())
	}

	return backupPath, nil
}
