package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// TestHelper provides utilities for testing
type TestHelper struct {
	TempDir string
	t       *testing.T
}

// NewTestHelper creates a new test helper instance
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		TempDir: t.TempDir(),
		t:       t,
	}
}

// CreateGitRepo creates a git repository in the temp directory
func (th *TestHelper) CreateGitRepo(name string) string {
	repoPath := filepath.Join(th.TempDir, name)

	if err := os.MkdirAll(repoPath, 0755); err != nil {
		th.t.Fatalf("Failed to create directory %s: %v", repoPath, err)
	}

	th.runGit(repoPath, "init")
	th.runGit(repoPath, "config", "user.name", "Test User")
	th.runGit(repoPath, "config", "user.email", "test@example.com")

	return repoPath
}

// CreateCommitAt creates a commit whose author and committer dates are
// fixed to the given time
func (th *TestHelper) CreateCommitAt(repoPath, filename, message string, when time.Time) {
	filePath := filepath.Join(repoPath, filename)
	if err := os.WriteFile(filePath, []byte(message), 0644); err != nil {
		th.t.Fatalf("Failed to create file %s: %v", filename, err)
	}

	th.runGit(repoPath, "add", filename)

	dateStr := when.Format("2006-01-02T15:04:05-07:00")
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE="+dateStr,
		"GIT_COMMITTER_DATE="+dateStr,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		th.t.Fatalf("Failed to commit %s: %v\n%s", filename, err, output)
	}
}

func (th *TestHelper) runGit(repoPath string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	if output, err := cmd.CombinedOutput(); err != nil {
		th.t.Fatalf("git %v failed in %s: %v\n%s", args, repoPath, err, output)
	}
}
