package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nightshift/git"
)

const prePushHookContent = `#!/bin/sh
# Installed by nightshift. Aborts the push when work-hours commits exist.
if ! nightshift check; then
    echo "Push aborted: work-hours commits found. Run 'nightshift fix' first." >&2
    exit 1
fi
exit 0
`

var installHookCmd = &cobra.Command{
	Use:     "install-hook",
	Aliases: []string{"install-git-hooks"},
	Short:   "Install a pre-push hook that runs 'nightshift check'",
	RunE:    runInstallHook,
}

func runInstallHook(cmd *cobra.Command, args []string) error {
	if err := git.RequireRepository(cfg.RepoPath); err != nil {
		return err
	}

	hookPath, err := installPrePushHook(cfg.RepoPath)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Installed pre-push hook: %s\n", hookPath)
	return nil
}

// installPrePushHook writes an executable pre-push hook into the
// repository's hook directory, replacing any existing hook.
func installPrePushHook(repoPath string) (string, error) {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	hookPath := filepath.Join(hooksDir, "pre-push")

	// Create hooks directory if it doesn't exist
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create hooks directory: %w", err)
	}

	if err := os.WriteFile(hookPath, []byte(prePushHookContent), 0755); err != nil {
		return "", fmt.Errorf("failed to write pre-push hook: %w", err)
	}

	return hookPath, nil
}
