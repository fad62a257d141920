package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nightshift/git"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report commits made during work hours",
	Long: `Scans the repository history and reports every commit whose author
timestamp falls inside the work window on a workday. Exits with status 1
when any are found, which makes it usable from a pre-push hook.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	flagged, err := findWorkHourCommits(cfg)
	if err != nil {
		return err
	}

	if len(flagged) == 0 {
		fmt.Printf("No commits found during work hours (%s, workdays).\n", cfg.WorkHours)
		return nil
	}

	fmt.Printf("Found %d commits during work hours (%s, workdays):\n", len(flagged), cfg.WorkHours)
	for _, commit := range flagged {
		fmt.Printf("  • %s '%s' (%s <%s> - %s)\n",
			shortHash(commit.Hash), commit.Subject, commit.Author, commit.Email,
			commit.When.Format("Mon Jan 2 15:04:05 2006"))
	}
	fmt.Println("\nRun 'nightshift fix' to move them to the night before.")

	os.Exit(1)
	return nil
}

// findWorkHourCommits enumerates the repository history and keeps the
// commits the classifier flags, oldest first.
func findWorkHourCommits(cfg *Config) ([]git.Commit, error) {
	if err := git.CheckGitAvailability(); err != nil {
		return nil, err
	}
	if err := git.RequireRepository(cfg.RepoPath); err != nil {
		return nil, err
	}

	commits, err := git.ListCommits(cfg.RepoPath)
	if err != nil {
		return nil, err
	}
	logger.WithField("commits", len(commits)).Debug("enumerated repository history")

	// git log is newest first; reverse so the schedule reads oldest first
	flagged := make([]git.Commit, 0, len(commits))
	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		if cfg.AuthorEmail != "" && commit.Email != cfg.AuthorEmail {
			continue
		}
		if isWorkHours(commit.When, cfg.WorkHours, cfg.Workdays) {
			flagged = append(flagged, commit)
		}
	}
	logger.WithField("flagged", len(flagged)).Debug("classified work-hours commits")

	return flagged, nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
