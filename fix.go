package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nightshift/git"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Rewrite work-hours commits to the night before",
	Long: `Computes a night-before timestamp for every work-hours commit, shows
the plan, and rewrites the repository history after confirmation.

This rewrites history: commit hashes change and remotes will need a
force push afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFix(false)
	},
}

var dryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Show the rewrite plan without touching the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFix(true)
	},
}

var skipConfirmation bool

func init() {
	fixCmd.Flags().BoolVarP(&skipConfirmation, "yes", "y", false, "skip the confirmation prompt")
}

// rewritePlan is the fully computed outcome of the fix pipeline before
// anything is executed.
type rewritePlan struct {
	Assignments []Assignment
	Overrides   []git.TimestampOverride
	Command     string
}

func runFix(dryRun bool) error {
	plan, err := buildRewritePlan(cfg)
	if err != nil {
		return err
	}

	if plan == nil {
		fmt.Printf("No commits found during work hours (%s, workdays). Nothing to do.\n", cfg.WorkHours)
		return nil
	}

	printPlan(plan)

	if dryRun {
		fmt.Println("Dry run: the following command would be executed:")
		fmt.Println(plan.Command)
		return nil
	}

	if !skipConfirmation {
		fmt.Println("WARNING: This will rewrite git history. It's not recommended on public repositories.")
		if !confirm("Do you want to proceed? [y/N] ") {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	if cfg.CreateBackup {
		backupPath, err := git.CreateBackup(cfg.RepoPath)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created backup: %s\n", backupPath)
	}

	fmt.Println("Updating commit timestamps...")
	if err := git.RunRewrite(cfg.RepoPath, plan.Overrides); err != nil {
		return err
	}

	fmt.Printf("✅ Successfully updated %d commits.\n", len(plan.Overrides))
	fmt.Println("Note: You may need to force push to update remote repositories.")
	return nil
}

// buildRewritePlan runs the read/classify/assign/serialize pipeline.
// Returns nil when no commit needs rewriting. Any scheduling error
// surfaces here, before a rewrite is attempted.
func buildRewritePlan(cfg *Config) (*rewritePlan, error) {
	flagged, err := findWorkHourCommits(cfg)
	if err != nil {
		return nil, err
	}
	if len(flagged) == 0 {
		return nil, nil
	}

	scheduler := &Scheduler{
		Night:      cfg.NightHours,
		Workdays:   cfg.Workdays,
		MinSpacing: cfg.MinSpacing,
		Rand:       newRand(cfg.Seed),
	}

	assignments, err := scheduler.Assign(flagged)
	if err != nil {
		return nil, err
	}

	overrides := make([]git.TimestampOverride, len(assignments))
	for i, a := range assignments {
		overrides[i] = git.TimestampOverride{Hash: a.Commit.Hash, Date: a.NewTime}
	}

	command, err := git.RewriteCommandString(overrides)
	if err != nil {
		return nil, err
	}

	return &rewritePlan{
		Assignments: assignments,
		Overrides:   overrides,
		Command:     command,
	}, nil
}

func printPlan(plan *rewritePlan) {
	fmt.Printf("Found %d commits during work hours:\n", len(plan.Assignments))
	for _, a := range plan.Assignments {
		fmt.Printf("  %s - '%s'\n", shortHash(a.Commit.Hash), a.Commit.Subject)
		fmt.Printf("    From: %s\n", a.Commit.When.Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("    To:   %s\n", a.NewTime.Format("Mon Jan 2 15:04:05 2006"))
		fmt.Println()
	}
}

// newRand builds the scheduler's randomness source. A zero seed keeps
// the time-based default; anything else makes runs reproducible.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
