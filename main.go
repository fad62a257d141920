package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var (
	Version = "dev"
)

var (
	logger *logrus.Logger
	cfg    *Config

	flagWorkHours      string
	flagNightHours     string
	flagMinSpacing     int
	flagRepoPath       string
	flagAuthorEmail    string
	flagSkipWeekends   bool
	flagNoSkipWeekends bool
	flagSeed           int64
	verbose            bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nightshift",
	Short: "Move work-hours git commits to the night before",
	Long: `nightshift rewrites git commit timestamps so that commits made during
work hours appear to have been made the night before, preserving their
relative order.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		return applyFlags(cmd)
	},
}

// applyFlags overrides the environment-derived config with any flags
// set on the command line.
func applyFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("work-hours") {
		window, err := parseWindow(flagWorkHours)
		if err != nil {
			return fmt.Errorf("invalid --work-hours: %w", err)
		}
		cfg.WorkHours = window
	}

	if cmd.Flags().Changed("night-hours") {
		window, err := parseWindow(flagNightHours)
		if err != nil {
			return fmt.Errorf("invalid --night-hours: %w", err)
		}
		cfg.NightHours = window
	}

	if cmd.Flags().Changed("min-spacing") {
		if flagMinSpacing < 0 {
			return fmt.Errorf("invalid --min-spacing: must not be negative")
		}
		cfg.MinSpacing = time.Duration(flagMinSpacing) * time.Minute
	}

	if cmd.Flags().Changed("repo-path") {
		cfg.RepoPath = flagRepoPath
	}

	if cmd.Flags().Changed("author") {
		cfg.AuthorEmail = flagAuthorEmail
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}

	// --no-skip-weekends wins over --skip-weekends when both are given
	if flagNoSkipWeekends {
		cfg.Workdays = allWeekdays()
	} else if cmd.Flags().Changed("skip-weekends") && flagSkipWeekends {
		cfg.Workdays = workdaysFromSkipSet(parseWeekdays("Sat,Sun"))
	}

	logger.WithFields(logrus.Fields{
		"work_hours":  cfg.WorkHours,
		"night_hours": cfg.NightHours,
		"min_spacing": cfg.MinSpacing,
		"repo_path":   cfg.RepoPath,
	}).Debug("effective configuration")

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWorkHours, "work-hours", "9-19", "work window as start-end hours")
	rootCmd.PersistentFlags().StringVar(&flagNightHours, "night-hours", "22-3", "night window as start-end hours (may wrap midnight)")
	rootCmd.PersistentFlags().IntVar(&flagMinSpacing, "min-spacing", 10, "minimum minutes between reassigned commits")
	rootCmd.PersistentFlags().StringVar(&flagRepoPath, "repo-path", ".", "path to the git repository")
	rootCmd.PersistentFlags().StringVar(&flagAuthorEmail, "author", "", "only consider commits authored by this email")
	rootCmd.PersistentFlags().BoolVar(&flagSkipWeekends, "skip-weekends", true, "treat Saturday and Sunday as non-workdays")
	rootCmd.PersistentFlags().BoolVar(&flagNoSkipWeekends, "no-skip-weekends", false, "treat every day as a workday")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "seed for reproducible timestamp selection (0 = time-based)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(dryRunCmd)
	rootCmd.AddCommand(installHookCmd)
}
