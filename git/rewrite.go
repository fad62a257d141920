package git

import (
	"fmt"
	"strings"
	"time"
)

// rewriteDateLayout is git's default date format, accepted by the
// GIT_AUTHOR_DATE and GIT_COMMITTER_DATE environment overrides.
// The single-digit day is intentional ("Jan 2", not "Jan 02").
const rewriteDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// TimestampOverride pairs a commit hash with the date its author and
// committer timestamps should be rewritten to.
type TimestampOverride struct {
	Hash string
	Date time.Time
}

// FormatGitDate renders a time in git's default date format, keeping
// the time's own UTC offset.
func FormatGitDate(t time.Time) string {
	return t.Format(rewriteDateLayout)
}

// BuildEnvFilter produces the shell script passed to
// git filter-branch --env-filter. For every override it emits a
// conditional block that exports GIT_AUTHOR_DATE and GIT_COMMITTER_DATE
// when $GIT_COMMIT matches; all other commits pass through untouched.
//
// An override with an empty hash or zero date is a programming error in
// the caller and is rejected rather than silently skipped.
func BuildEnvFilter(overrides []TimestampOverride) (string, error) {
	var b strings.Builder

	for _, o := range overrides {
		if o.Hash == "" {
			return "", fmt.Errorf("timestamp override with empty commit hash")
		}
		if o.Date.IsZero() {
			return "", fmt.Errorf("commit %s has no assigned timestamp", o.Hash)
		}

		date := FormatGitDate(o.Date)
		fmt.Fprintf(&b, "if [ \"$GIT_COMMIT\" = %s ]\nthen\n", o.Hash)
		fmt.Fprintf(&b, "    export GIT_AUTHOR_DATE=\"%s\"\n", date)
		fmt.Fprintf(&b, "    export GIT_COMMITTER_DATE=\"%s\"\n", date)
		b.WriteString("fi\n")
	}

	return b.String(), nil
}

// RewriteArgs returns the argument vector for the history rewrite.
// The env filter is passed as a single argument, so no shell quoting is
// involved on the execution path.
func RewriteArgs(envFilter string) []string {
	return []string{"filter-branch", "--force", "--env-filter", envFilter, "--", "--all"}
}

// RewriteCommandString renders the rewrite as a single shell command
// line for display in dry-run output and confirmation prompts.
func RewriteCommandString(overrides []TimestampOverride) (string, error) {
	envFilter, err := BuildEnvFilter(overrides)
	if err != nil {
		return "", err
	}

	args := RewriteArgs(envFilter)
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, "git")
	for _, arg := range args {
		quoted = append(quoted, shellQuote(arg))
	}
	return strings.Join(quoted, " "), nil
}

// shellQuote single-quotes a string for POSIX shells, escaping embedded
// single quotes with the '\'' idiom. Plain words pass through as-is.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\$`&|;<>()*?[]#~=%!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RunRewrite executes the history rewrite against the repository.
func RunRewrite(repoPath string, overrides []TimestampOverride) error {
	envFilter, err := BuildEnvFilter(overrides)
	if err != nil {
		return err
	}

	if _, err := runGitCommand(repoPath, RewriteArgs(envFilter)...); err != nil {
		return err
	}
	return nil
}
