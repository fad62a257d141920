package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the effective settings for one invocation. Defaults come
// from the environment (optionally via a .env file); command-line flags
// override them.
type Config struct {
	WorkHours    TimeWindow
	NightHours   TimeWindow
	Workdays     map[time.Weekday]bool
	MinSpacing   time.Duration
	RepoPath     string
	AuthorEmail  string
	CreateBackup bool
	Seed         int64
}

// .env file locations to try in order
var envFileLocations = []string{
	".env",                           // Current directory
	"~/.config/nightshift/.env",      // User config
	"/opt/nightshift/.env",           // Application directory
	"/usr/local/etc/nightshift/.env", // System-wide config
}

// loadConfig loads configuration from the environment with defaults
func loadConfig() (*Config, error) {
	// Try to load .env file from multiple locations (ignore errors if files don't exist)
	for _, envFile := range envFileLocations {
		_ = godotenv.Load(envFile)
	}

	workHours, err := parseWindow(getEnvString("WORK_HOURS", "9-19"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORK_HOURS: %w", err)
	}

	nightHours, err := parseWindow(getEnvString("NIGHT_HOURS", "22-3"))
	if err != nil {
		return nil, fmt.Errorf("invalid NIGHT_HOURS: %w", err)
	}

	minSpacing := getEnvInt("MIN_SPACING_MINUTES", 10)
	if minSpacing < 0 {
		minSpacing = 0
	}

	skip := parseWeekdays(getEnvString("SKIP_WEEK_DAYS", "Sat,Sun"))

	return &Config{
		WorkHours:    workHours,
		NightHours:   nightHours,
		Workdays:     workdaysFromSkipSet(skip),
		MinSpacing:   time.Duration(minSpacing) * time.Minute,
		RepoPath:     getEnvString("REPO_PATH", "."),
		AuthorEmail:  getEnvString("AUTHOR_EMAIL", ""),
		CreateBackup: getEnvBool("CREATE_BACKUP", false),
	}, nil
}

// getEnvString gets environment variable with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets environment variable as bool with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		// Handle common boolean representations
		lowerValue := strings.ToLower(strings.TrimSpace(value))
		switch lowerValue {
		case "true", "1", "yes", "on", "enabled":
			return true
		case "false", "0", "no", "off", "disabled":
			return false
		}
		// Fall back to strconv.ParseBool for other formats
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseWindow parses an hour range like "9-19" or "22-3" into a
// TimeWindow. Both boundaries must be valid hours of day and must
// differ, since an empty window would reject or swallow everything.
func parseWindow(s string) (TimeWindow, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return TimeWindow{}, fmt.Errorf("expected start-end hour range, got %q", s)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid start hour %q", parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid end hour %q", parts[1])
	}

	if start < 0 || start > 23 || end < 0 || end > 23 {
		return TimeWindow{}, fmt.Errorf("hours must be between 0 and 23, got %q", s)
	}
	if start == end {
		return TimeWindow{}, fmt.Errorf("window %q is empty", s)
	}

	return TimeWindow{Start: start, End: end}, nil
}

// parseWeekdays converts a CSV of weekday names/numbers to a set
// Accepts: "Sat,Sun", "Saturday, Sunday", "Mon", or digits 0-6 (0=Sunday)
func parseWeekdays(s string) map[time.Weekday]bool {
	m := make(map[time.Weekday]bool)
	if strings.TrimSpace(s) == "" {
		return m
	}
	items := strings.Split(s, ",")
	for _, raw := range items {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		l := strings.ToLower(t)
		switch l {
		case "sun", "sunday", "0":
			m[time.Sunday] = true
		case "mon", "monday", "1":
			m[time.Monday] = true
		case "tue", "tues", "tuesday", "2":
			m[time.Tuesday] = true
		case "wed", "weds", "wednesday", "3":
			m[time.Wednesday] = true
		case "thu", "thur", "thurs", "thursday", "4":
			m[time.Thursday] = true
		case "fri", "friday", "5":
			m[time.Friday] = true
		case "sat", "saturday", "6":
			m[time.Saturday] = true
		}
	}
	return m
}

// workdaysFromSkipSet inverts a skip set into the set of workdays
func workdaysFromSkipSet(skip map[time.Weekday]bool) map[time.Weekday]bool {
	workdays := make(map[time.Weekday]bool, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !skip[d] {
			workdays[d] = true
		}
	}
	return workdays
}

// allWeekdays returns the full seven-day set, used when weekend
// skipping is disabled
func allWeekdays() map[time.Weekday]bool {
	return workdaysFromSkipSet(nil)
}
