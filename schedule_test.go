package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightshift/git"
)

var weekdaysOnly = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
}

func newTestScheduler(night TimeWindow, minSpacing time.Duration) *Scheduler {
	return &Scheduler{
		Night:      night,
		Workdays:   weekdaysOnly,
		MinSpacing: minSpacing,
		Rand:       rand.New(rand.NewSource(42)),
	}
}

func commitAt(hash string, when time.Time) git.Commit {
	return git.Commit{
		Hash:    hash,
		Author:  "Test User",
		Email:   "test@example.com",
		Subject: "commit " + hash,
		When:    when,
	}
}

func TestTimeWindowContains(t *testing.T) {
	tests := []struct {
		name     string
		window   TimeWindow
		hour     int
		expected bool
	}{
		{"same-day window start hour inside", TimeWindow{9, 19}, 9, true},
		{"same-day window end hour outside", TimeWindow{9, 19}, 19, false},
		{"same-day window middle", TimeWindow{9, 19}, 14, true},
		{"same-day window before start", TimeWindow{9, 19}, 8, false},
		{"wrapping window start hour inside", TimeWindow{22, 3}, 22, true},
		{"wrapping window end hour outside", TimeWindow{22, 3}, 3, false},
		{"wrapping window after midnight", TimeWindow{22, 3}, 1, true},
		{"wrapping window late evening", TimeWindow{22, 3}, 23, true},
		{"wrapping window daytime", TimeWindow{22, 3}, 12, false},
		{"wrapping window midnight", TimeWindow{22, 3}, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.window.Contains(test.hour))
		})
	}
}

func TestIsWorkHours(t *testing.T) {
	work := TimeWindow{9, 19}
	loc := time.FixedZone("PST", -8*3600)

	tests := []struct {
		name     string
		when     time.Time
		expected bool
	}{
		{"tuesday afternoon", time.Date(2024, 3, 12, 14, 30, 0, 0, loc), true},
		{"tuesday at start boundary", time.Date(2024, 3, 12, 9, 0, 0, 0, loc), true},
		{"tuesday at end boundary", time.Date(2024, 3, 12, 19, 0, 0, 0, loc), false},
		{"tuesday late evening", time.Date(2024, 3, 12, 22, 15, 0, 0, loc), false},
		{"tuesday early morning", time.Date(2024, 3, 12, 2, 0, 0, 0, loc), false},
		{"saturday afternoon", time.Date(2024, 3, 16, 14, 30, 0, 0, loc), false},
		{"sunday afternoon", time.Date(2024, 3, 17, 14, 30, 0, 0, loc), false},
		{"monday morning", time.Date(2024, 3, 11, 9, 59, 0, 0, loc), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, isWorkHours(test.when, work, weekdaysOnly))
		})
	}
}

func TestIsWorkHoursWrappingWorkWindow(t *testing.T) {
	// A night-shift work window spanning midnight
	work := TimeWindow{20, 4}
	loc := time.UTC

	assert.True(t, isWorkHours(time.Date(2024, 3, 12, 23, 0, 0, 0, loc), work, weekdaysOnly))
	assert.True(t, isWorkHours(time.Date(2024, 3, 12, 2, 0, 0, 0, loc), work, weekdaysOnly))
	assert.False(t, isWorkHours(time.Date(2024, 3, 12, 12, 0, 0, 0, loc), work, weekdaysOnly))
	assert.False(t, isWorkHours(time.Date(2024, 3, 12, 4, 0, 0, 0, loc), work, weekdaysOnly))
}

func TestAssignEmptyInput(t *testing.T) {
	s := newTestScheduler(TimeWindow{22, 3}, 10*time.Minute)

	assignments, err := s.Assign(nil)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAssignMovesWorkdayCommitToNightBefore(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	// Tuesday 14:30
	original := time.Date(2024, 3, 12, 14, 30, 0, 0, loc)
	s := newTestScheduler(TimeWindow{22, 3}, 10*time.Minute)

	assignments, err := s.Assign([]git.Commit{commitAt("aaa111", original)})
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	got := assignments[0].NewTime
	windowStart := time.Date(2024, 3, 11, 22, 0, 0, 0, loc) // Monday 22:00
	windowEnd := time.Date(2024, 3, 12, 3, 0, 0, 0, loc)    // Tuesday 03:00

	assert.Equal(t, "aaa111", assignments[0].Commit.Hash)
	assert.False(t, got.Before(windowStart), "assigned time %s before window start %s", got, windowStart)
	assert.True(t, got.Before(windowEnd), "assigned time %s not before window end %s", got, windowEnd)
}

func TestAssignPreservesUTCOffset(t *testing.T) {
	loc := time.FixedZone("", 5*3600+30*60)
	original := time.Date(2024, 3, 13, 11, 0, 0, 0, loc)
	s := newTestScheduler(TimeWindow{22, 3}, 10*time.Minute)

	assignments, err := s.Assign([]git.Commit{commitAt("bbb222", original)})
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	_, originalOffset := original.Zone()
	_, newOffset := assignments[0].NewTime.Zone()
	assert.Equal(t, originalOffset, newOffset)
}

func TestAssignNonWorkdayKeepsSameDay(t *testing.T) {
	loc := time.UTC
	// Saturday 14:30, scheduled directly (e.g. flagged under a seven-day work week
	// that was later reconfigured); Saturday is not in the workday set here,
	// so the window anchors to Saturday itself.
	original := time.Date(2024, 3, 16, 14, 30, 0, 0, loc)
	s := newTestScheduler(TimeWindow{22, 3}, 10*time.Minute)

	assignments, err := s.Assign([]git.Commit{commitAt("ccc333", original)})
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	got := assignments[0].NewTime
	windowStart := time.Date(2024, 3, 16, 22, 0, 0, 0, loc) // Saturday 22:00
	windowEnd := time.Date(2024, 3, 17, 3, 0, 0, 0, loc)    // Sunday 03:00

	assert.False(t, got.Before(windowStart))
	assert.True(t, got.Before(windowEnd))
}

func TestAssignNonWrappingNightWindow(t *testing.T) {
	loc := time.UTC
	original := time.Date(2024, 3, 12, 10, 0, 0, 0, loc) // Tuesday
	s := newTestScheduler(TimeWindow{20, 23}, 10*time.Minute)

	assignments, err := s.Assign([]git.Commit{commitAt("ddd444", original)})
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	got := assignments[0].NewTime
	assert.Equal(t, time.Monday, got.Weekday())
	assert.GreaterOrEqual(t, got.Hour(), 20)
	assert.Less(t, got.Hour(), 23)
}

func TestAssignEnforcesMinimumSpacing(t *testing.T) {
	loc := time.UTC
	spacing := 10 * time.Minute
	s := newTestScheduler(TimeWindow{22, 3}, spacing)

	commits := []git.Commit{
		commitAt("first", time.Date(2024, 3, 12, 10, 0, 0, 0, loc)),
		commitAt("second", time.Date(2024, 3, 12, 10, 5, 0, 0, loc)),
	}

	assignments, err := s.Assign(commits)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	// Earlier original commit keeps the earlier assigned time
	assert.Equal(t, "first", assignments[0].Commit.Hash)
	assert.Equal(t, "second", assignments[1].Commit.Hash)

	gap := assignments[1].NewTime.Sub(assignments[0].NewTime)
	assert.GreaterOrEqual(t, gap, spacing)

	// Both land in the same Monday-night window
	windowStart := time.Date(2024, 3, 11, 22, 0, 0, 0, loc)
	windowEnd := time.Date(2024, 3, 12, 3, 0, 0, 0, loc)
	for _, a := range assignments {
		assert.False(t, a.NewTime.Before(windowStart))
		assert.True(t, a.NewTime.Before(windowEnd))
	}
}

func TestAssignPreservesOrder(t *testing.T) {
	loc := time.UTC
	s := newTestScheduler(TimeWindow{22, 3}, time.Minute)

	var commits []git.Commit
	for i := 0; i < 8; i++ {
		when := time.Date(2024, 3, 12, 9, 0, 0, 0, loc).Add(time.Duration(i) * 30 * time.Minute)
		commits = append(commits, commitAt(string(rune('a'+i)), when))
	}

	assignments, err := s.Assign(commits)
	require.NoError(t, err)
	require.Len(t, assignments, len(commits))

	for i := 1; i < len(assignments); i++ {
		assert.True(t, assignments[i].NewTime.After(assignments[i-1].NewTime),
			"assignment %d (%s) not after assignment %d (%s)",
			i, assignments[i].NewTime, i-1, assignments[i-1].NewTime)
	}
}

func TestAssignSortsUnorderedInput(t *testing.T) {
	loc := time.UTC
	s := newTestScheduler(TimeWindow{22, 3}, time.Minute)

	commits := []git.Commit{
		commitAt("newer", time.Date(2024, 3, 12, 16, 0, 0, 0, loc)),
		commitAt("older", time.Date(2024, 3, 12, 10, 0, 0, 0, loc)),
	}

	assignments, err := s.Assign(commits)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "older", assignments[0].Commit.Hash)
	assert.Equal(t, "newer", assignments[1].Commit.Hash)
	assert.True(t, assignments[1].NewTime.After(assignments[0].NewTime))
}

func TestAssignConstraintViolation(t *testing.T) {
	loc := time.UTC
	// A one-hour window cannot hold four commits spaced 30 minutes apart
	s := newTestScheduler(TimeWindow{22, 23}, 30*time.Minute)

	var commits []git.Commit
	for i := 0; i < 4; i++ {
		when := time.Date(2024, 3, 12, 10, 0, 0, 0, loc).Add(time.Duration(i) * time.Minute)
		commits = append(commits, commitAt(string(rune('a'+i)), when))
	}

	assignments, err := s.Assign(commits)
	assert.Nil(t, assignments)

	var violation *ConstraintViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 30*time.Minute, violation.MinSpacing)
	assert.NotEmpty(t, violation.Commit.Hash)
}

func TestAssignDeterministicWithSeed(t *testing.T) {
	loc := time.UTC
	commits := []git.Commit{
		commitAt("one", time.Date(2024, 3, 12, 10, 0, 0, 0, loc)),
		commitAt("two", time.Date(2024, 3, 13, 11, 0, 0, 0, loc)),
	}

	run := func() []Assignment {
		s := &Scheduler{
			Night:      TimeWindow{22, 3},
			Workdays:   weekdaysOnly,
			MinSpacing: 10 * time.Minute,
			Rand:       rand.New(rand.NewSource(7)),
		}
		assignments, err := s.Assign(commits)
		require.NoError(t, err)
		return assignments
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].NewTime.Equal(second[i].NewTime))
	}
}
