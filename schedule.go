package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"nightshift/git"
)

// TimeWindow is a pair of hour-of-day boundaries. Start < End is a
// same-day window; Start > End spans midnight (22-3 means 22:00 through
// 02:59 the next day). The start hour is inside the window, the end
// hour is outside.
type TimeWindow struct {
	Start int
	End   int
}

// Wraps reports whether the window spans midnight
func (w TimeWindow) Wraps() bool {
	return w.Start > w.End
}

// Contains reports whether an hour of day falls inside the window
func (w TimeWindow) Contains(hour int) bool {
	if w.Wraps() {
		return hour >= w.Start || hour < w.End
	}
	return hour >= w.Start && hour < w.End
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// isWorkHours reports whether a commit timestamp falls inside the work
// window on a configured workday. Pure function of weekday and hour.
func isWorkHours(t time.Time, work TimeWindow, workdays map[time.Weekday]bool) bool {
	if !workdays[t.Weekday()] {
		return false
	}
	return work.Contains(t.Hour())
}

// Assignment pairs a commit with the night-window timestamp it will be
// rewritten to. The input commit is never mutated.
type Assignment struct {
	Commit  git.Commit
	NewTime time.Time
}

// ConstraintViolationError is returned when the minimum spacing pushes
// an assignment past the end of its night window.
type ConstraintViolationError struct {
	Commit      git.Commit
	WindowStart time.Time
	WindowEnd   time.Time
	MinSpacing  time.Duration
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("cannot fit commit %s into night window %s..%s with minimum spacing %s",
		e.Commit.Hash, e.WindowStart.Format(time.RFC3339), e.WindowEnd.Format(time.RFC3339), e.MinSpacing)
}

// Scheduler assigns night-window timestamps to work-hours commits.
// Rand is the only source of randomness, so a seeded source makes the
// whole schedule reproducible.
type Scheduler struct {
	Night      TimeWindow
	Workdays   map[time.Weekday]bool
	MinSpacing time.Duration
	Rand       *rand.Rand
}

// Assign produces one Assignment per input commit, ordered by original
// timestamp ascending. Each new timestamp lies inside the night window
// anchored to the day before the commit's original day (workday
// commits) or the original day itself (non-workday commits), is at
// least MinSpacing after the previous assignment, and keeps the
// original timestamp's UTC offset.
func (s *Scheduler) Assign(commits []git.Commit) ([]Assignment, error) {
	ordered := make([]git.Commit, len(commits))
	copy(ordered, commits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].When.Before(ordered[j].When)
	})

	windowStarts := make([]time.Time, len(ordered))
	windowEnds := make([]time.Time, len(ordered))
	for i, commit := range ordered {
		windowStarts[i], windowEnds[i] = s.nightWindowFor(commit.When)
	}

	assignments := make([]Assignment, 0, len(ordered))
	var prev time.Time

	for i, commit := range ordered {
		windowStart, windowEnd := windowStarts[i], windowEnds[i]

		effectiveStart := windowStart
		if !prev.IsZero() {
			if earliest := prev.Add(s.MinSpacing); earliest.After(effectiveStart) {
				effectiveStart = earliest
			}
		}

		// Reserve spacing headroom for the later commits that share this
		// window, so a random pick near the window end cannot starve them.
		// If even the reserved start does not fit, no pick could, so the
		// violation surfaces here instead of on a later commit.
		pickEnd := windowEnd
		for j := i + 1; j < len(ordered) && windowEnds[j].Equal(windowEnd); j++ {
			pickEnd = pickEnd.Add(-s.MinSpacing)
		}

		if !effectiveStart.Before(pickEnd) {
			return nil, &ConstraintViolationError{
				Commit:      commit,
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
				MinSpacing:  s.MinSpacing,
			}
		}

		newTime := s.pickWithin(effectiveStart, pickEnd)
		assignments = append(assignments, Assignment{Commit: commit, NewTime: newTime})
		prev = newTime
	}

	return assignments, nil
}

// nightWindowFor computes the concrete night window for one commit.
// Workday commits anchor to the previous calendar day, so a Tuesday
// afternoon commit lands on Monday night; commits on non-workdays keep
// their own day. A wrapping window ends on the day after the anchor.
func (s *Scheduler) nightWindowFor(original time.Time) (time.Time, time.Time) {
	anchor := original
	if s.Workdays[original.Weekday()] {
		anchor = anchor.AddDate(0, 0, -1)
	}

	loc := original.Location()
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), s.Night.Start, 0, 0, 0, loc)

	endDay := anchor
	if s.Night.Wraps() {
		endDay = endDay.AddDate(0, 0, 1)
	}
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), s.Night.End, 0, 0, 0, loc)

	return start, end
}

// pickWithin chooses a uniformly distributed instant in [start, end)
// with one-second granularity.
func (s *Scheduler) pickWithin(start, end time.Time) time.Time {
	span := int64(end.Sub(start) / time.Second)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(s.Rand.Int63n(span)) * time.Second)
}
