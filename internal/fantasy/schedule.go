package fantasy

import (
	"strings"
	"time"
)

// Timestamp layouts seen across provider schedule payloads. RFC3339 covers
// both "Z"-suffixed and offset-qualified strings; the remaining layouts are
// naive and interpreted as UTC.
var gameTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseGameTime parses a schedule entry's timestamp, normalized to UTC.
// The second return is false when the string is absent or unparsable.
func ParseGameTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range gameTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ScheduleParsable reports whether the player's personal schedule carries at
// least one entry with a parsable date. When it does, the schedule is
// treated as ground truth and the team-level fallbacks are never consulted.
func ScheduleParsable(p Player) bool {
	for _, g := range p.Schedule {
		if _, ok := ParseGameTime(g.StartTime); ok {
			return true
		}
	}
	return false
}

// gamesFromSchedule counts personal-schedule entries inside [now, now+days],
// boundaries inclusive. Entries with unparsable dates are skipped.
func gamesFromSchedule(p Player, now time.Time, days int) int {
	end := now.Add(time.Duration(days) * 24 * time.Hour)

	count := 0
	for _, g := range p.Schedule {
		t, ok := ParseGameTime(g.StartTime)
		if !ok {
			continue
		}
		if !t.Before(now) && !t.After(end) {
			count++
		}
	}
	return count
}
