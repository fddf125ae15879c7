package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lineuplogic/lineuplogic/internal/nba"
)

// ScheduleSource queries an external scoreboard for a single calendar date
// and returns the team abbreviation of every competitor listed that day
// (two entries per game).
type ScheduleSource interface {
	TeamAbbrevsForDate(ctx context.Context, date time.Time) ([]string, error)
}

// statusCoder is implemented by transport errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// scheduleSnapshot is one immutable cache generation. It is replaced
// wholesale on every refresh attempt, success or failure, and never
// mutated after publication.
type scheduleSnapshot struct {
	days       int
	counts     map[string]int
	fetchedAt  time.Time
	lastError  string
	lastStatus int
}

// TeamScheduleCache maintains a process-wide, TTL-bounded mapping of
// canonical team code to game count over a day window. Refresh happens
// lazily inside whichever request first observes an expired snapshot; the
// mutex doubles as a single-refresh-at-a-time guard so concurrent readers
// see either the prior snapshot or the new one, never a partial mix.
type TeamScheduleCache struct {
	source  ScheduleSource
	ttl     time.Duration
	timeout time.Duration
	logger  *logrus.Logger
	now     func() time.Time

	mu   sync.Mutex
	snap scheduleSnapshot
}

// NewTeamScheduleCache builds an empty cache. timeout bounds each per-date
// scoreboard call during a refresh.
func NewTeamScheduleCache(source ScheduleSource, ttl, timeout time.Duration, logger *logrus.Logger) *TeamScheduleCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TeamScheduleCache{
		source:  source,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Counts returns the game count per canonical team code for the next `days`
// days, refreshing from the scoreboard source when the cached snapshot is
// stale, sized for a different window, or empty. A failed refresh yields an
// empty map; callers treat that as "schedule unknown". The returned map is
// the published snapshot and must not be mutated.
func (c *TeamScheduleCache) Counts(days int) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A snapshot is served without an external query while it matches the
	// requested window and is within TTL. That includes a stamped failure:
	// a refresh that just failed is not retried until the TTL lapses.
	now := c.now()
	fresh := c.snap.days == days && now.Sub(c.snap.fetchedAt) < c.ttl
	if fresh && (len(c.snap.counts) > 0 || c.snap.lastError != "") {
		return c.snap.counts
	}

	counts, err := c.fetchCounts(days)
	if err != nil {
		status := 0
		var sc statusCoder
		if errors.As(err, &sc) {
			status = sc.StatusCode()
		}
		c.logger.WithFields(logrus.Fields{
			"days":   days,
			"status": status,
		}).Warnf("team schedule refresh failed: %v", err)

		// A failed refresh still stamps the snapshot so it is not retried
		// more often than the TTL.
		c.snap = scheduleSnapshot{
			days:       days,
			counts:     map[string]int{},
			fetchedAt:  now,
			lastError:  err.Error(),
			lastStatus: status,
		}
		return c.snap.counts
	}

	c.snap = scheduleSnapshot{
		days:       days,
		counts:     counts,
		fetchedAt:  now,
		lastStatus: 200,
	}
	c.logger.WithFields(logrus.Fields{
		"days":  days,
		"teams": len(counts),
	}).Debug("team schedule cache refreshed")
	return c.snap.counts
}

// fetchCounts queries the scoreboard for each of days+1 calendar days
// starting today (UTC) and aggregates game appearances per canonical team.
// Abbreviations that fail normalization are dropped from the tally.
func (c *TeamScheduleCache) fetchCounts(days int) (map[string]int, error) {
	start := c.now().UTC()
	counts := make(map[string]int)

	for i := 0; i <= days; i++ {
		date := start.AddDate(0, 0, i)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		abbrevs, err := c.source.TeamAbbrevsForDate(ctx, date)
		cancel()
		if err != nil {
			return nil, err
		}

		for _, raw := range abbrevs {
			if team, ok := nba.Normalize(raw); ok {
				counts[team]++
			}
		}
	}

	return counts, nil
}

// LastError returns the error detail recorded by the most recent failed
// refresh, or empty.
func (c *TeamScheduleCache) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.lastError
}

// LastStatus returns the HTTP-like status recorded by the most recent
// refresh attempt (200 on success, 0 when no status was available).
func (c *TeamScheduleCache) LastStatus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.lastStatus
}
