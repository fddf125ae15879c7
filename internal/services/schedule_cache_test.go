package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeScoreboard struct {
	abbrevsByDate map[string][]string // keyed by YYYYMMDD; missing = no games
	err           error
	calls         int
	dates         []string
}

func (f *fakeScoreboard) TeamAbbrevsForDate(_ context.Context, date time.Time) ([]string, error) {
	f.calls++
	key := date.Format("20060102")
	f.dates = append(f.dates, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.abbrevsByDate[key], nil
}

type fakeHTTPError struct{ code int }

func (e *fakeHTTPError) Error() string   { return fmt.Sprintf("unexpected status code: %d", e.code) }
func (e *fakeHTTPError) StatusCode() int { return e.code }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestCache(source ScheduleSource, ttl time.Duration, now time.Time) (*TeamScheduleCache, *time.Time) {
	clock := now
	c := NewTeamScheduleCache(source, ttl, time.Second, quietLogger())
	c.now = func() time.Time { return clock }
	return c, &clock
}

var cacheNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestCountsAggregatesWindowDays(t *testing.T) {
	sb := &fakeScoreboard{abbrevsByDate: map[string][]string{
		"20260101": {"BOS", "LAL"},
		"20260102": {"BOS", "CHI"},
		"20260103": {"GS", "NY"}, // aliases normalize before counting
	}}
	c, _ := newTestCache(sb, 15*time.Minute, cacheNow)

	counts := c.Counts(2)
	// Window of 2 days = 3 calendar dates, today inclusive.
	assert.Equal(t, 3, sb.calls)
	assert.Equal(t, []string{"20260101", "20260102", "20260103"}, sb.dates)
	assert.Equal(t, map[string]int{"BOS": 2, "LAL": 1, "CHI": 1, "GSW": 1, "NYK": 1}, counts)
	assert.Equal(t, 200, c.LastStatus())
	assert.Empty(t, c.LastError())
}

func TestCountsDropsUnknownAbbrevs(t *testing.T) {
	sb := &fakeScoreboard{abbrevsByDate: map[string][]string{
		"20260101": {"BOS", "???", "WEST"},
	}}
	c, _ := newTestCache(sb, 15*time.Minute, cacheNow)

	assert.Equal(t, map[string]int{"BOS": 1}, c.Counts(0))
}

func TestCountsServedFromCacheWithinTTL(t *testing.T) {
	sb := &fakeScoreboard{abbrevsByDate: map[string][]string{"20260101": {"BOS", "LAL"}}}
	c, clock := newTestCache(sb, 15*time.Minute, cacheNow)

	first := c.Counts(0)
	callsAfterFirst := sb.calls

	*clock = cacheNow.Add(14 * time.Minute)
	second := c.Counts(0)
	assert.Equal(t, callsAfterFirst, sb.calls, "no external query within TTL")
	// Identical mapping instance, not a copy.
	assert.Equal(t, fmt.Sprintf("%p", first), fmt.Sprintf("%p", second))

	// Past the TTL a single refresh runs.
	*clock = cacheNow.Add(16 * time.Minute)
	c.Counts(0)
	assert.Equal(t, callsAfterFirst*2, sb.calls)
}

func TestCountsWindowChangeInvalidates(t *testing.T) {
	sb := &fakeScoreboard{abbrevsByDate: map[string][]string{"20260101": {"BOS", "LAL"}}}
	c, _ := newTestCache(sb, 15*time.Minute, cacheNow)

	c.Counts(0)
	calls := sb.calls
	c.Counts(3)
	assert.Equal(t, calls+4, sb.calls, "different window size forces a refresh")
}

func TestCountsRefreshFailureClearsAndStamps(t *testing.T) {
	sb := &fakeScoreboard{err: &fakeHTTPError{code: 503}}
	c, clock := newTestCache(sb, 15*time.Minute, cacheNow)

	counts := c.Counts(3)
	assert.Empty(t, counts)
	assert.Equal(t, 503, c.LastStatus())
	assert.Contains(t, c.LastError(), "503")
	callsAfterFailure := sb.calls

	// The failure is stamped with the TTL too: no immediate retry storm.
	*clock = cacheNow.Add(time.Minute)
	c.Counts(3)
	assert.Equal(t, callsAfterFailure, sb.calls)

	// After the TTL the source has recovered and the snapshot is replaced
	// wholesale.
	sb.err = nil
	sb.abbrevsByDate = map[string][]string{"20260101": {"BOS", "LAL"}}
	*clock = cacheNow.Add(16 * time.Minute)
	refreshed := c.Counts(3)
	assert.Equal(t, map[string]int{"BOS": 1, "LAL": 1}, refreshed)
	assert.Equal(t, 200, c.LastStatus())
	assert.Empty(t, c.LastError())
}

func TestCountsTransportErrorWithoutStatus(t *testing.T) {
	sb := &fakeScoreboard{err: fmt.Errorf("dial tcp: connection refused")}
	c, _ := newTestCache(sb, 15*time.Minute, cacheNow)

	assert.Empty(t, c.Counts(1))
	assert.Equal(t, 0, c.LastStatus())
	assert.Contains(t, c.LastError(), "connection refused")
}
