package fantasy

import (
	"math"
	"time"

	"github.com/lineuplogic/lineuplogic/internal/nba"
)

// TeamGamesSource supplies per-team game counts for a day window. An empty
// map signals that no schedule data is available (a failed or never-run
// refresh), which the resolver treats as "unknown".
type TeamGamesSource interface {
	Counts(days int) map[string]int
	LastError() string
}

// Resolver turns player and team schedule data into games-in-window counts
// and windowed point projections. Now is injectable for tests and defaults
// to time.Now.
type Resolver struct {
	Teams TeamGamesSource
	Now   func() time.Time
}

func NewResolver(teams TeamGamesSource) *Resolver {
	return &Resolver{Teams: teams, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// GamesInWindow resolves how many games the player has in the next `days`
// days. Tiers, in strict order:
//
//  1. a parsable personal schedule is ground truth, even when it counts to
//     zero (a bye in the window);
//  2. a player whose team code cannot be normalized gets 0;
//  3. the team's count from the shared schedule cache;
//  4. a team missing from a non-empty cache gets the league-average
//     estimate, rounded to nearest;
//  5. an empty cache gets 0.
//
// Every branch terminates in an integer; this never fails.
func (r *Resolver) GamesInWindow(p Player, days int) int {
	if ScheduleParsable(p) {
		return gamesFromSchedule(p, r.now(), days)
	}

	team, ok := nba.Normalize(p.ProTeam)
	if !ok {
		return 0
	}

	counts := r.Teams.Counts(days)
	if n, ok := counts[team]; ok {
		return n
	}

	if len(counts) > 0 {
		sum := 0
		for _, n := range counts {
			sum += n
		}
		return int(math.Round(float64(sum) / float64(len(counts))))
	}

	return 0
}

// ProjectedPoints computes the player's expected points over the window.
// Three-way policy: a confirmed empty schedule projects to exactly 0; an
// unknown game count passes the per-game rate through unscaled so schedule
// outages don't zero out a player's value; otherwise rate times games.
func (r *Resolver) ProjectedPoints(p Player, days int) float64 {
	rate := PointsPerGame(p)
	g := r.GamesInWindow(p, days)

	if g == 0 && ScheduleParsable(p) {
		return 0
	}
	if g <= 0 {
		return rate
	}
	return rate * float64(g)
}
