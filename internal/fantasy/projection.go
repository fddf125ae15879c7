package fantasy

import (
	"math"

	"github.com/lineuplogic/lineuplogic/internal/nba"
)

// ProjectedPlayer is the enriched, per-request view of a player returned by
// the API: the raw provider fields plus the computed projection.
type ProjectedPlayer struct {
	PlayerID           int64            `json:"playerId"`
	Name               string           `json:"name"`
	Position           string           `json:"position"`
	ProTeam            string           `json:"proTeam"`
	InjuryStatus       string           `json:"injuryStatus"`
	AvgPoints          float64          `json:"avg_points"`
	ProjectedAvgPoints *float64         `json:"projected_avg_points,omitempty"`
	PPGUsed            float64          `json:"fantasy_ppg_used"`
	DaysWindow         int              `json:"days_window"`
	GamesInWindow      int              `json:"games_next_n_days"`
	ProjectedPoints    float64          `json:"projected_points_next_n_days"`
	Debug              *ProjectionDebug `json:"debug,omitempty"`
}

// ProjectionDebug explains which resolution tier produced the numbers.
type ProjectionDebug struct {
	ProTeamNormalized string `json:"proTeam_normalized,omitempty"`
	ScheduleParsable  bool   `json:"schedule_parsable"`
	TeamInCache       bool   `json:"team_in_cache"`
	CacheTeamCount    int    `json:"cache_team_count"`
	CacheLastError    string `json:"cache_last_error,omitempty"`
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Pack builds the enriched player record for a response.
func (r *Resolver) Pack(p Player, days int, includeDebug bool) ProjectedPlayer {
	out := ProjectedPlayer{
		PlayerID:           p.ID,
		Name:               p.Name,
		Position:           p.Position,
		ProTeam:            p.ProTeam,
		InjuryStatus:       p.InjuryStatus,
		AvgPoints:          p.AvgPoints,
		ProjectedAvgPoints: p.ProjectedAvgPoints,
		PPGUsed:            round2(PointsPerGame(p)),
		DaysWindow:         days,
		GamesInWindow:      r.GamesInWindow(p, days),
		ProjectedPoints:    round2(r.ProjectedPoints(p, days)),
	}

	if includeDebug {
		counts := r.Teams.Counts(days)
		norm, _ := nba.Normalize(p.ProTeam)
		_, inCache := counts[norm]
		out.Debug = &ProjectionDebug{
			ProTeamNormalized: norm,
			ScheduleParsable:  ScheduleParsable(p),
			TeamInCache:       norm != "" && inCache,
			CacheTeamCount:    len(counts),
			CacheLastError:    r.Teams.LastError(),
		}
	}

	return out
}

// PackAll packs a slice of players in order.
func (r *Resolver) PackAll(players []Player, days int, includeDebug bool) []ProjectedPlayer {
	out := make([]ProjectedPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, r.Pack(p, days, includeDebug))
	}
	return out
}
