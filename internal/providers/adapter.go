package providers

import (
	"github.com/lineuplogic/lineuplogic/internal/fantasy"
)

// Upstream fantasy payloads are not shaped consistently: ids, names, and
// schedule timestamps appear under different keys depending on the view and
// API generation that produced them. The raw types below tolerate every
// variant seen in practice, and the adapter functions collapse each aliased
// field deterministically onto the internal record.

// rawGame is one personal-schedule entry. Exactly one of the date fields is
// normally set; alias priority is date, startDate, startTime, gameDate,
// gameTime.
type rawGame struct {
	Date      string `json:"date"`
	StartDate string `json:"startDate"`
	StartTime string `json:"startTime"`
	GameDate  string `json:"gameDate"`
	GameTime  string `json:"gameTime"`
}

func (g rawGame) startTime() string {
	for _, s := range []string{g.Date, g.StartDate, g.StartTime, g.GameDate, g.GameTime} {
		if s != "" {
			return s
		}
	}
	return ""
}

// rawStat is one entry of the ESPN stats array. statSourceId 0 is actuals,
// 1 is ESPN's own projection.
type rawStat struct {
	ID              string   `json:"id"`
	StatSourceID    int      `json:"statSourceId"`
	StatSplitTypeID int      `json:"statSplitTypeId"`
	AppliedAverage  *float64 `json:"appliedAverage"`
}

// rawPlayer is a player blob as returned by the league provider.
type rawPlayer struct {
	PlayerID           *int64    `json:"playerId"`
	PlayerIDSnake      *int64    `json:"player_id"`
	ID                 *int64    `json:"id"`
	EspnID             *int64    `json:"espn_id"`
	FullName           string    `json:"fullName"`
	Name               string    `json:"name"`
	Position           string    `json:"position"`
	ProTeam            string    `json:"proTeam"`
	InjuryStatus       string    `json:"injuryStatus"`
	AvgPoints          *float64  `json:"avg_points"`
	ProjectedAvgPoints *float64  `json:"projected_avg_points"`
	Stats              []rawStat `json:"stats"`
	Schedule           []rawGame `json:"schedule"`
}

// playerID resolves the identifier aliases. Priority: playerId, player_id,
// id, espn_id. Zero when none is present.
func (p rawPlayer) playerID() int64 {
	for _, id := range []*int64{p.PlayerID, p.PlayerIDSnake, p.ID, p.EspnID} {
		if id != nil {
			return *id
		}
	}
	return 0
}

func (p rawPlayer) displayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

// averages resolves the scoring rates: explicit per-game fields win,
// otherwise the stats array supplies them (source 0 actual, source 1
// projected, season splits only).
func (p rawPlayer) averages() (avg float64, projected *float64) {
	if p.AvgPoints != nil {
		avg = *p.AvgPoints
	}
	projected = p.ProjectedAvgPoints

	for _, s := range p.Stats {
		if s.AppliedAverage == nil || s.StatSplitTypeID != 0 {
			continue
		}
		switch s.StatSourceID {
		case 0:
			if p.AvgPoints == nil {
				avg = *s.AppliedAverage
			}
		case 1:
			if projected == nil {
				v := *s.AppliedAverage
				projected = &v
			}
		}
	}
	return avg, projected
}

// adaptPlayer maps a raw upstream blob onto the fixed internal record.
func adaptPlayer(raw rawPlayer) fantasy.Player {
	avg, projected := raw.averages()

	var schedule []fantasy.GameEntry
	for _, g := range raw.Schedule {
		schedule = append(schedule, fantasy.GameEntry{StartTime: g.startTime()})
	}

	return fantasy.Player{
		ID:                 raw.playerID(),
		Name:               raw.displayName(),
		Position:           raw.Position,
		ProTeam:            raw.ProTeam,
		InjuryStatus:       raw.InjuryStatus,
		AvgPoints:          avg,
		ProjectedAvgPoints: projected,
		Schedule:           schedule,
	}
}
