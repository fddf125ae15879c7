package fantasy

import "strings"

// GameEntry is a single game on a player's personal schedule. StartTime is
// the raw timestamp string the provider adapter coalesced from its aliased
// date fields; empty means the entry carried no usable date.
type GameEntry struct {
	StartTime string `json:"startTime,omitempty"`
}

// Player is the fixed internal record the provider adapter maps external
// roster/free-agent entries onto.
type Player struct {
	ID                 int64       `json:"playerId"`
	Name               string      `json:"name"`
	Position           string      `json:"position"`
	ProTeam            string      `json:"proTeam"`
	InjuryStatus       string      `json:"injuryStatus"`
	AvgPoints          float64     `json:"avg_points"`
	ProjectedAvgPoints *float64    `json:"projected_avg_points,omitempty"`
	Schedule           []GameEntry `json:"schedule,omitempty"`
}

// Team is one fantasy franchise in the league.
type Team struct {
	ID     int64    `json:"team_id"`
	Name   string   `json:"team_name"`
	Wins   int      `json:"wins"`
	Losses int      `json:"losses"`
	Roster []Player `json:"roster,omitempty"`
}

// League is the provider's view of the fantasy league.
type League struct {
	Teams []Team `json:"teams"`
}

// TeamByID returns the team with the given id, or nil.
func (l *League) TeamByID(id int64) *Team {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i]
		}
	}
	return nil
}

// Unavailable reports whether a player should be excluded from rosters and
// free-agent pools entirely (ruled out, not merely questionable).
func Unavailable(p Player) bool {
	switch strings.ToUpper(strings.TrimSpace(p.InjuryStatus)) {
	case "OUT", "SUSPENSION":
		return true
	}
	return false
}

// FilterAvailable returns the players not ruled out by injury status.
func FilterAvailable(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if !Unavailable(p) {
			out = append(out, p)
		}
	}
	return out
}

// PointsPerGame picks the scoring rate used for projections: the provider's
// projected per-game average when present, otherwise the historical average.
func PointsPerGame(p Player) float64 {
	if p.ProjectedAvgPoints != nil {
		return *p.ProjectedAvgPoints
	}
	return p.AvgPoints
}
