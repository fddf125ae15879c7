package fantasy

import (
	"errors"
	"sort"
)

// ErrDropPlayerNotFound is returned when a forced-drop id is not on the
// roster being evaluated.
var ErrDropPlayerNotFound = errors.New("drop player not found on roster")

// maxDropCandidates bounds how many low-projection roster spots are
// considered droppable in a single run.
const maxDropCandidates = 6

// Recommendation pairs a free agent worth adding with the roster player to
// drop for them.
type Recommendation struct {
	Add          ProjectedPlayer `json:"add"`
	Drop         ProjectedPlayer `json:"drop"`
	ExpectedGain float64         `json:"expected_gain_next_n_days"`
}

type scoredPlayer struct {
	player Player
	points float64
}

func (r *Resolver) scoreAll(players []Player, days int) []scoredPlayer {
	out := make([]scoredPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, scoredPlayer{player: p, points: r.ProjectedPoints(p, days)})
	}
	return out
}

// SortByProjection returns the players ordered by projected points over the
// window, ascending or descending. The input slice is not modified.
func (r *Resolver) SortByProjection(players []Player, days int, descending bool) []Player {
	scored := r.scoreAll(players, days)
	sort.SliceStable(scored, func(i, j int) bool {
		if descending {
			return scored[i].points > scored[j].points
		}
		return scored[i].points < scored[j].points
	})
	out := make([]Player, len(scored))
	for i, s := range scored {
		out[i] = s.player
	}
	return out
}

// Recommend matches free agents against drop candidates by projected gain.
//
// Drop candidates are the `maxDropCandidates` lowest-projected roster
// players (ascending), or the single forced player when forcedDropID is
// set. Free agents are walked in descending projection order; each takes
// the first candidate projected strictly below it. A candidate is not
// retired after a match, so the weakest roster spot can back multiple adds;
// each free agent appears at most once. The walk stops at `limit`
// recommendations.
//
// Callers pre-filter both slices for availability. The second return value
// is the drop-candidate list actually considered.
func (r *Resolver) Recommend(roster, pool []Player, days, limit int, forcedDropID *int64) ([]Recommendation, []Player, error) {
	if len(roster) == 0 {
		return nil, nil, nil
	}

	var candidates []scoredPlayer
	if forcedDropID != nil {
		for _, p := range roster {
			if p.ID == *forcedDropID {
				candidates = []scoredPlayer{{player: p, points: r.ProjectedPoints(p, days)}}
				break
			}
		}
		if len(candidates) == 0 {
			return nil, nil, ErrDropPlayerNotFound
		}
	} else {
		scored := r.scoreAll(roster, days)
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].points < scored[j].points })
		if len(scored) > maxDropCandidates {
			scored = scored[:maxDropCandidates]
		}
		candidates = scored
	}

	agents := r.scoreAll(pool, days)
	sort.SliceStable(agents, func(i, j int) bool { return agents[i].points > agents[j].points })

	recs := make([]Recommendation, 0, limit)
	usedAdds := make(map[int64]bool)

	for _, fa := range agents {
		if len(recs) >= limit {
			break
		}
		if usedAdds[fa.player.ID] {
			continue
		}

		for _, dp := range candidates {
			gain := fa.points - dp.points
			if gain > 0 {
				recs = append(recs, Recommendation{
					Add:          r.Pack(fa.player, days, true),
					Drop:         r.Pack(dp.player, days, true),
					ExpectedGain: round2(gain),
				})
				usedAdds[fa.player.ID] = true
				break
			}
		}
	}

	dropCandidates := make([]Player, len(candidates))
	for i, c := range candidates {
		dropCandidates[i] = c.player
	}
	return recs, dropCandidates, nil
}
