package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lineuplogic/lineuplogic/internal/fantasy"
	"github.com/lineuplogic/lineuplogic/internal/providers"
	"github.com/lineuplogic/lineuplogic/pkg/config"
	"github.com/lineuplogic/lineuplogic/pkg/utils"
)

// authFailedMessage is the fixed client-facing message for rejected ESPN
// credentials; the raw upstream error is never propagated.
const authFailedMessage = "ESPN auth failed. Check SWID/ESPN_S2 cookies and league access."

// LeagueProvider is the upstream league-data surface the handlers need.
type LeagueProvider interface {
	League(ctx context.Context) (*fantasy.League, error)
	FreeAgents(ctx context.Context, size int) ([]fantasy.Player, error)
}

type LeagueHandler struct {
	provider LeagueProvider
	resolver *fantasy.Resolver
	cfg      *config.Config
}

func NewLeagueHandler(provider LeagueProvider, resolver *fantasy.Resolver, cfg *config.Config) *LeagueHandler {
	return &LeagueHandler{
		provider: provider,
		resolver: resolver,
		cfg:      cfg,
	}
}

type teamSummary struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// GetTeams lists the fantasy teams in the league.
func (h *LeagueHandler) GetTeams(c *gin.Context) {
	days := h.intQuery(c, "days", h.cfg.TeamsDaysWindow)

	league, ok := h.fetchLeague(c)
	if !ok {
		return
	}

	teams := make([]teamSummary, 0, len(league.Teams))
	for _, t := range league.Teams {
		teams = append(teams, teamSummary{
			TeamID:   t.ID,
			TeamName: t.Name,
			Wins:     t.Wins,
			Losses:   t.Losses,
		})
	}

	utils.SendSuccess(c, gin.H{
		"team_count":  len(teams),
		"days_window": days,
		"teams":       teams,
	})
}

// GetRoster returns a team's available players, ascending by projected
// points over the window, each enriched with projection fields.
func (h *LeagueHandler) GetRoster(c *gin.Context) {
	teamID, err := strconv.ParseInt(c.Query("team_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid team_id", err.Error())
		return
	}
	days := h.intQuery(c, "days", h.cfg.DefaultDaysWindow)

	league, ok := h.fetchLeague(c)
	if !ok {
		return
	}

	team := league.TeamByID(teamID)
	if team == nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	roster := fantasy.FilterAvailable(team.Roster)
	sorted := h.resolver.SortByProjection(roster, days, false)

	utils.SendSuccess(c, gin.H{
		"team":        team.Name,
		"days_window": days,
		"roster":      h.resolver.PackAll(sorted, days, false),
	})
}

// GetWaiverRecommendations computes add/drop pairs for a team against the
// free-agent pool.
func (h *LeagueHandler) GetWaiverRecommendations(c *gin.Context) {
	teamID, err := strconv.ParseInt(c.Query("team_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid team_id", err.Error())
		return
	}
	days := h.intQuery(c, "days", h.cfg.DefaultDaysWindow)
	limit := h.intQuery(c, "limit", h.cfg.RecommendationLimit)
	poolSize := h.intQuery(c, "pool_size", h.cfg.FreeAgentPoolSize)

	var forcedDrop *int64
	if raw := c.Query("drop_player_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.SendValidationError(c, "Invalid drop_player_id", err.Error())
			return
		}
		forcedDrop = &id
	}

	league, ok := h.fetchLeague(c)
	if !ok {
		return
	}

	team := league.TeamByID(teamID)
	if team == nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	roster := fantasy.FilterAvailable(team.Roster)
	if len(roster) == 0 {
		utils.SendSuccess(c, gin.H{
			"team":            team.Name,
			"days_window":     days,
			"recommendations": []fantasy.Recommendation{},
		})
		return
	}

	pool, err := h.provider.FreeAgents(c.Request.Context(), poolSize)
	if err != nil {
		if errors.Is(err, providers.ErrAuth) {
			utils.SendBadRequest(c, authFailedMessage)
			return
		}
		utils.SendInternalError(c, "Failed to fetch free agents")
		return
	}
	pool = fantasy.FilterAvailable(pool)

	recs, dropCandidates, err := h.resolver.Recommend(roster, pool, days, limit, forcedDrop)
	if err != nil {
		if errors.Is(err, fantasy.ErrDropPlayerNotFound) {
			utils.SendNotFound(c, "drop_player_id not found on roster")
			return
		}
		utils.SendInternalError(c, "Failed to compute recommendations")
		return
	}

	utils.SendSuccess(c, gin.H{
		"team":                 team.Name,
		"days_window":          days,
		"drop_player_id":       forcedDrop,
		"drop_candidates_used": h.resolver.PackAll(dropCandidates, days, false),
		"recommendations":      recs,
	})
}

// fetchLeague loads the league and writes the error response itself when
// the fetch fails.
func (h *LeagueHandler) fetchLeague(c *gin.Context) (*fantasy.League, bool) {
	league, err := h.provider.League(c.Request.Context())
	if err != nil {
		if errors.Is(err, providers.ErrAuth) {
			utils.SendBadRequest(c, authFailedMessage)
			return nil, false
		}
		utils.SendInternalError(c, "Failed to fetch league data")
		return nil, false
	}
	return league, true
}

func (h *LeagueHandler) intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
