package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lineuplogic/lineuplogic/internal/fantasy"
	"github.com/lineuplogic/lineuplogic/internal/providers"
	"github.com/lineuplogic/lineuplogic/pkg/config"
)

type fakeProvider struct {
	league    *fantasy.League
	agents    []fantasy.Player
	leagueErr error
	agentsErr error
}

func (f *fakeProvider) League(ctx context.Context) (*fantasy.League, error) {
	return f.league, f.leagueErr
}

func (f *fakeProvider) FreeAgents(ctx context.Context, size int) ([]fantasy.Player, error) {
	return f.agents, f.agentsErr
}

type emptyTeamGames struct{}

func (emptyTeamGames) Counts(days int) map[string]int { return map[string]int{} }
func (emptyTeamGames) LastError() string              { return "" }

func testConfig() *config.Config {
	return &config.Config{
		DefaultDaysWindow:   21,
		TeamsDaysWindow:     7,
		RecommendationLimit: 10,
		FreeAgentPoolSize:   300,
	}
}

func setupRouter(provider LeagueProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := &fantasy.Resolver{Teams: emptyTeamGames{}}
	h := NewLeagueHandler(provider, resolver, testConfig())

	r := gin.New()
	r.GET("/league/nba/teams", h.GetTeams)
	r.GET("/league/nba/roster", h.GetRoster)
	r.GET("/league/nba/recommendations/waivers", h.GetWaiverRecommendations)
	return r
}

func doRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func testLeague() *fantasy.League {
	return &fantasy.League{Teams: []fantasy.Team{
		{
			ID: 1, Name: "Ball Hogs", Wins: 10, Losses: 4,
			Roster: []fantasy.Player{
				{ID: 100, Name: "Low Guy", ProTeam: "BOS", AvgPoints: 2},
				{ID: 101, Name: "Mid Guy", ProTeam: "BOS", AvgPoints: 5},
				{ID: 102, Name: "Hurt Guy", ProTeam: "BOS", AvgPoints: 30, InjuryStatus: "OUT"},
			},
		},
	}}
}

func TestGetTeams(t *testing.T) {
	r := setupRouter(&fakeProvider{league: testLeague()})
	w := doRequest(r, "/league/nba/teams")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			TeamCount  int `json:"team_count"`
			DaysWindow int `json:"days_window"`
			Teams      []struct {
				TeamID   int64  `json:"team_id"`
				TeamName string `json:"team_name"`
			} `json:"teams"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.TeamCount)
	assert.Equal(t, 7, resp.Data.DaysWindow)
	assert.Equal(t, "Ball Hogs", resp.Data.Teams[0].TeamName)
}

func TestGetTeamsAuthFailure(t *testing.T) {
	r := setupRouter(&fakeProvider{leagueErr: providers.ErrAuth})
	w := doRequest(r, "/league/nba/teams")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ESPN auth failed")
}

func TestGetRosterSortsAscendingAndFiltersUnavailable(t *testing.T) {
	r := setupRouter(&fakeProvider{league: testLeague()})
	w := doRequest(r, "/league/nba/roster?team_id=1&days=14")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Team       string                    `json:"team"`
			DaysWindow int                       `json:"days_window"`
			Roster     []fantasy.ProjectedPlayer `json:"roster"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 14, resp.Data.DaysWindow)
	// Hurt Guy (OUT) is filtered; remaining sorted ascending by projection.
	if assert.Len(t, resp.Data.Roster, 2) {
		assert.Equal(t, int64(100), resp.Data.Roster[0].PlayerID)
		assert.Equal(t, int64(101), resp.Data.Roster[1].PlayerID)
	}
}

func TestGetRosterUnknownTeam(t *testing.T) {
	r := setupRouter(&fakeProvider{league: testLeague()})
	w := doRequest(r, "/league/nba/roster?team_id=99")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWaiverRecommendations(t *testing.T) {
	provider := &fakeProvider{
		league: testLeague(),
		agents: []fantasy.Player{
			{ID: 200, Name: "Stud FA", ProTeam: "LAL", AvgPoints: 10},
			{ID: 201, Name: "Benched FA", ProTeam: "LAL", AvgPoints: 50, InjuryStatus: "SUSPENSION"},
		},
	}
	r := setupRouter(provider)
	w := doRequest(r, "/league/nba/recommendations/waivers?team_id=1")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Recommendations []fantasy.Recommendation  `json:"recommendations"`
			DropCandidates  []fantasy.ProjectedPlayer `json:"drop_candidates_used"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// The suspended free agent never enters the pool.
	if assert.Len(t, resp.Data.Recommendations, 1) {
		assert.Equal(t, int64(200), resp.Data.Recommendations[0].Add.PlayerID)
		assert.Equal(t, int64(100), resp.Data.Recommendations[0].Drop.PlayerID)
		assert.Equal(t, 8.0, resp.Data.Recommendations[0].ExpectedGain)
	}
	assert.Len(t, resp.Data.DropCandidates, 2)
}

func TestWaiverRecommendationsForcedDrop(t *testing.T) {
	provider := &fakeProvider{
		league: testLeague(),
		agents: []fantasy.Player{{ID: 200, ProTeam: "LAL", AvgPoints: 10}},
	}
	r := setupRouter(provider)

	w := doRequest(r, "/league/nba/recommendations/waivers?team_id=1&drop_player_id=101")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			DropCandidates []fantasy.ProjectedPlayer `json:"drop_candidates_used"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.Len(t, resp.Data.DropCandidates, 1) {
		assert.Equal(t, int64(101), resp.Data.DropCandidates[0].PlayerID)
	}

	// Forced drop id missing from the roster is a 404.
	w = doRequest(r, "/league/nba/recommendations/waivers?team_id=1&drop_player_id=999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "drop_player_id not found on roster")
}
