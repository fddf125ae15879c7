package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/lineuplogic/lineuplogic/internal/fantasy"
	"github.com/lineuplogic/lineuplogic/internal/services"
)

const defaultFantasyBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/fba"

// CacheProvider is the response-cache surface the client needs. A nil cache
// disables response caching.
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}

// ESPNLeagueClient reads league, roster, and free-agent data from the ESPN
// fantasy API using the league's SWID/espn_s2 cookies. Calls are rate
// limited and wrapped in a circuit breaker; decoded results are cached for
// a short TTL.
type ESPNLeagueClient struct {
	httpClient *http.Client
	baseURL    string
	leagueID   int64
	season     int
	swid       string
	espnS2     string
	cache      CacheProvider
	cacheTTL   time.Duration
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// ESPNLeagueConfig carries the client's construction parameters.
type ESPNLeagueConfig struct {
	LeagueID  int64
	Season    int
	SWID      string
	ESPNS2    string
	Timeout   time.Duration
	RateLimit int // requests per second
	CacheTTL  time.Duration
}

// NewESPNLeagueClient builds a league client. cache may be nil.
func NewESPNLeagueClient(cfg ESPNLeagueConfig, cache CacheProvider, logger *logrus.Logger) *ESPNLeagueClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "espn-league",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &ESPNLeagueClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    defaultFantasyBaseURL,
		leagueID:   cfg.LeagueID,
		season:     cfg.Season,
		swid:       cfg.SWID,
		espnS2:     cfg.ESPNS2,
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit),
		logger:     logger,
	}
}

type rawLeague struct {
	Teams []rawTeam `json:"teams"`
}

type rawTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Record struct {
		Overall struct {
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
		} `json:"overall"`
	} `json:"record"`
	Roster struct {
		Entries []struct {
			PlayerPoolEntry struct {
				Player rawPlayer `json:"player"`
			} `json:"playerPoolEntry"`
		} `json:"entries"`
	} `json:"roster"`
}

type rawFreeAgents struct {
	Players []struct {
		Player rawPlayer `json:"player"`
	} `json:"players"`
}

// League returns the fantasy teams with their full rosters.
func (c *ESPNLeagueClient) League(ctx context.Context) (*fantasy.League, error) {
	cacheKey := services.LeagueCacheKey(c.leagueID, c.season)
	if c.cache != nil {
		var cached fantasy.League
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=mTeam&view=mRoster",
		c.baseURL, c.season, c.leagueID)

	var payload rawLeague
	if err := c.getJSON(ctx, url, "", &payload); err != nil {
		return nil, err
	}

	league := &fantasy.League{Teams: make([]fantasy.Team, 0, len(payload.Teams))}
	for _, t := range payload.Teams {
		team := fantasy.Team{
			ID:     t.ID,
			Name:   t.Name,
			Wins:   t.Record.Overall.Wins,
			Losses: t.Record.Overall.Losses,
		}
		for _, entry := range t.Roster.Entries {
			team.Roster = append(team.Roster, adaptPlayer(entry.PlayerPoolEntry.Player))
		}
		league.Teams = append(league.Teams, team)
	}

	if c.cache != nil && len(league.Teams) > 0 {
		if err := c.cache.SetSimple(cacheKey, league, c.cacheTTL); err != nil {
			c.logger.Warnf("failed to cache league payload: %v", err)
		}
	}

	return league, nil
}

// FreeAgents returns up to size unrostered players.
func (c *ESPNLeagueClient) FreeAgents(ctx context.Context, size int) ([]fantasy.Player, error) {
	cacheKey := services.FreeAgentsCacheKey(c.leagueID, c.season, size)
	if c.cache != nil {
		var cached []fantasy.Player
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=kona_player_info",
		c.baseURL, c.season, c.leagueID)
	filter := fmt.Sprintf(`{"players":{"filterStatus":{"value":["FREEAGENT","WAIVERS"]},"limit":%d,"sortPercOwned":{"sortAsc":false,"sortPriority":1}}}`, size)

	var payload rawFreeAgents
	if err := c.getJSON(ctx, url, filter, &payload); err != nil {
		return nil, err
	}

	agents := make([]fantasy.Player, 0, len(payload.Players))
	for _, p := range payload.Players {
		agents = append(agents, adaptPlayer(p.Player))
	}

	if c.cache != nil && len(agents) > 0 {
		if err := c.cache.SetSimple(cacheKey, agents, c.cacheTTL); err != nil {
			c.logger.Warnf("failed to cache free agents: %v", err)
		}
	}

	return agents, nil
}

// getJSON performs one authenticated GET through the rate limiter and
// breaker. fantasyFilter, when set, is sent as the X-Fantasy-Filter header.
func (c *ESPNLeagueClient) getJSON(ctx context.Context, url, fantasyFilter string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build league request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if fantasyFilter != "" {
			req.Header.Set("X-Fantasy-Filter", fantasyFilter)
		}
		if c.swid != "" {
			req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
		}
		if c.espnS2 != "" {
			req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("league request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, ErrAuth
		case resp.StatusCode != http.StatusOK:
			return nil, &HTTPError{Status: resp.StatusCode, URL: url}
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return nil, fmt.Errorf("failed to decode league payload: %w", err)
		}
		return nil, nil
	})
	return err
}
