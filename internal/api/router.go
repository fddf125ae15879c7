package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lineuplogic/lineuplogic/internal/api/handlers"
	"github.com/lineuplogic/lineuplogic/internal/fantasy"
	"github.com/lineuplogic/lineuplogic/pkg/config"
)

// SetupRoutes registers the league API on the given router group.
func SetupRoutes(group *gin.RouterGroup, provider handlers.LeagueProvider, resolver *fantasy.Resolver, cfg *config.Config) {
	leagueHandler := handlers.NewLeagueHandler(provider, resolver, cfg)

	group.GET("/league/nba/teams", leagueHandler.GetTeams)
	group.GET("/league/nba/roster", leagueHandler.GetRoster)
	group.GET("/league/nba/recommendations/waivers", leagueHandler.GetWaiverRecommendations)
}
