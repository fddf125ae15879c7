package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard"

// ScoreboardClient queries the public ESPN NBA scoreboard, one GET per
// calendar date. It is the refresh backend of the team schedule cache.
type ScoreboardClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewScoreboardClient builds a scoreboard client. timeout bounds each
// request at the transport level in addition to the caller's context.
func NewScoreboardClient(timeout time.Duration, logger *logrus.Logger) *ScoreboardClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ScoreboardClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultScoreboardURL,
		logger:     logger,
	}
}

type scoreboardResponse struct {
	Events []struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Team     struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// TeamAbbrevsForDate returns the raw team abbreviation of every competitor
// listed on the scoreboard for the given date, two per game. Normalization
// is the caller's concern.
func (c *ScoreboardClient) TeamAbbrevsForDate(ctx context.Context, date time.Time) ([]string, error) {
	url := fmt.Sprintf("%s?dates=%s", c.baseURL, date.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoreboard request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (LineupLogic)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoreboard request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.StatusCode, URL: url}
	}

	var payload scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard payload: %w", err)
	}

	var abbrevs []string
	for _, ev := range payload.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		for _, comp := range ev.Competitions[0].Competitors {
			abbrevs = append(abbrevs, comp.Team.Abbreviation)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"date":  date.Format("20060102"),
		"teams": len(abbrevs),
	}).Debug("fetched scoreboard")

	return abbrevs, nil
}
