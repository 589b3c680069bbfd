package roster

import (
	"context"
	"fmt"

	"github.com/betlegend/sitetools/internal/fetch"
)

type Player struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Jersey   string `json:"jersey"`
}

// Client reads active rosters from the MLB Stats API.
type Client struct {
	fetch   *fetch.Client
	baseURL string
}

func NewClient(f *fetch.Client, baseURL string) *Client {
	return &Client{fetch: f, baseURL: baseURL}
}

type rosterResponse struct {
	Roster []struct {
		Person struct {
			FullName string `json:"fullName"`
		} `json:"person"`
		JerseyNumber string `json:"jerseyNumber"`
		Position     struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
	} `json:"roster"`
}

func (c *Client) ActiveRoster(ctx context.Context, teamID int) ([]Player, error) {
	url := fmt.Sprintf("%s/teams/%d/roster?rosterType=active", c.baseURL, teamID)
	var resp rosterResponse
	if err := c.fetch.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("roster for team %d: %w", teamID, err)
	}
	players := make([]Player, 0, len(resp.Roster))
	for _, e := range resp.Roster {
		if e.Person.FullName == "" {
			continue
		}
		players = append(players, Player{
			Name:     e.Person.FullName,
			Position: e.Position.Abbreviation,
			Jersey:   e.JerseyNumber,
		})
	}
	return players, nil
}
